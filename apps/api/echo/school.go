package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/actor"
	"github.com/trezcool/darasa/core/entity"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/scope"
	"github.com/trezcool/darasa/core/stats"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/core/view"
)

var nowFunc = time.Now // mockable

type schoolAPI struct {
	svc *school.Service
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service) {
	api := schoolAPI{svc: svc}
	admin := roleMiddleware(user.RoleAdmin)
	staff := roleMiddleware(user.RoleAdmin, user.RoleTeacher)
	payers := roleMiddleware(user.RoleAdmin, user.RoleTeacher, user.RoleParent)

	ag := g.Group("", jwt)
	ag.GET("/screens/:tab", api.screen)
	ag.GET("/dashboard", api.dashboard)
	ag.GET("/calendar", api.calendar)

	tg := ag.Group("/teachers")
	tg.GET("", api.listTeachers)
	tg.POST("", api.createTeacher, admin)
	tg.PUT("/:id", api.updateTeacher, admin)
	tg.DELETE("/:id", api.deleteTeacher, admin)

	pg := ag.Group("/parents")
	pg.GET("", api.listParents)
	pg.POST("", api.createParent, admin)
	pg.PUT("/:id", api.updateParent, admin)
	pg.DELETE("/:id", api.deleteParent, admin)

	sg := ag.Group("/students")
	sg.GET("", api.listStudents)
	sg.POST("", api.createStudent, staff)
	sg.GET("/:id/average", api.studentAverage)
	sg.PUT("/:id", api.updateStudent, staff)
	sg.DELETE("/:id", api.deleteStudent, staff)

	cg := ag.Group("/courses")
	cg.GET("", api.listCourses)
	cg.POST("", api.createCourse, staff)
	cg.PUT("/:id", api.updateCourse, staff)
	cg.DELETE("/:id", api.deleteCourse, staff)

	gg := ag.Group("/grades")
	gg.GET("", api.listGrades)
	gg.POST("", api.createGrade, staff)
	gg.PUT("/:id", api.updateGrade, staff)
	gg.DELETE("/:id", api.deleteGrade, staff)

	ig := ag.Group("/invoices")
	ig.GET("", api.listInvoices)
	ig.GET("/summary", api.invoiceSummary)
	ig.POST("", api.createInvoice, staff)
	ig.PUT("/:id", api.updateInvoice, staff)
	ig.DELETE("/:id", api.deleteInvoice, staff)
	ig.POST("/:id/items", api.addInvoiceItem, staff)
	ig.DELETE("/:id/items/:index", api.removeInvoiceItem, staff)
	ig.POST("/:id/send", api.sendInvoice, staff)
	ig.POST("/:id/pay", api.payInvoice, payers)
	ig.POST("/:id/cancel", api.cancelInvoice, staff)

	mg := ag.Group("/messages")
	mg.GET("", api.listMessages)
	mg.POST("", api.sendMessage)
	mg.POST("/:id/read", api.readMessage)
	mg.DELETE("/:id", api.deleteMessage)
}

// scoped returns the part of the store visible to the request actor.
func (api *schoolAPI) scoped(ctx echo.Context) (school.Snapshot, actor.Actor, error) {
	a, err := getContextActor(ctx)
	if err != nil {
		return school.Snapshot{}, nil, errors.Wrap(err, "getting context actor")
	}
	snap, err := api.svc.Snapshot(ctx.Request().Context())
	if err != nil {
		return school.Snapshot{}, nil, errors.Wrap(err, "loading snapshot")
	}
	return scope.Filter(snap, a), a, nil
}

// guard fails with a 404 when the record of kind named by the id path param is not visible to the actor.
func (api *schoolAPI) guard(ctx echo.Context, kind entity.Kind) (actor.Actor, error) {
	snap, a, err := api.scoped(ctx)
	if err != nil {
		return nil, err
	}
	if !visible(snap, kind, ctx.Param("id")) {
		return nil, errHTTPNotFound
	}
	return a, nil
}

func visible(snap school.Snapshot, kind entity.Kind, id string) bool {
	var ok bool
	switch kind {
	case entity.KindTeacher:
		_, ok = snap.Teacher(id)
	case entity.KindParent:
		_, ok = snap.Parent(id)
	case entity.KindStudent:
		_, ok = snap.Student(id)
	case entity.KindCourse:
		_, ok = snap.Course(id)
	case entity.KindGrade:
		_, ok = snap.Grade(id)
	case entity.KindInvoice:
		_, ok = snap.Invoice(id)
	case entity.KindMessage:
		_, ok = snap.Message(id)
	}
	return ok
}

// claimTeacher keeps teachers on their own records. An empty teacherID is set to the teacher.
func claimTeacher(a actor.Actor, teacherID *string) error {
	t, ok := a.(actor.Teacher)
	if !ok {
		return nil
	}
	if *teacherID == "" {
		*teacherID = t.UserID
		return nil
	}
	if *teacherID != t.UserID {
		return errHTTPForbidden
	}
	return nil
}

// Screens

func (api *schoolAPI) screen(ctx echo.Context) error {
	a, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	snap, err := api.svc.Snapshot(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading snapshot")
	}
	return ctx.JSON(http.StatusOK, view.Render(snap, a, ctx.Param("tab"), nowFunc()))
}

func (api *schoolAPI) dashboard(ctx echo.Context) error {
	snap, a, err := api.scoped(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats.Dashboard(snap, a, nowFunc()))
}

func (api *schoolAPI) calendar(ctx echo.Context) error {
	filter, err := bindCalendarFilter(ctx)
	if err != nil {
		return err
	}
	snap, _, err := api.scoped(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, school.CalendarEvents(snap.Courses, filter))
}

// Teachers

func (api *schoolAPI) listTeachers(ctx echo.Context) error {
	snap, _, err := api.scoped(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap.Teachers)
}

func (api *schoolAPI) createTeacher(ctx echo.Context) error {
	var data school.Teacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Teacher")
	}
	t, err := api.svc.CreateTeacher(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *schoolAPI) updateTeacher(ctx echo.Context) error {
	var data school.Teacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Teacher")
	}
	t, err := api.svc.UpdateTeacher(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *schoolAPI) deleteTeacher(ctx echo.Context) error {
	if err := api.svc.DeleteTeacher(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Parents

func (api *schoolAPI) listParents(ctx echo.Context) error {
	snap, _, err := api.scoped(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap.Parents)
}

func (api *schoolAPI) createParent(ctx echo.Context) error {
	var data school.Parent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Parent")
	}
	p, err := api.svc.CreateParent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating parent")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *schoolAPI) updateParent(ctx echo.Context) error {
	var data school.Parent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Parent")
	}
	p, err := api.svc.UpdateParent(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating parent")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *schoolAPI) deleteParent(ctx echo.Context) error {
	if err := api.svc.DeleteParent(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting parent")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Students

type StudentAverageResponse struct {
	StudentID string  `json:"student_id"`
	Subject   string  `json:"subject,omitempty"`
	Average   float64 `json:"average"`
}

func (api *schoolAPI) listStudents(ctx echo.Context) error {
	snap, _, err := api.scoped(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap.Students)
}

func (api *schoolAPI) studentAverage(ctx echo.Context) error {
	snap, _, err := api.scoped(ctx)
	if err != nil {
		return err
	}
	id := ctx.Param("id")
	if !visible(snap, entity.KindStudent, id) {
		return errHTTPNotFound
	}

	res := StudentAverageResponse{StudentID: id, Subject: ctx.QueryParam("subject")}
	if res.Subject != "" {
		res.Average = stats.WeightedAverage(snap.GradesOf(id), res.Subject)
	} else {
		res.Average = stats.WeightedAverage(snap.GradesOf(id))
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *schoolAPI) createStudent(ctx echo.Context) error {
	a, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	var data school.Student
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Student")
	}
	if err = claimTeacher(a, &data.TeacherID); err != nil {
		return err
	}

	s, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *schoolAPI) updateStudent(ctx echo.Context) error {
	a, err := api.guard(ctx, entity.KindStudent)
	if err != nil {
		return err
	}
	var data school.Student
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Student")
	}
	if err = claimTeacher(a, &data.TeacherID); err != nil {
		return err
	}

	s, err := api.svc.UpdateStudent(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *schoolAPI) deleteStudent(ctx echo.Context) error {
	if _, err := api.guard(ctx, entity.KindStudent); err != nil {
		return err
	}
	if err := api.svc.DeleteStudent(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Courses

func (api *schoolAPI) listCourses(ctx echo.Context) error {
	snap, _, err := api.scoped(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap.Courses)
}

func (api *schoolAPI) createCourse(ctx echo.Context) error {
	a, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	var data school.Course
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Course")
	}
	if err = claimTeacher(a, &data.TeacherID); err != nil {
		return err
	}

	c, err := api.svc.CreateCourse(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *schoolAPI) updateCourse(ctx echo.Context) error {
	a, err := api.guard(ctx, entity.KindCourse)
	if err != nil {
		return err
	}
	var data school.Course
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Course")
	}
	if err = claimTeacher(a, &data.TeacherID); err != nil {
		return err
	}

	c, err := api.svc.UpdateCourse(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *schoolAPI) deleteCourse(ctx echo.Context) error {
	if _, err := api.guard(ctx, entity.KindCourse); err != nil {
		return err
	}
	if err := api.svc.DeleteCourse(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Grades

func (api *schoolAPI) listGrades(ctx echo.Context) error {
	snap, _, err := api.scoped(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap.Grades)
}

func (api *schoolAPI) createGrade(ctx echo.Context) error {
	a, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	var data school.Grade
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Grade")
	}
	if err = claimTeacher(a, &data.TeacherID); err != nil {
		return err
	}

	g, err := api.svc.CreateGrade(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	return ctx.JSON(http.StatusCreated, g)
}

func (api *schoolAPI) updateGrade(ctx echo.Context) error {
	a, err := api.guard(ctx, entity.KindGrade)
	if err != nil {
		return err
	}
	var data school.Grade
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Grade")
	}
	if err = claimTeacher(a, &data.TeacherID); err != nil {
		return err
	}

	g, err := api.svc.UpdateGrade(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating grade")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *schoolAPI) deleteGrade(ctx echo.Context) error {
	if _, err := api.guard(ctx, entity.KindGrade); err != nil {
		return err
	}
	if err := api.svc.DeleteGrade(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Invoices

type PaymentRequest struct {
	Method string `json:"method"`
}

func (api *schoolAPI) listInvoices(ctx echo.Context) error {
	snap, _, err := api.scoped(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap.Invoices)
}

func (api *schoolAPI) invoiceSummary(ctx echo.Context) error {
	snap, _, err := api.scoped(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats.SummarizeInvoices(snap.Invoices))
}

func (api *schoolAPI) createInvoice(ctx echo.Context) error {
	a, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	var data school.Invoice
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Invoice")
	}
	if err = claimTeacher(a, &data.TeacherID); err != nil {
		return err
	}

	inv, err := api.svc.CreateInvoice(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating invoice")
	}
	return ctx.JSON(http.StatusCreated, inv)
}

func (api *schoolAPI) updateInvoice(ctx echo.Context) error {
	a, err := api.guard(ctx, entity.KindInvoice)
	if err != nil {
		return err
	}
	var data school.Invoice
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Invoice")
	}
	if err = claimTeacher(a, &data.TeacherID); err != nil {
		return err
	}

	inv, err := api.svc.UpdateInvoice(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating invoice")
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *schoolAPI) deleteInvoice(ctx echo.Context) error {
	if _, err := api.guard(ctx, entity.KindInvoice); err != nil {
		return err
	}
	if err := api.svc.DeleteInvoice(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting invoice")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolAPI) addInvoiceItem(ctx echo.Context) error {
	if _, err := api.guard(ctx, entity.KindInvoice); err != nil {
		return err
	}
	var data school.LineItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LineItem")
	}

	inv, err := api.svc.AddInvoiceItem(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding invoice item")
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *schoolAPI) removeInvoiceItem(ctx echo.Context) error {
	if _, err := api.guard(ctx, entity.KindInvoice); err != nil {
		return err
	}
	idx, err := paramIndex(ctx, "index")
	if err != nil {
		return err
	}

	inv, err := api.svc.RemoveInvoiceItem(ctx.Request().Context(), ctx.Param("id"), idx)
	if err != nil {
		return errors.Wrap(err, "removing invoice item")
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *schoolAPI) sendInvoice(ctx echo.Context) error {
	if _, err := api.guard(ctx, entity.KindInvoice); err != nil {
		return err
	}
	inv, err := api.svc.SendInvoice(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "sending invoice")
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *schoolAPI) payInvoice(ctx echo.Context) error {
	if _, err := api.guard(ctx, entity.KindInvoice); err != nil {
		return err
	}
	var data PaymentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PaymentRequest")
	}

	inv, err := api.svc.MarkInvoicePaid(ctx.Request().Context(), ctx.Param("id"), data.Method)
	if err != nil {
		return errors.Wrap(err, "paying invoice")
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *schoolAPI) cancelInvoice(ctx echo.Context) error {
	if _, err := api.guard(ctx, entity.KindInvoice); err != nil {
		return err
	}
	inv, err := api.svc.CancelInvoice(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "cancelling invoice")
	}
	return ctx.JSON(http.StatusOK, inv)
}

// Messages

func (api *schoolAPI) listMessages(ctx echo.Context) error {
	snap, a, err := api.scoped(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, school.FilterMessages(snap.Messages, a.ID(), bindMessageFilter(ctx)))
}

func (api *schoolAPI) sendMessage(ctx echo.Context) error {
	a, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	var data school.Message
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Message")
	}
	data.SenderID = a.ID()

	m, err := api.svc.SendMessage(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *schoolAPI) readMessage(ctx echo.Context) error {
	a, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	m, err := api.svc.MarkMessageRead(ctx.Request().Context(), ctx.Param("id"), a.ID())
	if err != nil {
		return errors.Wrap(err, "reading message")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *schoolAPI) deleteMessage(ctx echo.Context) error {
	a, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	if err = api.svc.DeleteMessage(ctx.Request().Context(), ctx.Param("id"), a.ID()); err != nil {
		return errors.Wrap(err, "deleting message")
	}
	return ctx.NoContent(http.StatusNoContent)
}
