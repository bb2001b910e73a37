package school

import (
	"context"
	"crypto/sha1"
	"fmt"
	"net/mail"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/entity"
)

var (
	nowFunc = time.Now // mockable

	// errors
	ErrForbidden = errors.New("operation not allowed for this user")
)

const (
	errStatusText    = "cannot change status from %s to %s"
	errNotDraftText  = "only draft invoices can be modified"
	errDeletableText = "only draft or cancelled invoices can be deleted"
	errItemIdxText   = "no line item at index %d"
)

// Service applies the mutations of the school records. Every mutation is validated and checked
// against a fresh Snapshot of the store before being written.
type Service struct {
	store      entity.Store
	validate   *validator.Validate
	translator ut.Translator
	mailSvc    core.EmailService
	logger     core.Logger

	inflight singleflight.Group
}

func NewService(
	store entity.Store,
	validate *validator.Validate,
	translator ut.Translator,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(store, "store"),
		vala.IsNotNil(validate, "validate"),
		vala.IsNotNil(translator, "translator"),
		vala.IsNotNil(mailSvc, "mailSvc"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()
	return &Service{store: store, validate: validate, translator: translator, mailSvc: mailSvc, logger: logger}
}

// Snapshot lists the whole store.
func (svc *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	return Load(ctx, svc.store)
}

// mutate runs fn against a fresh Snapshot. Concurrent calls sharing a key run fn once and share its result.
func (svc *Service) mutate(ctx context.Context, key string, fn func(snap Snapshot) (interface{}, error)) (interface{}, error) {
	v, err, _ := svc.inflight.Do(key, func() (interface{}, error) {
		snap, err := Load(ctx, svc.store)
		if err != nil {
			return nil, errors.Wrap(err, "loading snapshot")
		}
		return fn(snap)
	})
	return v, err
}

// idKey only lets identical submissions on the same record share a call.
func idKey(op string, kind entity.Kind, id string, payload interface{}) string {
	return payloadKey(op+":"+id, kind, payload)
}

func payloadKey(op string, kind entity.Kind, payload interface{}) string {
	return fmt.Sprintf("%s:%s:%x", op, kind, sha1.Sum([]byte(fmt.Sprintf("%+v", payload))))
}

// checkRecord validates rec and merges the validation errors with the reference errors.
func (svc *Service) checkRecord(rec interface{}, refs []core.FieldError) error {
	var flds []core.FieldError
	if err := svc.validate.Struct(rec); err != nil {
		vErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.Wrap(err, "validating record")
		}
		flds = core.TranslateValidationErrors(vErrs, svc.translator)
	}
	flds = append(flds, refs...)
	if len(flds) > 0 {
		return core.NewInvalidRecordError(flds...)
	}
	return nil
}

func (svc *Service) create(ctx context.Context, rec entity.Entity) error {
	id, err := svc.store.Create(ctx, rec)
	if err != nil {
		if errors.Cause(err) == entity.ErrDuplicateID {
			return core.NewInvalidRecordError(core.FieldError{Field: "id", Error: err.Error()})
		}
		return errors.Wrapf(err, "creating %s", rec.EntityKind())
	}
	rec.SetEntityID(id)
	return nil
}

func (svc *Service) update(ctx context.Context, rec entity.Entity) error {
	return errors.Wrapf(svc.store.Update(ctx, rec), "updating %s", rec.EntityKind())
}

func (svc *Service) remove(ctx context.Context, kind entity.Kind, id string, dependents []core.FieldError) error {
	if len(dependents) > 0 {
		return core.NewInvalidRecordError(dependents...)
	}
	return errors.Wrapf(svc.store.Delete(ctx, kind, id), "deleting %s", kind)
}

func notFound(kind entity.Kind, id string) error {
	return errors.Wrapf(entity.ErrNotFound, "%s %s", kind, id)
}

// Teachers

func (svc *Service) CreateTeacher(ctx context.Context, t Teacher) (Teacher, error) {
	t.Email = core.CleanString(t.Email, true /* lower */)
	t.FirstName = core.CleanString(t.FirstName)
	t.LastName = core.CleanString(t.LastName)
	v, err := svc.mutate(ctx, payloadKey("create", entity.KindTeacher, t), func(snap Snapshot) (interface{}, error) {
		t.CreatedAt = nowFunc().UTC()
		if err := svc.checkRecord(t, snap.checkTeacherRefs(t)); err != nil {
			return nil, err
		}
		if err := svc.create(ctx, &t); err != nil {
			return nil, err
		}
		return t, nil
	})
	if err != nil {
		return Teacher{}, err
	}
	return v.(Teacher), nil
}

func (svc *Service) UpdateTeacher(ctx context.Context, id string, t Teacher) (Teacher, error) {
	t.Email = core.CleanString(t.Email, true /* lower */)
	t.FirstName = core.CleanString(t.FirstName)
	t.LastName = core.CleanString(t.LastName)
	v, err := svc.mutate(ctx, idKey("update", entity.KindTeacher, id, t), func(snap Snapshot) (interface{}, error) {
		orig, ok := snap.Teacher(id)
		if !ok {
			return nil, notFound(entity.KindTeacher, id)
		}
		t.ID, t.CreatedAt = orig.ID, orig.CreatedAt
		if err := svc.checkRecord(t, nil); err != nil {
			return nil, err
		}
		if err := svc.update(ctx, &t); err != nil {
			return nil, err
		}
		return t, nil
	})
	if err != nil {
		return Teacher{}, err
	}
	return v.(Teacher), nil
}

func (svc *Service) DeleteTeacher(ctx context.Context, id string) error {
	_, err := svc.mutate(ctx, idKey("delete", entity.KindTeacher, id, nil), func(snap Snapshot) (interface{}, error) {
		if _, ok := snap.Teacher(id); !ok {
			return nil, notFound(entity.KindTeacher, id)
		}
		return nil, svc.remove(ctx, entity.KindTeacher, id, snap.teacherDependents(id))
	})
	return err
}

// Students

func (svc *Service) CreateStudent(ctx context.Context, s Student) (Student, error) {
	s.FirstName = core.CleanString(s.FirstName)
	s.LastName = core.CleanString(s.LastName)
	v, err := svc.mutate(ctx, payloadKey("create", entity.KindStudent, s), func(snap Snapshot) (interface{}, error) {
		s.CreatedAt = nowFunc().UTC()
		if err := svc.checkRecord(s, snap.checkStudentRefs(s)); err != nil {
			return nil, err
		}
		if err := svc.create(ctx, &s); err != nil {
			return nil, err
		}
		return s, nil
	})
	if err != nil {
		return Student{}, err
	}
	return v.(Student), nil
}

func (svc *Service) UpdateStudent(ctx context.Context, id string, s Student) (Student, error) {
	s.FirstName = core.CleanString(s.FirstName)
	s.LastName = core.CleanString(s.LastName)
	v, err := svc.mutate(ctx, idKey("update", entity.KindStudent, id, s), func(snap Snapshot) (interface{}, error) {
		orig, ok := snap.Student(id)
		if !ok {
			return nil, notFound(entity.KindStudent, id)
		}
		s.ID, s.CreatedAt = orig.ID, orig.CreatedAt
		if err := svc.checkRecord(s, snap.checkStudentRefs(s)); err != nil {
			return nil, err
		}
		if err := svc.update(ctx, &s); err != nil {
			return nil, err
		}
		return s, nil
	})
	if err != nil {
		return Student{}, err
	}
	return v.(Student), nil
}

func (svc *Service) DeleteStudent(ctx context.Context, id string) error {
	_, err := svc.mutate(ctx, idKey("delete", entity.KindStudent, id, nil), func(snap Snapshot) (interface{}, error) {
		if _, ok := snap.Student(id); !ok {
			return nil, notFound(entity.KindStudent, id)
		}
		return nil, svc.remove(ctx, entity.KindStudent, id, snap.studentDependents(id))
	})
	return err
}

// Parents

func (svc *Service) CreateParent(ctx context.Context, p Parent) (Parent, error) {
	p.Email = core.CleanString(p.Email, true /* lower */)
	p.FirstName = core.CleanString(p.FirstName)
	p.LastName = core.CleanString(p.LastName)
	v, err := svc.mutate(ctx, payloadKey("create", entity.KindParent, p), func(snap Snapshot) (interface{}, error) {
		p.CreatedAt = nowFunc().UTC()
		if err := svc.checkRecord(p, snap.checkParentRefs(p)); err != nil {
			return nil, err
		}
		if err := svc.create(ctx, &p); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return Parent{}, err
	}
	return v.(Parent), nil
}

func (svc *Service) UpdateParent(ctx context.Context, id string, p Parent) (Parent, error) {
	p.Email = core.CleanString(p.Email, true /* lower */)
	p.FirstName = core.CleanString(p.FirstName)
	p.LastName = core.CleanString(p.LastName)
	v, err := svc.mutate(ctx, idKey("update", entity.KindParent, id, p), func(snap Snapshot) (interface{}, error) {
		orig, ok := snap.Parent(id)
		if !ok {
			return nil, notFound(entity.KindParent, id)
		}
		p.ID, p.CreatedAt = orig.ID, orig.CreatedAt
		if err := svc.checkRecord(p, snap.checkParentRefs(p)); err != nil {
			return nil, err
		}
		if err := svc.update(ctx, &p); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return Parent{}, err
	}
	return v.(Parent), nil
}

func (svc *Service) DeleteParent(ctx context.Context, id string) error {
	_, err := svc.mutate(ctx, idKey("delete", entity.KindParent, id, nil), func(snap Snapshot) (interface{}, error) {
		if _, ok := snap.Parent(id); !ok {
			return nil, notFound(entity.KindParent, id)
		}
		return nil, svc.remove(ctx, entity.KindParent, id, snap.parentDependents(id))
	})
	return err
}

// Courses

func (svc *Service) CreateCourse(ctx context.Context, c Course) (Course, error) {
	c.Title = core.CleanString(c.Title)
	if c.Status == "" {
		c.Status = CourseScheduled
	}
	v, err := svc.mutate(ctx, payloadKey("create", entity.KindCourse, c), func(snap Snapshot) (interface{}, error) {
		c.CreatedAt = nowFunc().UTC()
		if err := svc.checkRecord(c, snap.checkCourseRefs(c)); err != nil {
			return nil, err
		}
		if err := svc.create(ctx, &c); err != nil {
			return nil, err
		}
		return c, nil
	})
	if err != nil {
		return Course{}, err
	}
	return v.(Course), nil
}

func (svc *Service) UpdateCourse(ctx context.Context, id string, c Course) (Course, error) {
	c.Title = core.CleanString(c.Title)
	v, err := svc.mutate(ctx, idKey("update", entity.KindCourse, id, c), func(snap Snapshot) (interface{}, error) {
		orig, ok := snap.Course(id)
		if !ok {
			return nil, notFound(entity.KindCourse, id)
		}
		c.ID, c.CreatedAt = orig.ID, orig.CreatedAt
		if c.Status == "" {
			c.Status = orig.Status
		}
		refs := snap.checkCourseRefs(c)
		if !CanTransitionCourse(orig.Status, c.Status) {
			refs = append(refs, core.FieldError{Field: "status", Error: fmt.Sprintf(errStatusText, orig.Status, c.Status)})
		}
		if err := svc.checkRecord(c, refs); err != nil {
			return nil, err
		}
		if err := svc.update(ctx, &c); err != nil {
			return nil, err
		}
		return c, nil
	})
	if err != nil {
		return Course{}, err
	}
	return v.(Course), nil
}

func (svc *Service) DeleteCourse(ctx context.Context, id string) error {
	_, err := svc.mutate(ctx, idKey("delete", entity.KindCourse, id, nil), func(snap Snapshot) (interface{}, error) {
		if _, ok := snap.Course(id); !ok {
			return nil, notFound(entity.KindCourse, id)
		}
		return nil, svc.remove(ctx, entity.KindCourse, id, snap.courseDependents(id))
	})
	return err
}

// Grades

// CreateGrade records a grade and notifies the parents who opted into grade updates.
func (svc *Service) CreateGrade(ctx context.Context, g Grade) (Grade, error) {
	g.Comment = core.CleanString(g.Comment)
	v, err := svc.mutate(ctx, payloadKey("create", entity.KindGrade, g), func(snap Snapshot) (interface{}, error) {
		if g.Date.IsZero() {
			g.Date = nowFunc().UTC()
		}
		if err := svc.checkRecord(g, snap.checkGradeRefs(g)); err != nil {
			return nil, err
		}
		if err := svc.create(ctx, &g); err != nil {
			return nil, err
		}
		svc.notifyGrade(snap, g)
		return g, nil
	})
	if err != nil {
		return Grade{}, err
	}
	return v.(Grade), nil
}

func (svc *Service) UpdateGrade(ctx context.Context, id string, g Grade) (Grade, error) {
	g.Comment = core.CleanString(g.Comment)
	v, err := svc.mutate(ctx, idKey("update", entity.KindGrade, id, g), func(snap Snapshot) (interface{}, error) {
		orig, ok := snap.Grade(id)
		if !ok {
			return nil, notFound(entity.KindGrade, id)
		}
		g.ID = orig.ID
		if g.Date.IsZero() {
			g.Date = orig.Date
		}
		if err := svc.checkRecord(g, snap.checkGradeRefs(g)); err != nil {
			return nil, err
		}
		if err := svc.update(ctx, &g); err != nil {
			return nil, err
		}
		return g, nil
	})
	if err != nil {
		return Grade{}, err
	}
	return v.(Grade), nil
}

func (svc *Service) DeleteGrade(ctx context.Context, id string) error {
	_, err := svc.mutate(ctx, idKey("delete", entity.KindGrade, id, nil), func(snap Snapshot) (interface{}, error) {
		if _, ok := snap.Grade(id); !ok {
			return nil, notFound(entity.KindGrade, id)
		}
		return nil, svc.remove(ctx, entity.KindGrade, id, nil)
	})
	return err
}

func (svc *Service) notifyGrade(snap Snapshot, g Grade) {
	student, _ := snap.Student(g.StudentID)
	var msgs []*core.EmailMessage
	for _, pid := range student.ParentIDs {
		p, ok := snap.Parent(pid)
		if !ok || !p.Notifications.Email || !p.Notifications.GradeUpdates {
			continue
		}
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Name: p.FullName(), Address: p.Email}},
			Subject:      "New grade for " + student.FullName(),
			TemplateName: "grade_added",
			TemplateData: map[string]interface{}{
				"ParentName":  p.FullName(),
				"StudentName": student.FullName(),
				"Subject":     g.Subject,
				"Score":       g.Score,
				"MaxScore":    g.MaxScore,
				"Type":        g.Type,
				"Comment":     g.Comment,
			},
		})
	}
	if len(msgs) > 0 {
		svc.mailSvc.SendMessages(msgs...)
	}
}

// Invoices

// CreateInvoice numbers the invoice and stores it as a draft.
func (svc *Service) CreateInvoice(ctx context.Context, inv Invoice) (Invoice, error) {
	inv.Currency = core.CleanString(inv.Currency)
	v, err := svc.mutate(ctx, payloadKey("create", entity.KindInvoice, inv), func(snap Snapshot) (interface{}, error) {
		now := nowFunc().UTC()
		inv.Status = InvoiceDraft
		inv.Number = NextInvoiceNumber(snap.Invoices, now.Year())
		inv.PaidDate, inv.PaymentMethod = nil, ""
		inv.CreatedAt = now
		inv.Recompute()
		if err := svc.checkRecord(inv, snap.checkInvoiceRefs(inv)); err != nil {
			return nil, err
		}
		if err := svc.create(ctx, &inv); err != nil {
			return nil, err
		}
		return inv, nil
	})
	if err != nil {
		return Invoice{}, err
	}
	return v.(Invoice), nil
}

// UpdateInvoice replaces the content of a draft invoice. Status changes go through the lifecycle methods.
func (svc *Service) UpdateInvoice(ctx context.Context, id string, inv Invoice) (Invoice, error) {
	inv.Currency = core.CleanString(inv.Currency)
	return svc.editDraft(ctx, "update", id, inv, func(orig Invoice) (Invoice, []core.FieldError) {
		inv.ID, inv.Number, inv.Status, inv.CreatedAt = orig.ID, orig.Number, orig.Status, orig.CreatedAt
		inv.PaidDate, inv.PaymentMethod = orig.PaidDate, orig.PaymentMethod
		inv.Recompute()
		return inv, nil
	})
}

func (svc *Service) AddInvoiceItem(ctx context.Context, id string, it LineItem) (Invoice, error) {
	it.Description = core.CleanString(it.Description)
	return svc.editDraft(ctx, "additem", id, it, func(orig Invoice) (Invoice, []core.FieldError) {
		orig.AddItem(it)
		return orig, nil
	})
}

func (svc *Service) RemoveInvoiceItem(ctx context.Context, id string, idx int) (Invoice, error) {
	return svc.editDraft(ctx, "removeitem", id, idx, func(orig Invoice) (Invoice, []core.FieldError) {
		if !orig.RemoveItem(idx) {
			return orig, []core.FieldError{{Field: "items", Error: fmt.Sprintf(errItemIdxText, idx)}}
		}
		return orig, nil
	})
}

func (svc *Service) editDraft(
	ctx context.Context,
	op, id string,
	payload interface{},
	edit func(orig Invoice) (Invoice, []core.FieldError),
) (Invoice, error) {
	v, err := svc.mutate(ctx, idKey(op, entity.KindInvoice, id, payload), func(snap Snapshot) (interface{}, error) {
		orig, ok := snap.Invoice(id)
		if !ok {
			return nil, notFound(entity.KindInvoice, id)
		}
		if orig.Status != InvoiceDraft {
			return nil, core.NewInvalidRecordError(core.FieldError{Field: "status", Error: errNotDraftText})
		}
		orig.Items = append([]LineItem(nil), orig.Items...)
		inv, flds := edit(orig)
		if err := svc.checkRecord(inv, append(flds, snap.checkInvoiceRefs(inv)...)); err != nil {
			return nil, err
		}
		if err := svc.update(ctx, &inv); err != nil {
			return nil, err
		}
		return inv, nil
	})
	if err != nil {
		return Invoice{}, err
	}
	return v.(Invoice), nil
}

// transition moves the invoice to status, applying apply to the loaded invoice first.
// payload tells apart the submissions of the same transition.
func (svc *Service) transition(ctx context.Context, id, status string, payload interface{}, apply func(snap Snapshot, inv *Invoice)) (Invoice, error) {
	v, err := svc.mutate(ctx, idKey(status, entity.KindInvoice, id, payload), func(snap Snapshot) (interface{}, error) {
		inv, ok := snap.Invoice(id)
		if !ok {
			return nil, notFound(entity.KindInvoice, id)
		}
		if !CanTransitionInvoice(inv.Status, status) {
			return nil, core.NewInvalidRecordError(core.FieldError{
				Field: "status",
				Error: fmt.Sprintf(errStatusText, inv.Status, status),
			})
		}
		inv.Status = status
		if apply != nil {
			apply(snap, &inv)
		}
		if err := svc.update(ctx, &inv); err != nil {
			return nil, err
		}
		return inv, nil
	})
	if err != nil {
		return Invoice{}, err
	}
	return v.(Invoice), nil
}

// SendInvoice issues a draft invoice and emails the parent when they accept payment reminders.
func (svc *Service) SendInvoice(ctx context.Context, id string) (Invoice, error) {
	return svc.transition(ctx, id, InvoiceSent, nil, func(snap Snapshot, inv *Invoice) {
		p, ok := snap.Parent(inv.ParentID)
		if !ok || !p.Notifications.Email || !p.Notifications.PaymentReminders {
			return
		}
		student, _ := snap.Student(inv.StudentID)
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: p.FullName(), Address: p.Email}},
			Subject:      "Invoice " + inv.Number,
			TemplateName: "invoice_sent",
			TemplateData: map[string]interface{}{
				"ParentName":  p.FullName(),
				"Number":      inv.Number,
				"StudentName": student.FullName(),
				"Amount":      inv.Amount,
				"Currency":    inv.Currency,
				"DueDate":     inv.DueDate.Format("2006-01-02"),
				"Items":       inv.Items,
			},
		})
	})
}

// MarkInvoicePaid settles the invoice. The parent's preferred payment method is used when method is empty.
func (svc *Service) MarkInvoicePaid(ctx context.Context, id, method string) (Invoice, error) {
	method = core.CleanString(method)
	return svc.transition(ctx, id, InvoicePaid, method, func(snap Snapshot, inv *Invoice) {
		now := nowFunc().UTC()
		inv.PaidDate = &now
		if method == "" {
			if p, ok := snap.Parent(inv.ParentID); ok {
				method = p.PreferredPaymentMethod
			}
		}
		inv.PaymentMethod = method
	})
}

func (svc *Service) CancelInvoice(ctx context.Context, id string) (Invoice, error) {
	return svc.transition(ctx, id, InvoiceCancelled, nil, nil)
}

// MarkOverdue flags every sent invoice whose due date passed at now, and returns how many were flagged.
func (svc *Service) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	v, err := svc.mutate(ctx, "overdue", func(snap Snapshot) (interface{}, error) {
		var n int
		for _, inv := range snap.Invoices {
			if !inv.IsOverdue(now) {
				continue
			}
			inv.Status = InvoiceOverdue
			if err := svc.update(ctx, &inv); err != nil {
				return n, err
			}
			n++
		}
		return n, nil
	})
	if v == nil {
		return 0, err
	}
	return v.(int), err
}

func (svc *Service) DeleteInvoice(ctx context.Context, id string) error {
	_, err := svc.mutate(ctx, idKey("delete", entity.KindInvoice, id, nil), func(snap Snapshot) (interface{}, error) {
		inv, ok := snap.Invoice(id)
		if !ok {
			return nil, notFound(entity.KindInvoice, id)
		}
		if inv.Status != InvoiceDraft && inv.Status != InvoiceCancelled {
			return nil, core.NewInvalidRecordError(core.FieldError{Field: "status", Error: errDeletableText})
		}
		return nil, svc.remove(ctx, entity.KindInvoice, id, nil)
	})
	return err
}

// Messages

// SendMessage stores a new unread message. Replies join the thread of the message they answer.
func (svc *Service) SendMessage(ctx context.Context, m Message) (Message, error) {
	m.Subject = core.CleanString(m.Subject)
	v, err := svc.mutate(ctx, payloadKey("create", entity.KindMessage, m), func(snap Snapshot) (interface{}, error) {
		m.Read = false
		m.CreatedAt = nowFunc().UTC()
		if orig, ok := snap.Message(m.ThreadID); ok && orig.ThreadID != "" {
			m.ThreadID = orig.ThreadID
		}
		if err := svc.checkRecord(m, snap.checkMessageRefs(m)); err != nil {
			return nil, err
		}
		if err := svc.create(ctx, &m); err != nil {
			return nil, err
		}
		return m, nil
	})
	if err != nil {
		return Message{}, err
	}
	return v.(Message), nil
}

// MarkMessageRead is only allowed to the receiver of the message.
func (svc *Service) MarkMessageRead(ctx context.Context, id, userID string) (Message, error) {
	v, err := svc.mutate(ctx, idKey("read", entity.KindMessage, id, userID), func(snap Snapshot) (interface{}, error) {
		m, ok := snap.Message(id)
		if !ok {
			return nil, notFound(entity.KindMessage, id)
		}
		if m.ReceiverID != userID {
			return nil, ErrForbidden
		}
		if m.Read {
			return m, nil
		}
		m.Read = true
		if err := svc.update(ctx, &m); err != nil {
			return nil, err
		}
		return m, nil
	})
	if err != nil {
		return Message{}, err
	}
	return v.(Message), nil
}

// DeleteMessage is only allowed to the sender or the receiver of the message.
func (svc *Service) DeleteMessage(ctx context.Context, id, userID string) error {
	_, err := svc.mutate(ctx, idKey("delete", entity.KindMessage, id, userID), func(snap Snapshot) (interface{}, error) {
		m, ok := snap.Message(id)
		if !ok {
			return nil, notFound(entity.KindMessage, id)
		}
		if m.SenderID != userID && m.ReceiverID != userID {
			return nil, ErrForbidden
		}
		return nil, svc.remove(ctx, entity.KindMessage, id, snap.messageDependents(id))
	})
	return err
}
