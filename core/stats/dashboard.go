package stats

import (
	"sort"
	"time"

	"github.com/trezcool/darasa/core/actor"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
)

const (
	upcomingLimit = 3
	recentLimit   = 3
)

type AdminDashboard struct {
	Users            int            `json:"users"`
	UsersByRole      map[string]int `json:"users_by_role"`
	Courses          int            `json:"courses"`
	Students         int            `json:"students"`
	Revenue          float64        `json:"revenue"`
	CompletionRate   float64        `json:"completion_rate"`
	CancellationRate float64        `json:"cancellation_rate"`
	NoShowRate       float64        `json:"no_show_rate"`
	Average          float64        `json:"average"`
	RecentUsers      []user.User    `json:"recent_users"`
}

type TeacherDashboard struct {
	Students          int             `json:"students"`
	TodayCourses      []school.Course `json:"today_courses"`
	WeekCourses       []school.Course `json:"week_courses"`
	CompletedCourses  int             `json:"completed_courses"`
	Revenue           float64         `json:"revenue"`
	RevenuePerStudent float64         `json:"revenue_per_student"`
	CompletionRate    float64         `json:"completion_rate"`
	CancellationRate  float64         `json:"cancellation_rate"`
}

type ParentDashboard struct {
	Children        []StudentAverage `json:"children"`
	UpcomingCourses []school.Course  `json:"upcoming_courses"`
	RecentGrades    []school.Grade   `json:"recent_grades"`
	PendingInvoices []school.Invoice `json:"pending_invoices"`
	PendingAmount   float64          `json:"pending_amount"`
}

type StudentDashboard struct {
	Average         float64          `json:"average"`
	Bucket          string           `json:"bucket"`
	Subjects        []SubjectAverage `json:"subjects"`
	WeekCourses     int              `json:"week_courses"`
	UpcomingCourses []school.Course  `json:"upcoming_courses"`
	RecentGrades    []school.Grade   `json:"recent_grades"`
}

type Analytics struct {
	Courses          int              `json:"courses"`
	CompletedCourses int              `json:"completed_courses"`
	Students         int              `json:"students"`
	Average          float64          `json:"average"`
	CompletionRate   float64          `json:"completion_rate"`
	CancellationRate float64          `json:"cancellation_rate"`
	NoShowRate       float64          `json:"no_show_rate"`
	Revenue          float64          `json:"revenue"`
	Monthly          []MonthlyRevenue `json:"monthly"`
	Subjects         []SubjectAverage `json:"subjects"`
}

// Dashboard returns the dashboard of a, computed on the already scoped snap.
// It returns nil when a has no dashboard.
func Dashboard(snap school.Snapshot, a actor.Actor, now time.Time) interface{} {
	switch a.(type) {
	case actor.Admin:
		return NewAdminDashboard(snap)
	case actor.Teacher:
		return NewTeacherDashboard(snap, now)
	case actor.Parent:
		return NewParentDashboard(snap, now)
	case actor.Student:
		return NewStudentDashboard(snap, now)
	default:
		return nil
	}
}

func NewAdminDashboard(snap school.Snapshot) AdminDashboard {
	byRole := make(map[string]int, len(user.AllRoles))
	for _, role := range user.AllRoles {
		byRole[role] = 0
	}
	for _, u := range snap.Users {
		byRole[u.Role]++
	}
	recent := append([]user.User(nil), snap.Users...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return AdminDashboard{
		Users:            len(snap.Users),
		UsersByRole:      byRole,
		Courses:          len(snap.Courses),
		Students:         len(snap.Students),
		Revenue:          Revenue(snap.Invoices),
		CompletionRate:   CompletionRate(snap.Courses),
		CancellationRate: CancellationRate(snap.Courses),
		NoShowRate:       NoShowRate(snap.Courses),
		Average:          OverallAverage(snap.Grades),
		RecentUsers:      recent,
	}
}

func NewTeacherDashboard(snap school.Snapshot, now time.Time) TeacherDashboard {
	dayStart := startOfDay(now)
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	revenue := Revenue(snap.Invoices)
	return TeacherDashboard{
		Students:          len(snap.Students),
		TodayCourses:      coursesBetween(snap.Courses, dayStart, dayStart.AddDate(0, 0, 1)),
		WeekCourses:       coursesBetween(snap.Courses, weekStart, weekStart.AddDate(0, 0, 7)),
		CompletedCourses:  CountCourses(snap.Courses, school.CourseCompleted),
		Revenue:           revenue,
		RevenuePerStudent: RevenuePerStudent(revenue, len(snap.Students)),
		CompletionRate:    CompletionRate(snap.Courses),
		CancellationRate:  CancellationRate(snap.Courses),
	}
}

func NewParentDashboard(snap school.Snapshot, now time.Time) ParentDashboard {
	pending := make([]school.Invoice, 0)
	for _, inv := range snap.Invoices {
		if inv.IsPending() {
			pending = append(pending, inv)
		}
	}
	return ParentDashboard{
		Children:        StudentAverages(snap.Students, snap.Grades),
		UpcomingCourses: UpcomingCourses(snap.Courses, now, upcomingLimit),
		RecentGrades:    RecentGrades(snap.Grades, recentLimit),
		PendingInvoices: pending,
		PendingAmount:   sumAmounts(pending, school.InvoiceSent) + sumAmounts(pending, school.InvoiceOverdue),
	}
}

func NewStudentDashboard(snap school.Snapshot, now time.Time) StudentDashboard {
	avg := WeightedAverage(snap.Grades)
	weekStart := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
	return StudentDashboard{
		Average:         avg,
		Bucket:          GradeBucket(avg / GradeScale * 100),
		Subjects:        SubjectAverages(snap.Grades),
		WeekCourses:     len(coursesBetween(snap.Courses, weekStart, weekStart.AddDate(0, 0, 7))),
		UpcomingCourses: UpcomingCourses(snap.Courses, now, upcomingLimit),
		RecentGrades:    RecentGrades(snap.Grades, recentLimit),
	}
}

func NewAnalytics(snap school.Snapshot) Analytics {
	return Analytics{
		Courses:          len(snap.Courses),
		CompletedCourses: CountCourses(snap.Courses, school.CourseCompleted),
		Students:         len(snap.Students),
		Average:          OverallAverage(snap.Grades),
		CompletionRate:   CompletionRate(snap.Courses),
		CancellationRate: CancellationRate(snap.Courses),
		NoShowRate:       NoShowRate(snap.Courses),
		Revenue:          Revenue(snap.Invoices),
		Monthly:          RevenueByMonth(snap.Invoices, snap.Courses),
		Subjects:         SubjectAverages(snap.Grades),
	}
}

// UpcomingCourses returns at most limit scheduled courses starting after now, soonest first.
func UpcomingCourses(courses []school.Course, now time.Time, limit int) []school.Course {
	res := make([]school.Course, 0)
	for _, c := range courses {
		if c.Status == school.CourseScheduled && c.Date.After(now) {
			res = append(res, c)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	if len(res) > limit {
		res = res[:limit]
	}
	return res
}

// RecentGrades returns the last limit grades, newest first.
func RecentGrades(grades []school.Grade, limit int) []school.Grade {
	res := append([]school.Grade(nil), grades...)
	sort.SliceStable(res, func(i, j int) bool { return res[i].Date.After(res[j].Date) })
	if len(res) > limit {
		res = res[:limit]
	}
	if res == nil {
		res = make([]school.Grade, 0)
	}
	return res
}

// coursesBetween returns the courses starting in [from, to).
func coursesBetween(courses []school.Course, from, to time.Time) []school.Course {
	res := make([]school.Course, 0)
	for _, c := range courses {
		if !c.Date.Before(from) && c.Date.Before(to) {
			res = append(res, c)
		}
	}
	return res
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
