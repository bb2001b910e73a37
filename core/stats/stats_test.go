package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/actor"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
)

func grade(student, subject string, score, max, weight float64) school.Grade {
	return school.Grade{StudentID: student, Subject: subject, Score: score, MaxScore: max, Weight: weight}
}

func courses(statuses ...string) []school.Course {
	res := make([]school.Course, 0, len(statuses))
	for _, s := range statuses {
		res = append(res, school.Course{Status: s})
	}
	return res
}

func TestWeightedAverage(t *testing.T) {
	math := []school.Grade{
		grade("s1", "Math", 15, 20, 1),
		grade("s1", "Math", 12, 20, 2),
	}
	tests := []struct {
		name    string
		grades  []school.Grade
		subject []string
		want    float64
	}{
		{name: "no grades", want: 0},
		{name: "weighted", grades: math, want: 13},
		{name: "subject", grades: append(math, grade("s1", "French", 20, 20, 1)), subject: []string{"Math"}, want: 13},
		{name: "unknown subject", grades: math, subject: []string{"Art"}, want: 0},
		{name: "other scale", grades: []school.Grade{grade("s1", "Math", 8, 10, 1)}, want: 16},
		{name: "zero max ignored", grades: []school.Grade{grade("s1", "Math", 8, 0, 1), grade("s1", "Math", 10, 20, 1)}, want: 10},
		{name: "zero weights", grades: []school.Grade{grade("s1", "Math", 8, 10, 0)}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedAverage(tt.grades, tt.subject...)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestWeightedAverage_scaling(t *testing.T) {
	// scaling every weight by the same factor leaves the average unchanged
	gs := []school.Grade{grade("s1", "Math", 15, 20, 1), grade("s1", "Math", 12, 20, 2)}
	scaled := make([]school.Grade, len(gs))
	for i, g := range gs {
		g.Weight *= 3.5
		scaled[i] = g
	}
	assert.InDelta(t, WeightedAverage(gs), WeightedAverage(scaled), 1e-9)
}

func TestOverallAverage(t *testing.T) {
	gs := []school.Grade{grade("s1", "Math", 10, 20, 1), grade("s2", "Math", 8, 10, 3)}
	assert.InDelta(t, 13, OverallAverage(gs), 1e-9)
	if got := OverallAverage(nil); got != 0 {
		t.Errorf("OverallAverage() = %v, want 0", got)
	}
}

func TestGradeBucket(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{pct: 100, want: BucketExcellent},
		{pct: 80, want: BucketExcellent},
		{pct: 79.9, want: BucketGood},
		{pct: 60, want: BucketGood},
		{pct: 59.9, want: BucketNeedsWork},
		{pct: 0, want: BucketNeedsWork},
	}
	for _, tt := range tests {
		if got := GradeBucket(tt.pct); got != tt.want {
			t.Errorf("GradeBucket(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}

func TestSubjectAverages(t *testing.T) {
	gs := []school.Grade{
		grade("s1", "Math", 15, 20, 1),
		grade("s2", "Math", 12, 20, 2),
		grade("s1", "French", 10, 20, 1),
	}
	got := SubjectAverages(gs)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "French", got[0].Subject)
		assert.InDelta(t, 10, got[0].Average, 1e-9)
		assert.Equal(t, "Math", got[1].Subject)
		assert.InDelta(t, 13, got[1].Average, 1e-9)
		assert.Equal(t, 2, got[1].Grades)
		assert.Equal(t, 2, got[1].Students)
	}
}

func TestStudentAverages(t *testing.T) {
	students := []school.Student{
		{ID: "s1", FirstName: "Alice", LastName: "Martin"},
		{ID: "s2", FirstName: "Lucas"},
	}
	got := StudentAverages(students, []school.Grade{grade("s1", "Math", 17, 20, 1)})
	want := []StudentAverage{
		{StudentID: "s1", Name: "Alice Martin", Average: 17, Bucket: BucketExcellent},
		{StudentID: "s2", Name: "Lucas", Average: 0, Bucket: BucketNeedsWork},
	}
	assert.Equal(t, want, got)
}

func TestCourseRates(t *testing.T) {
	cs := courses(
		school.CourseCompleted, school.CourseCompleted, school.CourseCompleted, school.CourseCompleted,
		school.CourseCompleted, school.CourseCompleted, school.CourseCompleted, school.CourseCompleted,
		school.CourseCancelled, school.CourseScheduled,
	)
	tests := []struct {
		name string
		fn   func([]school.Course) float64
		cs   []school.Course
		want float64
	}{
		{name: "completion", fn: CompletionRate, cs: cs, want: 80},
		{name: "cancellation", fn: CancellationRate, cs: cs, want: 10},
		{name: "no-show", fn: NoShowRate, cs: cs, want: 0},
		{name: "no-show counted apart", fn: CancellationRate, cs: courses(school.CourseNoShow, school.CourseCancelled), want: 50},
		{name: "completion: no courses", fn: CompletionRate, want: 0},
		{name: "cancellation: no courses", fn: CancellationRate, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.fn(tt.cs), 1e-9)
		})
	}
}

func TestInvoiceAmount(t *testing.T) {
	items := []school.LineItem{{Quantity: 2, UnitPrice: 15}, {Quantity: 1, UnitPrice: 45}}
	if got := InvoiceAmount(items, 10); got != 65 {
		t.Errorf("InvoiceAmount() = %v, want 65", got)
	}
	if got := InvoiceAmount(nil, 0); got != 0 {
		t.Errorf("InvoiceAmount() = %v, want 0", got)
	}
	if got := LineTotal(items[0]); got != 30 {
		t.Errorf("LineTotal() = %v, want 30", got)
	}
}

func TestRevenue(t *testing.T) {
	invoices := []school.Invoice{
		{Status: school.InvoicePaid, Amount: 30},
		{Status: school.InvoicePaid, Amount: 45},
		{Status: school.InvoiceSent, Amount: 75},
		{Status: school.InvoiceOverdue, Amount: 20},
		{Status: school.InvoiceDraft, Amount: 10},
	}
	if got := Revenue(invoices); got != 75 {
		t.Errorf("Revenue() = %v, want 75", got)
	}
	if got := Revenue(nil); got != 0 {
		t.Errorf("Revenue() = %v, want 0", got)
	}
	if got := RevenuePerStudent(75, 3); got != 25 {
		t.Errorf("RevenuePerStudent() = %v, want 25", got)
	}
	if got := RevenuePerStudent(75, 0); got != 0 {
		t.Errorf("RevenuePerStudent() = %v, want 0", got)
	}

	want := InvoiceSummary{
		Count: 5, Total: 180,
		PaidCount: 2, Paid: 75,
		PendingCount: 1, Pending: 75,
		OverdueCount: 1, Overdue: 20,
	}
	assert.Equal(t, want, SummarizeInvoices(invoices))
}

func TestRevenueByMonth(t *testing.T) {
	dec := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	invoices := []school.Invoice{
		{Status: school.InvoicePaid, Amount: 30, PaidDate: &jan},
		{Status: school.InvoicePaid, Amount: 45, PaidDate: &dec},
		{Status: school.InvoiceSent, Amount: 75},
	}
	cs := []school.Course{{Date: dec}, {Date: dec}}
	want := []MonthlyRevenue{
		{Month: "2024-12", Revenue: 45, Courses: 2},
		{Month: "2025-01", Revenue: 30},
	}
	assert.Equal(t, want, RevenueByMonth(invoices, cs))
}

func TestUpcomingAndRecent(t *testing.T) {
	now := time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC)
	cs := []school.Course{
		{ID: "c1", Status: school.CourseScheduled, Date: now.Add(48 * time.Hour)},
		{ID: "c2", Status: school.CourseScheduled, Date: now.Add(-time.Hour)},
		{ID: "c3", Status: school.CourseCancelled, Date: now.Add(time.Hour)},
		{ID: "c4", Status: school.CourseScheduled, Date: now.Add(time.Hour)},
	}
	got := UpcomingCourses(cs, now, 3)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "c4", got[0].ID)
		assert.Equal(t, "c1", got[1].ID)
	}
	assert.Len(t, UpcomingCourses(cs, now, 1), 1)

	gs := []school.Grade{
		{ID: "g1", Date: now.AddDate(0, 0, -3)},
		{ID: "g2", Date: now},
		{ID: "g3", Date: now.AddDate(0, 0, -1)},
	}
	recent := RecentGrades(gs, 2)
	if assert.Len(t, recent, 2) {
		assert.Equal(t, "g2", recent[0].ID)
		assert.Equal(t, "g3", recent[1].ID)
	}
	assert.NotNil(t, RecentGrades(nil, 2))
}

func TestDashboard(t *testing.T) {
	now := time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC) // Friday
	paid := now.AddDate(0, 0, -1)
	snap := school.Snapshot{
		Users: []user.User{
			{ID: "a1", Role: user.RoleAdmin, CreatedAt: now.AddDate(0, -1, 0)},
			{ID: "t1", Role: user.RoleTeacher, CreatedAt: now},
		},
		Students: []school.Student{{ID: "s1"}, {ID: "s2"}},
		Courses: []school.Course{
			{ID: "c1", Status: school.CourseCompleted, Date: now.Add(-time.Hour)},
			{ID: "c2", Status: school.CourseScheduled, Date: now.Add(2 * time.Hour)},
			{ID: "c3", Status: school.CourseScheduled, Date: now.AddDate(0, 0, 7)},
		},
		Grades: []school.Grade{grade("s1", "Math", 16, 20, 1)},
		Invoices: []school.Invoice{
			{Status: school.InvoicePaid, Amount: 60, PaidDate: &paid},
			{Status: school.InvoiceSent, Amount: 40},
			{Status: school.InvoiceOverdue, Amount: 10},
		},
	}

	t.Run("admin", func(t *testing.T) {
		d, ok := Dashboard(snap, actor.Admin{UserID: "a1"}, now).(AdminDashboard)
		if !ok {
			t.Fatalf("Dashboard() type = %T, want AdminDashboard", d)
		}
		assert.Equal(t, 2, d.Users)
		assert.Equal(t, 1, d.UsersByRole[user.RoleTeacher])
		assert.Equal(t, 0, d.UsersByRole[user.RoleParent])
		assert.Equal(t, float64(60), d.Revenue)
		assert.Equal(t, "t1", d.RecentUsers[0].ID)
	})
	t.Run("teacher", func(t *testing.T) {
		d, ok := Dashboard(snap, actor.Teacher{UserID: "t1"}, now).(TeacherDashboard)
		if !ok {
			t.Fatalf("Dashboard() type = %T, want TeacherDashboard", d)
		}
		assert.Len(t, d.TodayCourses, 2)
		assert.Len(t, d.WeekCourses, 2)
		assert.Equal(t, 1, d.CompletedCourses)
		assert.Equal(t, float64(30), d.RevenuePerStudent)
	})
	t.Run("parent", func(t *testing.T) {
		d, ok := Dashboard(snap, actor.Parent{UserID: "p1"}, now).(ParentDashboard)
		if !ok {
			t.Fatalf("Dashboard() type = %T, want ParentDashboard", d)
		}
		assert.Len(t, d.PendingInvoices, 2)
		assert.Equal(t, float64(50), d.PendingAmount)
		assert.Len(t, d.UpcomingCourses, 2)
	})
	t.Run("student", func(t *testing.T) {
		d, ok := Dashboard(snap, actor.Student{UserID: "s1"}, now).(StudentDashboard)
		if !ok {
			t.Fatalf("Dashboard() type = %T, want StudentDashboard", d)
		}
		assert.InDelta(t, 16, d.Average, 1e-9)
		assert.Equal(t, BucketExcellent, d.Bucket)
		assert.Equal(t, 2, d.WeekCourses)
	})
	t.Run("no actor", func(t *testing.T) {
		if got := Dashboard(snap, nil, now); got != nil {
			t.Errorf("Dashboard() = %v, want nil", got)
		}
	})
}
