package school

import (
	"strings"
	"time"

	"github.com/trezcool/darasa/core/entity"
)

// Course statuses
const (
	CourseScheduled = "scheduled"
	CourseCompleted = "completed"
	CourseCancelled = "cancelled"
	CourseNoShow    = "no_show"
)

// Grade types
const (
	GradeQuiz          = "quiz"
	GradeExam          = "exam"
	GradeHomework      = "homework"
	GradeParticipation = "participation"
)

// Invoice statuses
const (
	InvoiceDraft     = "draft"
	InvoiceSent      = "sent"
	InvoicePaid      = "paid"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

var (
	CourseStatuses  = []string{CourseScheduled, CourseCompleted, CourseCancelled, CourseNoShow}
	GradeTypes      = []string{GradeQuiz, GradeExam, GradeHomework, GradeParticipation}
	InvoiceStatuses = []string{InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled}
)

type Teacher struct {
	ID         string    `json:"id"`
	Email      string    `json:"email" validate:"required,email"`
	FirstName  string    `json:"first_name" validate:"required"`
	LastName   string    `json:"last_name" validate:"required"`
	Subjects   []string  `json:"subjects"`
	HourlyRate float64   `json:"hourly_rate" validate:"gte=0"`
	Bio        string    `json:"bio,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Student struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name" validate:"required"`
	LastName    string    `json:"last_name" validate:"required"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Level       string    `json:"level"`
	Subjects    []string  `json:"subjects"`
	ParentIDs   []string  `json:"parent_ids"`
	TeacherID   string    `json:"teacher_id" validate:"required"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationSettings struct {
	Email            bool `json:"email"`
	SMS              bool `json:"sms"`
	Push             bool `json:"push"`
	CourseReminders  bool `json:"course_reminders"`
	PaymentReminders bool `json:"payment_reminders"`
	GradeUpdates     bool `json:"grade_updates"`
}

type Parent struct {
	ID                     string               `json:"id"`
	Email                  string               `json:"email" validate:"required,email"`
	FirstName              string               `json:"first_name" validate:"required"`
	LastName               string               `json:"last_name" validate:"required"`
	Phone                  string               `json:"phone,omitempty"`
	Address                string               `json:"address,omitempty"`
	Children               []string             `json:"children"`
	PreferredPaymentMethod string               `json:"preferred_payment_method,omitempty"`
	Notifications          NotificationSettings `json:"notifications"`
	CreatedAt              time.Time            `json:"created_at"`
}

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date" validate:"required"`
	Duration    int       `json:"duration" validate:"gt=0"` // minutes
	Subject     string    `json:"subject" validate:"required"`
	StudentIDs  []string  `json:"student_ids"`
	TeacherID   string    `json:"teacher_id" validate:"required"`
	Status      string    `json:"status" validate:"required,course_status"`
	Price       float64   `json:"price" validate:"gte=0"`
	Location    string    `json:"location,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// End returns the time the course finishes.
func (c Course) End() time.Time {
	return c.Date.Add(time.Duration(c.Duration) * time.Minute)
}

func (c Course) HasStudent(id string) bool {
	return contains(c.StudentIDs, id)
}

type Grade struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id" validate:"required"`
	CourseID  string    `json:"course_id" validate:"required"`
	TeacherID string    `json:"teacher_id" validate:"required"`
	Subject   string    `json:"subject" validate:"required"`
	Score     float64   `json:"score" validate:"gte=0"`
	MaxScore  float64   `json:"max_score" validate:"gt=0"`
	Weight    float64   `json:"weight" validate:"gt=0"`
	Type      string    `json:"type" validate:"required,grade_type"`
	Comment   string    `json:"comment,omitempty"`
	Date      time.Time `json:"date"`
}

// Percentage returns the score on a 0-100 scale.
func (g Grade) Percentage() float64 {
	if g.MaxScore <= 0 {
		return 0
	}
	return g.Score / g.MaxScore * 100
}

type LineItem struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Total       float64 `json:"total"`
}

type Invoice struct {
	ID            string     `json:"id"`
	Number        string     `json:"number"`
	TeacherID     string     `json:"teacher_id" validate:"required"`
	ParentID      string     `json:"parent_id" validate:"required"`
	StudentID     string     `json:"student_id" validate:"required"`
	CourseIDs     []string   `json:"course_ids"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency" validate:"required,currency"`
	Status        string     `json:"status" validate:"required,invoice_status"`
	DueDate       time.Time  `json:"due_date" validate:"required"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Items         []LineItem `json:"items" validate:"dive"`
	Discount      float64    `json:"discount" validate:"gte=0"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id" validate:"required"`
	ReceiverID string    `json:"receiver_id" validate:"required"`
	Subject    string    `json:"subject" validate:"required"`
	Content    string    `json:"content" validate:"required"`
	Read       bool      `json:"read"`
	ThreadID   string    `json:"thread_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s Student) FullName() string { return strings.TrimSpace(s.FirstName + " " + s.LastName) }
func (p Parent) FullName() string  { return strings.TrimSpace(p.FirstName + " " + p.LastName) }
func (t Teacher) FullName() string { return strings.TrimSpace(t.FirstName + " " + t.LastName) }

func (s Student) HasParent(id string) bool { return contains(s.ParentIDs, id) }

// entity.Entity implementations

var (
	_ entity.Entity = (*Teacher)(nil)
	_ entity.Entity = (*Student)(nil)
	_ entity.Entity = (*Parent)(nil)
	_ entity.Entity = (*Course)(nil)
	_ entity.Entity = (*Grade)(nil)
	_ entity.Entity = (*Invoice)(nil)
	_ entity.Entity = (*Message)(nil)
)

func (t Teacher) EntityID() string          { return t.ID }
func (t *Teacher) SetEntityID(id string)    { t.ID = id }
func (t Teacher) EntityKind() entity.Kind   { return entity.KindTeacher }
func (s Student) EntityID() string          { return s.ID }
func (s *Student) SetEntityID(id string)    { s.ID = id }
func (s Student) EntityKind() entity.Kind   { return entity.KindStudent }
func (p Parent) EntityID() string           { return p.ID }
func (p *Parent) SetEntityID(id string)     { p.ID = id }
func (p Parent) EntityKind() entity.Kind    { return entity.KindParent }
func (c Course) EntityID() string           { return c.ID }
func (c *Course) SetEntityID(id string)     { c.ID = id }
func (c Course) EntityKind() entity.Kind    { return entity.KindCourse }
func (g Grade) EntityID() string            { return g.ID }
func (g *Grade) SetEntityID(id string)      { g.ID = id }
func (g Grade) EntityKind() entity.Kind     { return entity.KindGrade }
func (inv Invoice) EntityID() string        { return inv.ID }
func (inv *Invoice) SetEntityID(id string)  { inv.ID = id }
func (inv Invoice) EntityKind() entity.Kind { return entity.KindInvoice }
func (m Message) EntityID() string          { return m.ID }
func (m *Message) SetEntityID(id string)    { m.ID = id }
func (m Message) EntityKind() entity.Kind   { return entity.KindMessage }

func contains(ids []string, id string) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
