package sqlxrepos

import (
	"time"

	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
)

type (
	userRow struct {
		ID           string      `db:"id"`
		Email        string      `db:"email"`
		Role         string      `db:"role"`
		FirstName    string      `db:"first_name"`
		LastName     string      `db:"last_name"`
		Phone        null.String `db:"phone"`
		Address      null.String `db:"address"`
		IsActive     bool        `db:"is_active"`
		PasswordHash []byte      `db:"password_hash"`
		CreatedAt    time.Time   `db:"created_at"`
		UpdatedAt    time.Time   `db:"updated_at"`
		LastLogin    null.Time   `db:"last_login"`
	}

	teacherRow struct {
		ID         string         `db:"id"`
		Email      string         `db:"email"`
		FirstName  string         `db:"first_name"`
		LastName   string         `db:"last_name"`
		Subjects   pq.StringArray `db:"subjects"`
		HourlyRate float64        `db:"hourly_rate"`
		Bio        null.String    `db:"bio"`
		Phone      null.String    `db:"phone"`
		CreatedAt  time.Time      `db:"created_at"`
	}

	studentRow struct {
		ID          string         `db:"id"`
		FirstName   string         `db:"first_name"`
		LastName    string         `db:"last_name"`
		DateOfBirth null.Time      `db:"date_of_birth"`
		Level       string         `db:"level"`
		Subjects    pq.StringArray `db:"subjects"`
		ParentIDs   pq.StringArray `db:"parent_ids"`
		TeacherID   string         `db:"teacher_id"`
		Notes       null.String    `db:"notes"`
		CreatedAt   time.Time      `db:"created_at"`
	}

	parentRow struct {
		ID                     string         `db:"id"`
		Email                  string         `db:"email"`
		FirstName              string         `db:"first_name"`
		LastName               string         `db:"last_name"`
		Phone                  null.String    `db:"phone"`
		Address                null.String    `db:"address"`
		Children               pq.StringArray `db:"children"`
		PreferredPaymentMethod null.String    `db:"preferred_payment_method"`
		NotifyEmail            bool           `db:"notify_email"`
		NotifySMS              bool           `db:"notify_sms"`
		NotifyPush             bool           `db:"notify_push"`
		NotifyCourseReminders  bool           `db:"notify_course_reminders"`
		NotifyPaymentReminders bool           `db:"notify_payment_reminders"`
		NotifyGradeUpdates     bool           `db:"notify_grade_updates"`
		CreatedAt              time.Time      `db:"created_at"`
	}

	courseRow struct {
		ID          string         `db:"id"`
		Title       string         `db:"title"`
		Description string         `db:"description"`
		Date        time.Time      `db:"date"`
		Duration    int            `db:"duration"`
		Subject     string         `db:"subject"`
		StudentIDs  pq.StringArray `db:"student_ids"`
		TeacherID   string         `db:"teacher_id"`
		Status      string         `db:"status"`
		Price       float64        `db:"price"`
		Location    null.String    `db:"location"`
		Notes       null.String    `db:"notes"`
		CreatedAt   time.Time      `db:"created_at"`
	}

	gradeRow struct {
		ID        string      `db:"id"`
		StudentID string      `db:"student_id"`
		CourseID  string      `db:"course_id"`
		TeacherID string      `db:"teacher_id"`
		Subject   string      `db:"subject"`
		Score     float64     `db:"score"`
		MaxScore  float64     `db:"max_score"`
		Weight    float64     `db:"weight"`
		Type      string      `db:"type"`
		Comment   null.String `db:"comment"`
		Date      time.Time   `db:"date"`
	}

	invoiceRow struct {
		ID            string         `db:"id"`
		Number        string         `db:"number"`
		TeacherID     string         `db:"teacher_id"`
		ParentID      string         `db:"parent_id"`
		StudentID     string         `db:"student_id"`
		CourseIDs     pq.StringArray `db:"course_ids"`
		Amount        float64        `db:"amount"`
		Currency      string         `db:"currency"`
		Status        string         `db:"status"`
		DueDate       time.Time      `db:"due_date"`
		PaidDate      null.Time      `db:"paid_date"`
		PaymentMethod null.String    `db:"payment_method"`
		Discount      float64        `db:"discount"`
		Notes         null.String    `db:"notes"`
		CreatedAt     time.Time      `db:"created_at"`
	}

	invoiceItemRow struct {
		InvoiceID   string  `db:"invoice_id"`
		Position    int     `db:"position"`
		Description string  `db:"description"`
		Quantity    float64 `db:"quantity"`
		UnitPrice   float64 `db:"unit_price"`
		Total       float64 `db:"total"`
	}

	messageRow struct {
		ID         string      `db:"id"`
		SenderID   string      `db:"sender_id"`
		ReceiverID string      `db:"receiver_id"`
		Subject    string      `db:"subject"`
		Content    string      `db:"content"`
		Read       bool        `db:"read"`
		ThreadID   null.String `db:"thread_id"`
		CreatedAt  time.Time   `db:"created_at"`
	}
)

func nullString(s string) null.String { return null.NewString(s, s != "") }

func nullTime(t time.Time) null.Time { return null.NewTime(t.UTC(), !t.IsZero()) }

func stringArray(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}

func toUserRow(u user.User) userRow {
	return userRow{
		ID:           u.ID,
		Email:        u.Email,
		Role:         u.Role,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        nullString(u.Phone),
		Address:      nullString(u.Address),
		IsActive:     u.IsActive,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
		LastLogin:    nullTime(u.LastLogin),
	}
}

func (r userRow) user() user.User {
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		Role:         r.Role,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Phone:        r.Phone.String,
		Address:      r.Address.String,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

func toTeacherRow(t school.Teacher) teacherRow {
	return teacherRow{
		ID:         t.ID,
		Email:      t.Email,
		FirstName:  t.FirstName,
		LastName:   t.LastName,
		Subjects:   stringArray(t.Subjects),
		HourlyRate: t.HourlyRate,
		Bio:        nullString(t.Bio),
		Phone:      nullString(t.Phone),
		CreatedAt:  t.CreatedAt.UTC(),
	}
}

func (r teacherRow) teacher() school.Teacher {
	return school.Teacher{
		ID:         r.ID,
		Email:      r.Email,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Subjects:   []string(r.Subjects),
		HourlyRate: r.HourlyRate,
		Bio:        r.Bio.String,
		Phone:      r.Phone.String,
		CreatedAt:  r.CreatedAt,
	}
}

func toStudentRow(s school.Student) studentRow {
	return studentRow{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		DateOfBirth: nullTime(s.DateOfBirth),
		Level:       s.Level,
		Subjects:    stringArray(s.Subjects),
		ParentIDs:   stringArray(s.ParentIDs),
		TeacherID:   s.TeacherID,
		Notes:       nullString(s.Notes),
		CreatedAt:   s.CreatedAt.UTC(),
	}
}

func (r studentRow) student() school.Student {
	return school.Student{
		ID:          r.ID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth.Time,
		Level:       r.Level,
		Subjects:    []string(r.Subjects),
		ParentIDs:   []string(r.ParentIDs),
		TeacherID:   r.TeacherID,
		Notes:       r.Notes.String,
		CreatedAt:   r.CreatedAt,
	}
}

func toParentRow(p school.Parent) parentRow {
	return parentRow{
		ID:                     p.ID,
		Email:                  p.Email,
		FirstName:              p.FirstName,
		LastName:               p.LastName,
		Phone:                  nullString(p.Phone),
		Address:                nullString(p.Address),
		Children:               stringArray(p.Children),
		PreferredPaymentMethod: nullString(p.PreferredPaymentMethod),
		NotifyEmail:            p.Notifications.Email,
		NotifySMS:              p.Notifications.SMS,
		NotifyPush:             p.Notifications.Push,
		NotifyCourseReminders:  p.Notifications.CourseReminders,
		NotifyPaymentReminders: p.Notifications.PaymentReminders,
		NotifyGradeUpdates:     p.Notifications.GradeUpdates,
		CreatedAt:              p.CreatedAt.UTC(),
	}
}

func (r parentRow) parent() school.Parent {
	return school.Parent{
		ID:                     r.ID,
		Email:                  r.Email,
		FirstName:              r.FirstName,
		LastName:               r.LastName,
		Phone:                  r.Phone.String,
		Address:                r.Address.String,
		Children:               []string(r.Children),
		PreferredPaymentMethod: r.PreferredPaymentMethod.String,
		Notifications: school.NotificationSettings{
			Email:            r.NotifyEmail,
			SMS:              r.NotifySMS,
			Push:             r.NotifyPush,
			CourseReminders:  r.NotifyCourseReminders,
			PaymentReminders: r.NotifyPaymentReminders,
			GradeUpdates:     r.NotifyGradeUpdates,
		},
		CreatedAt: r.CreatedAt,
	}
}

func toCourseRow(c school.Course) courseRow {
	return courseRow{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Date:        c.Date.UTC(),
		Duration:    c.Duration,
		Subject:     c.Subject,
		StudentIDs:  stringArray(c.StudentIDs),
		TeacherID:   c.TeacherID,
		Status:      c.Status,
		Price:       c.Price,
		Location:    nullString(c.Location),
		Notes:       nullString(c.Notes),
		CreatedAt:   c.CreatedAt.UTC(),
	}
}

func (r courseRow) course() school.Course {
	return school.Course{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Duration:    r.Duration,
		Subject:     r.Subject,
		StudentIDs:  []string(r.StudentIDs),
		TeacherID:   r.TeacherID,
		Status:      r.Status,
		Price:       r.Price,
		Location:    r.Location.String,
		Notes:       r.Notes.String,
		CreatedAt:   r.CreatedAt,
	}
}

func toGradeRow(g school.Grade) gradeRow {
	return gradeRow{
		ID:        g.ID,
		StudentID: g.StudentID,
		CourseID:  g.CourseID,
		TeacherID: g.TeacherID,
		Subject:   g.Subject,
		Score:     g.Score,
		MaxScore:  g.MaxScore,
		Weight:    g.Weight,
		Type:      g.Type,
		Comment:   nullString(g.Comment),
		Date:      g.Date.UTC(),
	}
}

func (r gradeRow) grade() school.Grade {
	return school.Grade{
		ID:        r.ID,
		StudentID: r.StudentID,
		CourseID:  r.CourseID,
		TeacherID: r.TeacherID,
		Subject:   r.Subject,
		Score:     r.Score,
		MaxScore:  r.MaxScore,
		Weight:    r.Weight,
		Type:      r.Type,
		Comment:   r.Comment.String,
		Date:      r.Date,
	}
}

func toInvoiceRow(inv school.Invoice) invoiceRow {
	r := invoiceRow{
		ID:            inv.ID,
		Number:        inv.Number,
		TeacherID:     inv.TeacherID,
		ParentID:      inv.ParentID,
		StudentID:     inv.StudentID,
		CourseIDs:     stringArray(inv.CourseIDs),
		Amount:        inv.Amount,
		Currency:      inv.Currency,
		Status:        inv.Status,
		DueDate:       inv.DueDate.UTC(),
		PaymentMethod: nullString(inv.PaymentMethod),
		Discount:      inv.Discount,
		Notes:         nullString(inv.Notes),
		CreatedAt:     inv.CreatedAt.UTC(),
	}
	if inv.PaidDate != nil {
		r.PaidDate = nullTime(*inv.PaidDate)
	}
	return r
}

func toInvoiceItemRows(inv school.Invoice) []invoiceItemRow {
	rows := make([]invoiceItemRow, 0, len(inv.Items))
	for i, it := range inv.Items {
		rows = append(rows, invoiceItemRow{
			InvoiceID:   inv.ID,
			Position:    i,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	return rows
}

func (r invoiceRow) invoice(items []invoiceItemRow) school.Invoice {
	inv := school.Invoice{
		ID:            r.ID,
		Number:        r.Number,
		TeacherID:     r.TeacherID,
		ParentID:      r.ParentID,
		StudentID:     r.StudentID,
		CourseIDs:     []string(r.CourseIDs),
		Amount:        r.Amount,
		Currency:      r.Currency,
		Status:        r.Status,
		DueDate:       r.DueDate,
		PaidDate:      r.PaidDate.Ptr(),
		PaymentMethod: r.PaymentMethod.String,
		Items:         make([]school.LineItem, 0, len(items)),
		Discount:      r.Discount,
		Notes:         r.Notes.String,
		CreatedAt:     r.CreatedAt,
	}
	for _, it := range items {
		inv.Items = append(inv.Items, school.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	return inv
}

func toMessageRow(m school.Message) messageRow {
	return messageRow{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Subject:    m.Subject,
		Content:    m.Content,
		Read:       m.Read,
		ThreadID:   nullString(m.ThreadID),
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

func (r messageRow) message() school.Message {
	return school.Message{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Subject:    r.Subject,
		Content:    r.Content,
		Read:       r.Read,
		ThreadID:   r.ThreadID.String,
		CreatedAt:  r.CreatedAt,
	}
}
