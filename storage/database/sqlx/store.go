package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/entity"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
)

// postgres error codes
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
	checkViolation      = "23514"
)

type tableDef struct {
	name     string
	columns  []string
	ordering []core.DBOrdering
}

var (
	byCreation = []core.DBOrdering{{Field: "created_at", Ascending: true}, {Field: "id", Ascending: true}}

	tables = map[entity.Kind]tableDef{
		entity.KindUser: {
			name: "users",
			columns: []string{"id", "email", "role", "first_name", "last_name", "phone", "address", "is_active",
				"password_hash", "created_at", "updated_at", "last_login"},
			ordering: byCreation,
		},
		entity.KindTeacher: {
			name:     "teachers",
			columns:  []string{"id", "email", "first_name", "last_name", "subjects", "hourly_rate", "bio", "phone", "created_at"},
			ordering: byCreation,
		},
		entity.KindStudent: {
			name: "students",
			columns: []string{"id", "first_name", "last_name", "date_of_birth", "level", "subjects", "parent_ids",
				"teacher_id", "notes", "created_at"},
			ordering: byCreation,
		},
		entity.KindParent: {
			name: "parents",
			columns: []string{"id", "email", "first_name", "last_name", "phone", "address", "children",
				"preferred_payment_method", "notify_email", "notify_sms", "notify_push", "notify_course_reminders",
				"notify_payment_reminders", "notify_grade_updates", "created_at"},
			ordering: byCreation,
		},
		entity.KindCourse: {
			name: "courses",
			columns: []string{"id", "title", "description", "date", "duration", "subject", "student_ids", "teacher_id",
				"status", "price", "location", "notes", "created_at"},
			ordering: byCreation,
		},
		entity.KindGrade: {
			name: "grades",
			columns: []string{"id", "student_id", "course_id", "teacher_id", "subject", "score", "max_score", "weight",
				"type", "comment", "date"},
			ordering: []core.DBOrdering{{Field: "date", Ascending: true}, {Field: "id", Ascending: true}},
		},
		entity.KindInvoice: {
			name: "invoices",
			columns: []string{"id", "number", "teacher_id", "parent_id", "student_id", "course_ids", "amount", "currency",
				"status", "due_date", "paid_date", "payment_method", "discount", "notes", "created_at"},
			ordering: byCreation,
		},
		entity.KindMessage: {
			name:     "messages",
			columns:  []string{"id", "sender_id", "receiver_id", "subject", "content", "read", "thread_id", "created_at"},
			ordering: byCreation,
		},
	}

	invoiceItems = tableDef{
		name:     "invoice_items",
		columns:  []string{"invoice_id", "position", "description", "quantity", "unit_price", "total"},
		ordering: []core.DBOrdering{{Field: "invoice_id", Ascending: true}, {Field: "position", Ascending: true}},
	}
)

func quote(names []string) []string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, pq.QuoteIdentifier(n))
	}
	return quoted
}

func (t tableDef) selectQuery(where string) string {
	q := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quote(t.columns), ", "), pq.QuoteIdentifier(t.name))
	if where != "" {
		q += " WHERE " + where
	}
	if len(t.ordering) > 0 {
		orderList := make([]string, 0, len(t.ordering))
		for _, ord := range t.ordering {
			ord.Field = pq.QuoteIdentifier(ord.Field)
			orderList = append(orderList, ord.String())
		}
		q += " ORDER BY " + strings.Join(orderList, ", ")
	}
	return q
}

func (t tableDef) insertQuery() string {
	params := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		params = append(params, ":"+c)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(t.name), strings.Join(quote(t.columns), ", "), strings.Join(params, ", "))
}

func (t tableDef) updateQuery() string {
	sets := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if c == "id" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = :%s", pq.QuoteIdentifier(c), c))
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", pq.QuoteIdentifier(t.name), strings.Join(sets, ", "))
}

// trapErr maps postgres constraint violations to the entity and record errors.
func trapErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return entity.ErrNotFound
	}
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		switch pqErr.Code {
		case uniqueViolation:
			return errors.Wrap(entity.ErrDuplicateID, pqErr.Message)
		case foreignKeyViolation, checkViolation:
			return core.NewInvalidRecordError(core.FieldError{Field: pqErr.Column, Error: pqErr.Message})
		}
	}
	return errors.Wrap(err, msg)
}

type store struct {
	db *sqlx.DB
}

var _ entity.Store = (*store)(nil) // interface compliance check

func NewStore(db *sqlx.DB) entity.Store {
	return &store{db: db}
}

func (s *store) List(ctx context.Context, kind entity.Kind) ([]entity.Entity, error) {
	t, ok := tables[kind]
	if !ok {
		return nil, entity.ErrUnknownKind
	}
	q := t.selectQuery("")
	msg := "listing " + t.name

	switch kind {
	case entity.KindUser:
		var rows []userRow
		if err := s.db.SelectContext(ctx, &rows, q); err != nil {
			return nil, errors.Wrap(err, msg)
		}
		records := make([]entity.Entity, 0, len(rows))
		for _, r := range rows {
			u := r.user()
			records = append(records, &u)
		}
		return records, nil
	case entity.KindTeacher:
		var rows []teacherRow
		if err := s.db.SelectContext(ctx, &rows, q); err != nil {
			return nil, errors.Wrap(err, msg)
		}
		records := make([]entity.Entity, 0, len(rows))
		for _, r := range rows {
			tc := r.teacher()
			records = append(records, &tc)
		}
		return records, nil
	case entity.KindStudent:
		var rows []studentRow
		if err := s.db.SelectContext(ctx, &rows, q); err != nil {
			return nil, errors.Wrap(err, msg)
		}
		records := make([]entity.Entity, 0, len(rows))
		for _, r := range rows {
			st := r.student()
			records = append(records, &st)
		}
		return records, nil
	case entity.KindParent:
		var rows []parentRow
		if err := s.db.SelectContext(ctx, &rows, q); err != nil {
			return nil, errors.Wrap(err, msg)
		}
		records := make([]entity.Entity, 0, len(rows))
		for _, r := range rows {
			p := r.parent()
			records = append(records, &p)
		}
		return records, nil
	case entity.KindCourse:
		var rows []courseRow
		if err := s.db.SelectContext(ctx, &rows, q); err != nil {
			return nil, errors.Wrap(err, msg)
		}
		records := make([]entity.Entity, 0, len(rows))
		for _, r := range rows {
			c := r.course()
			records = append(records, &c)
		}
		return records, nil
	case entity.KindGrade:
		var rows []gradeRow
		if err := s.db.SelectContext(ctx, &rows, q); err != nil {
			return nil, errors.Wrap(err, msg)
		}
		records := make([]entity.Entity, 0, len(rows))
		for _, r := range rows {
			g := r.grade()
			records = append(records, &g)
		}
		return records, nil
	case entity.KindInvoice:
		return s.listInvoices(ctx, q)
	case entity.KindMessage:
		var rows []messageRow
		if err := s.db.SelectContext(ctx, &rows, q); err != nil {
			return nil, errors.Wrap(err, msg)
		}
		records := make([]entity.Entity, 0, len(rows))
		for _, r := range rows {
			m := r.message()
			records = append(records, &m)
		}
		return records, nil
	default:
		return nil, entity.ErrUnknownKind
	}
}

func (s *store) listInvoices(ctx context.Context, q string) ([]entity.Entity, error) {
	var rows []invoiceRow
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "listing invoices")
	}
	var itemRows []invoiceItemRow
	if err := s.db.SelectContext(ctx, &itemRows, invoiceItems.selectQuery("")); err != nil {
		return nil, errors.Wrap(err, "listing invoice items")
	}
	items := make(map[string][]invoiceItemRow)
	for _, it := range itemRows {
		items[it.InvoiceID] = append(items[it.InvoiceID], it)
	}

	records := make([]entity.Entity, 0, len(rows))
	for _, r := range rows {
		inv := r.invoice(items[r.ID])
		records = append(records, &inv)
	}
	return records, nil
}

// toRow returns the row of e, with the invoice items when e is an invoice.
func toRow(e entity.Entity) (interface{}, []invoiceItemRow, error) {
	switch rec := e.(type) {
	case *user.User:
		return toUserRow(*rec), nil, nil
	case *school.Teacher:
		return toTeacherRow(*rec), nil, nil
	case *school.Student:
		return toStudentRow(*rec), nil, nil
	case *school.Parent:
		return toParentRow(*rec), nil, nil
	case *school.Course:
		return toCourseRow(*rec), nil, nil
	case *school.Grade:
		return toGradeRow(*rec), nil, nil
	case *school.Invoice:
		return toInvoiceRow(*rec), toInvoiceItemRows(*rec), nil
	case *school.Message:
		return toMessageRow(*rec), nil, nil
	default:
		return nil, nil, errors.Wrapf(entity.ErrUnknownKind, "%T", e)
	}
}

// write runs the statement of e and replaces its invoice items in one transaction.
// It fails with entity.ErrNotFound when the statement matched no row.
func (s *store) write(ctx context.Context, e entity.Entity, query string) error {
	row, items, err := toRow(e)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.NamedExecContext(ctx, query, row)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return errors.Wrapf(entity.ErrNotFound, "%s %s", e.EntityKind(), e.EntityID())
	}
	if e.EntityKind() == entity.KindInvoice {
		if _, err = tx.ExecContext(ctx, "DELETE FROM invoice_items WHERE invoice_id = $1", e.EntityID()); err != nil {
			return err
		}
		for _, it := range items {
			if _, err = tx.NamedExecContext(ctx, invoiceItems.insertQuery(), it); err != nil {
				return err
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}

func (s *store) Create(ctx context.Context, e entity.Entity) (string, error) {
	t, ok := tables[e.EntityKind()]
	if !ok {
		return "", entity.ErrUnknownKind
	}
	generated := e.EntityID() == ""
	if generated {
		e.SetEntityID(uuid.New().String())
	}
	if err := s.write(ctx, e, t.insertQuery()); err != nil {
		if generated {
			e.SetEntityID("")
		}
		return "", trapErr(err, "inserting into "+t.name)
	}
	return e.EntityID(), nil
}

func (s *store) Update(ctx context.Context, e entity.Entity) error {
	t, ok := tables[e.EntityKind()]
	if !ok {
		return entity.ErrUnknownKind
	}
	if err := s.write(ctx, e, t.updateQuery()); err != nil {
		return trapErr(err, "updating "+t.name)
	}
	return nil
}

func (s *store) Delete(ctx context.Context, kind entity.Kind, id string) error {
	t, ok := tables[kind]
	if !ok {
		return entity.ErrUnknownKind
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", pq.QuoteIdentifier(t.name)), id)
	if err != nil {
		return trapErr(err, "deleting from "+t.name)
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Wrap(err, "deleting from "+t.name)
	} else if n == 0 {
		return errors.Wrapf(entity.ErrNotFound, "%s %s", kind, id)
	}
	return nil
}
