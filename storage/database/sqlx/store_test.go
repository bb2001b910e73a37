package sqlxrepos

import (
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/entity"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage/database/seed"
)

func Test_tableDef_queries(t *testing.T) {
	messages := tables[entity.KindMessage]
	cols := `"id", "sender_id", "receiver_id", "subject", "content", "read", "thread_id", "created_at"`

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "select all",
			got:  messages.selectQuery(""),
			want: `SELECT ` + cols + ` FROM "messages" ORDER BY "created_at" ASC, "id" ASC`,
		},
		{
			name: "select where",
			got:  messages.selectQuery("id = $1"),
			want: `SELECT ` + cols + ` FROM "messages" WHERE id = $1 ORDER BY "created_at" ASC, "id" ASC`,
		},
		{
			name: "insert",
			got:  invoiceItems.insertQuery(),
			want: `INSERT INTO "invoice_items" ("invoice_id", "position", "description", "quantity", "unit_price", "total") ` +
				`VALUES (:invoice_id, :position, :description, :quantity, :unit_price, :total)`,
		},
		{
			name: "update",
			got:  messages.updateQuery(),
			want: `UPDATE "messages" SET "sender_id" = :sender_id, "receiver_id" = :receiver_id, "subject" = :subject, ` +
				`"content" = :content, "read" = :read, "thread_id" = :thread_id, "created_at" = :created_at WHERE id = :id`,
		},
		{
			name: "no ordering",
			got:  tableDef{name: "t", columns: []string{"a"}}.selectQuery(""),
			want: `SELECT "a" FROM "t"`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("query = %q, want %q", tc.got, tc.want)
			}
		})
	}
}

func Test_tables_coverEveryKind(t *testing.T) {
	for _, k := range []entity.Kind{
		entity.KindUser, entity.KindTeacher, entity.KindStudent, entity.KindParent,
		entity.KindCourse, entity.KindGrade, entity.KindInvoice, entity.KindMessage,
	} {
		td, ok := tables[k]
		if !ok {
			t.Errorf("tables[%v] missing", k)
			continue
		}
		assert.Equal(t, "id", td.columns[0], "first column of %s", td.name)
	}
}

func Test_trapErr(t *testing.T) {
	boom := errors.New("boom")

	if err := trapErr(sql.ErrNoRows, "getting"); err != entity.ErrNotFound {
		t.Errorf("trapErr(ErrNoRows) = %v, want %v", err, entity.ErrNotFound)
	}

	err := trapErr(&pq.Error{Code: uniqueViolation, Message: "duplicate key"}, "inserting")
	if errors.Cause(err) != entity.ErrDuplicateID {
		t.Errorf("trapErr(unique) = %v, want %v", err, entity.ErrDuplicateID)
	}

	for _, code := range []pq.ErrorCode{foreignKeyViolation, checkViolation} {
		err = trapErr(errors.Wrap(&pq.Error{Code: code, Column: "teacher_id", Message: "violation"}, "exec"), "inserting")
		if !core.IsInvalidRecord(err) {
			t.Errorf("trapErr(%s) = %v, want invalid record", code, err)
		}
	}

	err = trapErr(boom, "inserting")
	assert.Equal(t, boom, errors.Cause(err))
	assert.Contains(t, err.Error(), "inserting")
}

// roundTrip converts e to its row and back, the way the store reads what it wrote.
func roundTrip(t *testing.T, e entity.Entity) entity.Entity {
	t.Helper()
	row, items, err := toRow(e)
	if err != nil {
		t.Fatalf("toRow(%T) error = %v", e, err)
	}
	switch r := row.(type) {
	case userRow:
		u := r.user()
		return &u
	case teacherRow:
		v := r.teacher()
		return &v
	case studentRow:
		v := r.student()
		return &v
	case parentRow:
		v := r.parent()
		return &v
	case courseRow:
		v := r.course()
		return &v
	case gradeRow:
		v := r.grade()
		return &v
	case invoiceRow:
		v := r.invoice(items)
		return &v
	case messageRow:
		v := r.message()
		return &v
	}
	t.Fatalf("unexpected row %T", row)
	return nil
}

func Test_rows_roundTrip(t *testing.T) {
	for _, e := range seed.Data() {
		e := e
		t.Run(e.EntityID(), func(t *testing.T) {
			assert.Equal(t, e, roundTrip(t, e))
		})
	}
}

func Test_rows_emptyValues(t *testing.T) {
	st := school.Student{ID: "s", FirstName: "Ada", LastName: "L", Level: "6e", TeacherID: "t"}
	row := toStudentRow(st)
	assert.False(t, row.Notes.Valid)
	assert.False(t, row.DateOfBirth.Valid)
	assert.NotNil(t, row.ParentIDs)
	assert.NotNil(t, row.Subjects)

	got := row.student()
	assert.Equal(t, []string{}, got.ParentIDs)
	assert.True(t, got.DateOfBirth.IsZero())

	usr := user.User{ID: "u", Email: "u@darasa.io", Role: user.RoleStudent}
	assert.False(t, toUserRow(usr).LastLogin.Valid)
	assert.Equal(t, usr, toUserRow(usr).user())

	inv := school.Invoice{ID: "i", Number: "F-1", Items: []school.LineItem{{Description: "a", Quantity: 2, UnitPrice: 10, Total: 20}}}
	items := toInvoiceItemRows(inv)
	if assert.Len(t, items, 1) {
		assert.Equal(t, "i", items[0].InvoiceID)
	}
	assert.Nil(t, toInvoiceRow(inv).invoice(items).PaidDate)
}
