package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/entity"
	"github.com/trezcool/darasa/core/school"
)

// execDriver records the statements it runs. A statement starting with a prefix of results
// gets that result: an error, or the number of affected rows. Other statements affect one row.
type execDriver struct {
	sync.Mutex
	executed []string
	results  map[string]interface{}
}

var recorder = &execDriver{}

func init() {
	sql.Register("sqlxrepos-exec", recorder)
}

func (d *execDriver) Open(string) (driver.Conn, error) { return execConn{d}, nil }

func (d *execDriver) exec(query string) (driver.Result, error) {
	d.Lock()
	defer d.Unlock()
	d.executed = append(d.executed, query)
	for prefix, res := range d.results {
		if !strings.HasPrefix(query, prefix) {
			continue
		}
		if err, ok := res.(error); ok {
			return nil, err
		}
		return driver.RowsAffected(res.(int64)), nil
	}
	return driver.RowsAffected(1), nil
}

func (d *execDriver) reset(results map[string]interface{}) {
	d.Lock()
	defer d.Unlock()
	d.executed, d.results = nil, results
}

func (d *execDriver) ran(prefix string) bool {
	d.Lock()
	defer d.Unlock()
	for _, q := range d.executed {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return false
}

type execConn struct{ d *execDriver }

func (c execConn) Prepare(query string) (driver.Stmt, error) { return execStmt{c.d, query}, nil }
func (c execConn) Close() error                              { return nil }
func (c execConn) Begin() (driver.Tx, error)                 { return execTx{}, nil }

type execTx struct{}

func (execTx) Commit() error   { return nil }
func (execTx) Rollback() error { return nil }

type execStmt struct {
	d     *execDriver
	query string
}

func (s execStmt) Close() error                                    { return nil }
func (s execStmt) NumInput() int                                   { return -1 }
func (s execStmt) Exec(args []driver.Value) (driver.Result, error) { return s.d.exec(s.query) }
func (s execStmt) Query(args []driver.Value) (driver.Rows, error) {
	return nil, errors.New("queries are not supported")
}

func newExecStore(t *testing.T, results map[string]interface{}) entity.Store {
	t.Helper()
	recorder.reset(results)
	db, err := sql.Open("sqlxrepos-exec", "")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(sqlx.NewDb(db, "postgres"))
}

func testInvoice() *school.Invoice {
	return &school.Invoice{
		ID:        "invoice-404",
		Number:    "F-2025-001",
		TeacherID: "teacher-1",
		ParentID:  "parent-1",
		StudentID: "student-1",
		Status:    school.InvoiceDraft,
		Items:     []school.LineItem{{Description: "Cours", Quantity: 1, UnitPrice: 30, Total: 30}},
	}
}

func Test_store_Update_missingInvoice(t *testing.T) {
	store := newExecStore(t, map[string]interface{}{`UPDATE "invoices"`: int64(0)})

	err := store.Update(context.Background(), testInvoice())
	if errors.Cause(err) != entity.ErrNotFound {
		t.Errorf("Update() error = %v, want %v", err, entity.ErrNotFound)
	}
	assert.True(t, recorder.ran(`UPDATE "invoices"`))
	assert.False(t, recorder.ran("DELETE FROM invoice_items"), "items replaced for a missing invoice")
	assert.False(t, recorder.ran(`INSERT INTO "invoice_items"`), "items replaced for a missing invoice")
}

func Test_store_Update_invoice(t *testing.T) {
	store := newExecStore(t, nil)

	if err := store.Update(context.Background(), testInvoice()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	assert.True(t, recorder.ran("DELETE FROM invoice_items"))
	assert.True(t, recorder.ran(`INSERT INTO "invoice_items"`))
}

func Test_store_Create(t *testing.T) {
	t.Run("failed insert keeps the record without identity", func(t *testing.T) {
		store := newExecStore(t, map[string]interface{}{
			`INSERT INTO "messages"`: &pq.Error{Code: uniqueViolation, Message: "duplicate key"},
		})
		m := &school.Message{SenderID: "parent-1", ReceiverID: "teacher-1", Subject: "Hi", Content: "Hello"}

		id, err := store.Create(context.Background(), m)
		if errors.Cause(err) != entity.ErrDuplicateID {
			t.Errorf("Create() error = %v, want %v", err, entity.ErrDuplicateID)
		}
		assert.Empty(t, id)
		assert.Empty(t, m.ID)
	})

	t.Run("failed insert keeps a given identity", func(t *testing.T) {
		store := newExecStore(t, map[string]interface{}{
			`INSERT INTO "messages"`: &pq.Error{Code: uniqueViolation, Message: "duplicate key"},
		})
		m := &school.Message{ID: "msg-1", SenderID: "parent-1", ReceiverID: "teacher-1", Subject: "Hi", Content: "Hello"}

		_, err := store.Create(context.Background(), m)
		assert.Error(t, err)
		assert.Equal(t, "msg-1", m.ID)
	})

	t.Run("generated identity", func(t *testing.T) {
		store := newExecStore(t, nil)
		m := &school.Message{SenderID: "parent-1", ReceiverID: "teacher-1", Subject: "Hi", Content: "Hello"}

		id, err := store.Create(context.Background(), m)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		assert.NotEmpty(t, id)
		assert.Equal(t, id, m.ID)
	})
}
