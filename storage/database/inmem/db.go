package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/entity"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
)

type (
	// DB keeps one table per entity.Kind.
	DB struct {
		tables map[entity.Kind]*table
	}

	row struct {
		seq int // insertion order
		rec entity.Entity
	}

	table struct {
		sync.RWMutex
		rows map[string]row
		seq  int
	}
)

func Open() *DB {
	db := &DB{tables: make(map[entity.Kind]*table, len(entity.Kinds))}
	for _, kind := range entity.Kinds {
		db.tables[kind] = &table{rows: make(map[string]row)}
	}
	return db
}

func (db *DB) tableOf(kind entity.Kind) (*table, error) {
	t, ok := db.tables[kind]
	if !ok {
		return nil, entity.ErrUnknownKind
	}
	return t, nil
}

// clone returns a deep copy of e so that callers never share memory with the tables.
func clone(e entity.Entity) entity.Entity {
	switch rec := e.(type) {
	case *user.User:
		c := *rec
		c.PasswordHash = append([]byte(nil), rec.PasswordHash...)
		return &c
	case *school.Teacher:
		c := *rec
		c.Subjects = copyStrings(rec.Subjects)
		return &c
	case *school.Student:
		c := *rec
		c.Subjects = copyStrings(rec.Subjects)
		c.ParentIDs = copyStrings(rec.ParentIDs)
		return &c
	case *school.Parent:
		c := *rec
		c.Children = copyStrings(rec.Children)
		return &c
	case *school.Course:
		c := *rec
		c.StudentIDs = copyStrings(rec.StudentIDs)
		return &c
	case *school.Grade:
		c := *rec
		return &c
	case *school.Invoice:
		c := *rec
		c.CourseIDs = copyStrings(rec.CourseIDs)
		c.Items = append([]school.LineItem(nil), rec.Items...)
		if rec.PaidDate != nil {
			paid := *rec.PaidDate
			c.PaidDate = &paid
		}
		return &c
	case *school.Message:
		c := *rec
		return &c
	default:
		return e
	}
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
