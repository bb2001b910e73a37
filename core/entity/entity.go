// Package entity defines the Entity Store contract shared by the storage adapters.
package entity

import (
	"context"
	"errors"
)

// Kind names a collection of the Entity Store.
type Kind string

const (
	KindUser    Kind = "users"
	KindTeacher Kind = "teachers"
	KindStudent Kind = "students"
	KindParent  Kind = "parents"
	KindCourse  Kind = "courses"
	KindGrade   Kind = "grades"
	KindInvoice Kind = "invoices"
	KindMessage Kind = "messages"
)

// Kinds lists every Kind in a stable order. It is not a dependency order: students and parents
// reference each other, so references are checked against a whole Snapshot.
var Kinds = []Kind{KindUser, KindTeacher, KindStudent, KindParent, KindCourse, KindGrade, KindInvoice, KindMessage}

var (
	// errors
	ErrNotFound    = errors.New("record not found")
	ErrUnknownKind = errors.New("unknown entity kind")
	ErrDuplicateID = errors.New("a record with this id already exists")
)

func (k Kind) Valid() bool {
	for _, kind := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Entity is a record owned by the Store. Records are handled through pointers so that
// Create can assign the identity it generates.
type Entity interface {
	EntityID() string
	SetEntityID(id string)
	EntityKind() Kind
}

// Store exposes the collections of records. Implementations must be safe for concurrent use.
type Store interface {
	// List returns every record of the kind, ordered by creation time then identity.
	List(ctx context.Context, kind Kind) ([]Entity, error)
	// Create stores a new record and returns its identity; one is generated when the record has none.
	Create(ctx context.Context, e Entity) (string, error)
	// Update replaces the stored record having the same kind and identity.
	Update(ctx context.Context, e Entity) error
	Delete(ctx context.Context, kind Kind, id string) error
}
