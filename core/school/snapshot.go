package school

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/entity"
	"github.com/trezcool/darasa/core/user"
)

// Snapshot holds a copy of every collection of the Entity Store at one point in time.
// Scoping and aggregation only ever read snapshots.
type Snapshot struct {
	Users    []user.User `json:"users"`
	Teachers []Teacher   `json:"teachers"`
	Students []Student   `json:"students"`
	Parents  []Parent    `json:"parents"`
	Courses  []Course    `json:"courses"`
	Grades   []Grade     `json:"grades"`
	Invoices []Invoice   `json:"invoices"`
	Messages []Message   `json:"messages"`
}

// Load lists every collection of store into a new Snapshot.
func Load(ctx context.Context, store entity.Store) (Snapshot, error) {
	var snap Snapshot
	for _, kind := range entity.Kinds {
		records, err := store.List(ctx, kind)
		if err != nil {
			return Snapshot{}, errors.Wrapf(err, "listing %s", kind)
		}
		for _, rec := range records {
			if err = snap.add(rec); err != nil {
				return Snapshot{}, err
			}
		}
	}
	return snap, nil
}

func (snap *Snapshot) add(e entity.Entity) error {
	switch rec := e.(type) {
	case *user.User:
		snap.Users = append(snap.Users, *rec)
	case *Teacher:
		snap.Teachers = append(snap.Teachers, *rec)
	case *Student:
		snap.Students = append(snap.Students, *rec)
	case *Parent:
		snap.Parents = append(snap.Parents, *rec)
	case *Course:
		snap.Courses = append(snap.Courses, *rec)
	case *Grade:
		snap.Grades = append(snap.Grades, *rec)
	case *Invoice:
		snap.Invoices = append(snap.Invoices, *rec)
	case *Message:
		snap.Messages = append(snap.Messages, *rec)
	default:
		return errors.Wrapf(entity.ErrUnknownKind, "%T", e)
	}
	return nil
}

func (snap Snapshot) User(id string) (user.User, bool) {
	for _, u := range snap.Users {
		if u.ID == id {
			return u, true
		}
	}
	return user.User{}, false
}

func (snap Snapshot) Teacher(id string) (Teacher, bool) {
	for _, t := range snap.Teachers {
		if t.ID == id {
			return t, true
		}
	}
	return Teacher{}, false
}

func (snap Snapshot) Student(id string) (Student, bool) {
	for _, s := range snap.Students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

func (snap Snapshot) Parent(id string) (Parent, bool) {
	for _, p := range snap.Parents {
		if p.ID == id {
			return p, true
		}
	}
	return Parent{}, false
}

func (snap Snapshot) Course(id string) (Course, bool) {
	for _, c := range snap.Courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

func (snap Snapshot) Grade(id string) (Grade, bool) {
	for _, g := range snap.Grades {
		if g.ID == id {
			return g, true
		}
	}
	return Grade{}, false
}

func (snap Snapshot) Invoice(id string) (Invoice, bool) {
	for _, inv := range snap.Invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return Invoice{}, false
}

func (snap Snapshot) Message(id string) (Message, bool) {
	for _, m := range snap.Messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// GradesOf returns the grades of a student, in store order.
func (snap Snapshot) GradesOf(studentID string) []Grade {
	grades := make([]Grade, 0)
	for _, g := range snap.Grades {
		if g.StudentID == studentID {
			grades = append(grades, g)
		}
	}
	return grades
}

// ChildrenOf returns the students a parent owns.
func (snap Snapshot) ChildrenOf(parentID string) []Student {
	students := make([]Student, 0)
	for _, s := range snap.Students {
		if s.HasParent(parentID) {
			students = append(students, s)
		}
	}
	return students
}
