// Package scope projects a school.Snapshot onto the records an Actor is allowed to see.
package scope

import (
	"github.com/trezcool/darasa/core/actor"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
)

// Filter returns the part of snap visible to a. Collections are never nil.
// A nil Actor sees nothing. snap is left untouched.
func Filter(snap school.Snapshot, a actor.Actor) school.Snapshot {
	switch a := a.(type) {
	case actor.Admin:
		return all(snap)
	case actor.Teacher:
		return forTeacher(snap, a.UserID)
	case actor.Parent:
		return forParent(snap, a.UserID)
	case actor.Student:
		return forStudent(snap, a.UserID)
	default:
		return empty()
	}
}

type idSet map[string]struct{}

func (s idSet) add(id string) { s[id] = struct{}{} }

func (s idSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) hasAny(ids []string) bool {
	for _, id := range ids {
		if s.has(id) {
			return true
		}
	}
	return false
}

func empty() school.Snapshot {
	return school.Snapshot{
		Users:    []user.User{},
		Teachers: []school.Teacher{},
		Students: []school.Student{},
		Parents:  []school.Parent{},
		Courses:  []school.Course{},
		Grades:   []school.Grade{},
		Invoices: []school.Invoice{},
		Messages: []school.Message{},
	}
}

func all(snap school.Snapshot) school.Snapshot {
	res := empty()
	res.Users = append(res.Users, snap.Users...)
	res.Teachers = append(res.Teachers, snap.Teachers...)
	res.Students = append(res.Students, snap.Students...)
	res.Parents = append(res.Parents, snap.Parents...)
	res.Courses = append(res.Courses, snap.Courses...)
	res.Grades = append(res.Grades, snap.Grades...)
	res.Invoices = append(res.Invoices, snap.Invoices...)
	res.Messages = append(res.Messages, snap.Messages...)
	return res
}

func forTeacher(snap school.Snapshot, id string) school.Snapshot {
	res := empty()
	students := make(idSet)
	for _, s := range snap.Students {
		if s.TeacherID == id {
			res.Students = append(res.Students, s)
			students.add(s.ID)
		}
	}
	for _, c := range snap.Courses {
		if c.TeacherID == id {
			res.Courses = append(res.Courses, c)
		}
	}
	for _, g := range snap.Grades {
		if g.TeacherID == id {
			res.Grades = append(res.Grades, g)
		}
	}
	for _, inv := range snap.Invoices {
		if inv.TeacherID == id {
			res.Invoices = append(res.Invoices, inv)
		}
	}
	related(snap, &res, id, students)
	return res
}

func forParent(snap school.Snapshot, id string) school.Snapshot {
	res := empty()
	students := make(idSet)
	for _, s := range snap.Students {
		if s.HasParent(id) {
			res.Students = append(res.Students, s)
			students.add(s.ID)
		}
	}
	for _, c := range snap.Courses {
		if students.hasAny(c.StudentIDs) {
			res.Courses = append(res.Courses, c)
		}
	}
	for _, g := range snap.Grades {
		if students.has(g.StudentID) {
			res.Grades = append(res.Grades, g)
		}
	}
	for _, inv := range snap.Invoices {
		if inv.ParentID == id {
			res.Invoices = append(res.Invoices, inv)
		}
	}
	related(snap, &res, id, students)
	return res
}

func forStudent(snap school.Snapshot, id string) school.Snapshot {
	res := empty()
	students := make(idSet)
	for _, s := range snap.Students {
		if s.ID == id {
			res.Students = append(res.Students, s)
			students.add(s.ID)
		}
	}
	for _, c := range snap.Courses {
		if c.HasStudent(id) {
			res.Courses = append(res.Courses, c)
		}
	}
	for _, g := range snap.Grades {
		if g.StudentID == id {
			res.Grades = append(res.Grades, g)
		}
	}
	for _, inv := range snap.Invoices {
		if inv.StudentID == id {
			res.Invoices = append(res.Invoices, inv)
		}
	}
	related(snap, &res, id, students)
	return res
}

// related adds the own user, the own messages and the teachers and parents of the visible students.
func related(snap school.Snapshot, res *school.Snapshot, id string, students idSet) {
	for _, u := range snap.Users {
		if u.ID == id {
			res.Users = append(res.Users, u)
		}
	}
	for _, m := range snap.Messages {
		if m.SenderID == id || m.ReceiverID == id {
			res.Messages = append(res.Messages, m)
		}
	}

	teachers, parents := make(idSet), make(idSet)
	for _, s := range res.Students {
		teachers.add(s.TeacherID)
		for _, pid := range s.ParentIDs {
			parents.add(pid)
		}
	}
	for _, t := range snap.Teachers {
		if t.ID == id || teachers.has(t.ID) {
			res.Teachers = append(res.Teachers, t)
		}
	}
	for _, p := range snap.Parents {
		if p.ID == id || parents.has(p.ID) || students.hasAny(p.Children) {
			res.Parents = append(res.Parents, p)
		}
	}
}
