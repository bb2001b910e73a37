package school

import (
	"fmt"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

const (
	errNotFoundText         = "does not exist"
	errReferencedText       = "is still referenced by %d %s"
	errNotEnrolledText      = "student is not enrolled in this course"
	errNotCourseTeacherText = "course is given by another teacher"
	errNotChildText         = "student is not a child of this parent"
)

func missing(field string) core.FieldError {
	return core.FieldError{Field: field, Error: errNotFoundText}
}

func referenced(field string, n int, what string) core.FieldError {
	return core.FieldError{Field: field, Error: fmt.Sprintf(errReferencedText, n, what)}
}

// Reference checks: each returns the fields of rec pointing to records absent from the snapshot.

func (snap Snapshot) checkTeacherRefs(t Teacher) []core.FieldError {
	if usr, ok := snap.User(t.ID); t.ID != "" && (!ok || usr.Role != user.RoleTeacher) {
		return []core.FieldError{missing("id")}
	}
	return nil
}

func (snap Snapshot) checkStudentRefs(s Student) []core.FieldError {
	var flds []core.FieldError
	if usr, ok := snap.User(s.ID); s.ID != "" && (!ok || usr.Role != user.RoleStudent) {
		flds = append(flds, missing("id"))
	}
	if _, ok := snap.Teacher(s.TeacherID); !ok {
		flds = append(flds, missing("teacher_id"))
	}
	for i, id := range s.ParentIDs {
		if _, ok := snap.Parent(id); !ok {
			flds = append(flds, missing(fmt.Sprintf("parent_ids[%d]", i)))
		}
	}
	return flds
}

func (snap Snapshot) checkParentRefs(p Parent) []core.FieldError {
	var flds []core.FieldError
	if usr, ok := snap.User(p.ID); p.ID != "" && (!ok || usr.Role != user.RoleParent) {
		flds = append(flds, missing("id"))
	}
	for i, id := range p.Children {
		if _, ok := snap.Student(id); !ok {
			flds = append(flds, missing(fmt.Sprintf("children[%d]", i)))
		}
	}
	return flds
}

func (snap Snapshot) checkCourseRefs(c Course) []core.FieldError {
	var flds []core.FieldError
	if _, ok := snap.Teacher(c.TeacherID); !ok {
		flds = append(flds, missing("teacher_id"))
	}
	for i, id := range c.StudentIDs {
		if _, ok := snap.Student(id); !ok {
			flds = append(flds, missing(fmt.Sprintf("student_ids[%d]", i)))
		}
	}
	return flds
}

func (snap Snapshot) checkGradeRefs(g Grade) []core.FieldError {
	var flds []core.FieldError
	_, studentOK := snap.Student(g.StudentID)
	if !studentOK {
		flds = append(flds, missing("student_id"))
	}
	course, courseOK := snap.Course(g.CourseID)
	if !courseOK {
		flds = append(flds, missing("course_id"))
	}
	_, teacherOK := snap.Teacher(g.TeacherID)
	if !teacherOK {
		flds = append(flds, missing("teacher_id"))
	}
	if studentOK && courseOK && !course.HasStudent(g.StudentID) {
		flds = append(flds, core.FieldError{Field: "student_id", Error: errNotEnrolledText})
	}
	if teacherOK && courseOK && course.TeacherID != g.TeacherID {
		flds = append(flds, core.FieldError{Field: "teacher_id", Error: errNotCourseTeacherText})
	}
	return flds
}

func (snap Snapshot) checkInvoiceRefs(inv Invoice) []core.FieldError {
	var flds []core.FieldError
	if _, ok := snap.Teacher(inv.TeacherID); !ok {
		flds = append(flds, missing("teacher_id"))
	}
	_, parentOK := snap.Parent(inv.ParentID)
	if !parentOK {
		flds = append(flds, missing("parent_id"))
	}
	student, studentOK := snap.Student(inv.StudentID)
	if !studentOK {
		flds = append(flds, missing("student_id"))
	}
	if parentOK && studentOK && !student.HasParent(inv.ParentID) {
		flds = append(flds, core.FieldError{Field: "student_id", Error: errNotChildText})
	}
	for i, id := range inv.CourseIDs {
		if _, ok := snap.Course(id); !ok {
			flds = append(flds, missing(fmt.Sprintf("course_ids[%d]", i)))
		}
	}
	return flds
}

func (snap Snapshot) checkMessageRefs(m Message) []core.FieldError {
	var flds []core.FieldError
	if _, ok := snap.User(m.SenderID); !ok {
		flds = append(flds, missing("sender_id"))
	}
	if _, ok := snap.User(m.ReceiverID); !ok {
		flds = append(flds, missing("receiver_id"))
	}
	if m.ThreadID != "" {
		if _, ok := snap.Message(m.ThreadID); !ok {
			flds = append(flds, missing("thread_id"))
		}
	}
	return flds
}

// Dependents checks: each returns a field error per collection still referencing the record.

func (snap Snapshot) teacherDependents(id string) []core.FieldError {
	var students, courses, grades, invoices int
	for _, s := range snap.Students {
		if s.TeacherID == id {
			students++
		}
	}
	for _, c := range snap.Courses {
		if c.TeacherID == id {
			courses++
		}
	}
	for _, g := range snap.Grades {
		if g.TeacherID == id {
			grades++
		}
	}
	for _, inv := range snap.Invoices {
		if inv.TeacherID == id {
			invoices++
		}
	}
	return dependents("id", map[string]int{"students": students, "courses": courses, "grades": grades, "invoices": invoices})
}

func (snap Snapshot) studentDependents(id string) []core.FieldError {
	var parents, courses, grades, invoices int
	for _, p := range snap.Parents {
		if contains(p.Children, id) {
			parents++
		}
	}
	for _, c := range snap.Courses {
		if c.HasStudent(id) {
			courses++
		}
	}
	for _, g := range snap.Grades {
		if g.StudentID == id {
			grades++
		}
	}
	for _, inv := range snap.Invoices {
		if inv.StudentID == id {
			invoices++
		}
	}
	return dependents("id", map[string]int{"parents": parents, "courses": courses, "grades": grades, "invoices": invoices})
}

func (snap Snapshot) parentDependents(id string) []core.FieldError {
	var students, invoices int
	for _, s := range snap.Students {
		if s.HasParent(id) {
			students++
		}
	}
	for _, inv := range snap.Invoices {
		if inv.ParentID == id {
			invoices++
		}
	}
	return dependents("id", map[string]int{"students": students, "invoices": invoices})
}

func (snap Snapshot) courseDependents(id string) []core.FieldError {
	var grades, invoices int
	for _, g := range snap.Grades {
		if g.CourseID == id {
			grades++
		}
	}
	for _, inv := range snap.Invoices {
		if contains(inv.CourseIDs, id) {
			invoices++
		}
	}
	return dependents("id", map[string]int{"grades": grades, "invoices": invoices})
}

func (snap Snapshot) messageDependents(id string) []core.FieldError {
	var replies int
	for _, m := range snap.Messages {
		if m.ThreadID == id {
			replies++
		}
	}
	return dependents("id", map[string]int{"replies": replies})
}

// AccountDependents lists what still references the account id: the profile sharing its identity
// and the messages it sent or received.
func (snap Snapshot) AccountDependents(id string) []core.FieldError {
	var profiles, messages int
	if _, ok := snap.Teacher(id); ok {
		profiles++
	}
	if _, ok := snap.Student(id); ok {
		profiles++
	}
	if _, ok := snap.Parent(id); ok {
		profiles++
	}
	for _, m := range snap.Messages {
		if m.SenderID == id || m.ReceiverID == id {
			messages++
		}
	}
	return dependents("id", map[string]int{"profiles": profiles, "messages": messages})
}

func dependents(field string, counts map[string]int) []core.FieldError {
	var flds []core.FieldError
	for _, what := range []string{"profiles", "parents", "students", "courses", "grades", "invoices", "messages", "replies"} {
		if n := counts[what]; n > 0 {
			flds = append(flds, referenced(field, n, what))
		}
	}
	return flds
}
