// Package actor identifies who is looking at the data: the signed-in user seen through its role.
package actor

import (
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

var ErrNoRole = errors.New("user has no recognized role")

// Actor is one of Admin, Teacher, Student or Parent.
// The set is closed: only this package can add variants.
type Actor interface {
	ID() string
	Role() string
	sealed()
}

type (
	Admin   struct{ UserID string }
	Teacher struct{ UserID string }
	Student struct{ UserID string }
	Parent  struct{ UserID string }
)

var (
	_ Actor = Admin{}
	_ Actor = Teacher{}
	_ Actor = Student{}
	_ Actor = Parent{}
)

func (a Admin) ID() string     { return a.UserID }
func (a Admin) Role() string   { return user.RoleAdmin }
func (Admin) sealed()          {}
func (a Teacher) ID() string   { return a.UserID }
func (a Teacher) Role() string { return user.RoleTeacher }
func (Teacher) sealed()        {}
func (a Student) ID() string   { return a.UserID }
func (a Student) Role() string { return user.RoleStudent }
func (Student) sealed()        {}
func (a Parent) ID() string    { return a.UserID }
func (a Parent) Role() string  { return user.RoleParent }
func (Parent) sealed()         {}

// New returns the Actor of role for the user id.
func New(id, role string) (Actor, error) {
	switch role {
	case user.RoleAdmin:
		return Admin{UserID: id}, nil
	case user.RoleTeacher:
		return Teacher{UserID: id}, nil
	case user.RoleStudent:
		return Student{UserID: id}, nil
	case user.RoleParent:
		return Parent{UserID: id}, nil
	default:
		return nil, errors.Wrap(ErrNoRole, role)
	}
}

func FromUser(usr user.User) (Actor, error) {
	return New(usr.ID, usr.Role)
}
