package actor

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

func TestFromUser(t *testing.T) {
	tests := []struct {
		name    string
		usr     user.User
		want    Actor
		wantErr bool
	}{
		{name: "admin", usr: user.User{ID: "u1", Role: user.RoleAdmin}, want: Admin{UserID: "u1"}},
		{name: "teacher", usr: user.User{ID: "u2", Role: user.RoleTeacher}, want: Teacher{UserID: "u2"}},
		{name: "student", usr: user.User{ID: "u3", Role: user.RoleStudent}, want: Student{UserID: "u3"}},
		{name: "parent", usr: user.User{ID: "u4", Role: user.RoleParent}, want: Parent{UserID: "u4"}},
		{name: "unknown role", usr: user.User{ID: "u5", Role: "janitor"}, wantErr: true},
		{name: "no role", usr: user.User{ID: "u6"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromUser(tt.usr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromUser() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if errors.Cause(err) != ErrNoRole {
					t.Errorf("FromUser() error = %v, want %v", err, ErrNoRole)
				}
				return
			}
			if got != tt.want {
				t.Errorf("FromUser() = %#v, want %#v", got, tt.want)
			}
			if got.ID() != tt.usr.ID || got.Role() != tt.usr.Role {
				t.Errorf("FromUser() = (%s, %s), want (%s, %s)", got.ID(), got.Role(), tt.usr.ID, tt.usr.Role)
			}
		})
	}
}
