package scope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/actor"
	"github.com/trezcool/darasa/core/school"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	"github.com/trezcool/darasa/storage/database/seed"
)

func demoSnapshot(t *testing.T) school.Snapshot {
	ctx := context.Background()
	store := inmemdb.NewStore(inmemdb.Open())
	if err := seed.Load(ctx, store); err != nil {
		t.Fatalf("seed.Load() failed: %v", err)
	}
	snap, err := school.Load(ctx, store)
	if err != nil {
		t.Fatalf("school.Load() failed: %v", err)
	}
	return snap
}

type ids struct {
	users, teachers, students, parents, courses, grades, invoices, messages []string
}

func idsOf(snap school.Snapshot) ids {
	var res ids
	for _, u := range snap.Users {
		res.users = append(res.users, u.ID)
	}
	for _, t := range snap.Teachers {
		res.teachers = append(res.teachers, t.ID)
	}
	for _, s := range snap.Students {
		res.students = append(res.students, s.ID)
	}
	for _, p := range snap.Parents {
		res.parents = append(res.parents, p.ID)
	}
	for _, c := range snap.Courses {
		res.courses = append(res.courses, c.ID)
	}
	for _, g := range snap.Grades {
		res.grades = append(res.grades, g.ID)
	}
	for _, inv := range snap.Invoices {
		res.invoices = append(res.invoices, inv.ID)
	}
	for _, m := range snap.Messages {
		res.messages = append(res.messages, m.ID)
	}
	return res
}

func TestFilter(t *testing.T) {
	snap := demoSnapshot(t)

	tests := []struct {
		name  string
		actor actor.Actor
		want  ids
	}{
		{
			name:  "admin sees everything",
			actor: actor.Admin{UserID: "admin-1"},
			want:  idsOf(snap),
		},
		{
			name:  "teacher",
			actor: actor.Teacher{UserID: "teacher-1"},
			want: ids{
				users:    []string{"teacher-1"},
				teachers: []string{"teacher-1"},
				students: []string{"student-1", "student-2", "student-3"},
				parents:  []string{"parent-1", "parent-2", "parent-3"},
				courses:  []string{"course-1", "course-2", "course-3"},
				grades:   []string{"grade-1", "grade-2", "grade-3"},
				invoices: []string{"invoice-1", "invoice-2"},
				messages: []string{"msg-1", "msg-2"},
			},
		},
		{
			name:  "parent",
			actor: actor.Parent{UserID: "parent-1"},
			want: ids{
				users:    []string{"parent-1"},
				teachers: []string{"teacher-1"},
				students: []string{"student-1"},
				parents:  []string{"parent-1"},
				courses:  []string{"course-1", "course-2"},
				grades:   []string{"grade-1"},
				invoices: []string{"invoice-1"},
				messages: []string{"msg-1", "msg-2"},
			},
		},
		{
			name:  "other parent",
			actor: actor.Parent{UserID: "parent-2"},
			want: ids{
				users:    []string{"parent-2"},
				teachers: []string{"teacher-1"},
				students: []string{"student-2"},
				parents:  []string{"parent-2"},
				courses:  []string{"course-3"},
				grades:   []string{"grade-2"},
				invoices: []string{"invoice-2"},
			},
		},
		{
			name:  "student",
			actor: actor.Student{UserID: "student-3"},
			want: ids{
				users:    []string{"student-3"},
				teachers: []string{"teacher-1"},
				students: []string{"student-3"},
				parents:  []string{"parent-3"},
				courses:  []string{"course-1"},
				grades:   []string{"grade-3"},
			},
		},
		{
			name:  "unknown teacher",
			actor: actor.Teacher{UserID: "teacher-404"},
			want:  ids{},
		},
		{
			name: "no actor",
			want: ids{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(snap, tt.actor)
			assert.Equal(t, tt.want, idsOf(got))
		})
	}
}

func TestFilter_neverNil(t *testing.T) {
	got := Filter(school.Snapshot{}, nil)
	assert.NotNil(t, got.Users)
	assert.NotNil(t, got.Teachers)
	assert.NotNil(t, got.Students)
	assert.NotNil(t, got.Parents)
	assert.NotNil(t, got.Courses)
	assert.NotNil(t, got.Grades)
	assert.NotNil(t, got.Invoices)
	assert.NotNil(t, got.Messages)
}

func TestFilter_leavesSnapshotUntouched(t *testing.T) {
	snap := demoSnapshot(t)
	before := idsOf(snap)
	_ = Filter(snap, actor.Parent{UserID: "parent-1"})
	assert.Equal(t, before, idsOf(snap))
}

// Every record visible to a non-admin actor is visible to the admin too.
func TestFilter_subsetOfAdmin(t *testing.T) {
	snap := demoSnapshot(t)
	all := idsOf(Filter(snap, actor.Admin{UserID: "admin-1"}))
	for _, a := range []actor.Actor{
		actor.Teacher{UserID: "teacher-1"},
		actor.Parent{UserID: "parent-3"},
		actor.Student{UserID: "student-2"},
	} {
		got := idsOf(Filter(snap, a))
		assert.Subset(t, all.students, got.students)
		assert.Subset(t, all.grades, got.grades)
		assert.Subset(t, all.invoices, got.invoices)
	}
}
