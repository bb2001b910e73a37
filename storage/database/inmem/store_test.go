package inmemdb

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/entity"
	"github.com/trezcool/darasa/core/school"
)

type ghost struct{ id string }

func (g ghost) EntityID() string        { return g.id }
func (g *ghost) SetEntityID(id string)  { g.id = id }
func (g ghost) EntityKind() entity.Kind { return "ghosts" }

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore(Open())

	c1 := &school.Course{ID: "course-1", Title: "Algèbre", StudentIDs: []string{"student-1"}}
	id, err := s.Create(ctx, c1)
	require.NoError(t, err)
	assert.Equal(t, "course-1", id)

	c2 := &school.Course{Title: "Mécanique"}
	id2, err := s.Create(ctx, c2)
	require.NoError(t, err)
	assert.NotEmpty(t, id2)

	_, err = s.Create(ctx, &school.Course{ID: "course-1"})
	assert.Equal(t, entity.ErrDuplicateID, errors.Cause(err))

	// the store keeps its own copy
	c1.StudentIDs[0] = "lol"
	c1.Title = "lol"

	recs, err := s.List(ctx, entity.KindCourse)
	require.NoError(t, err)
	if assert.Len(t, recs, 2) {
		got := recs[0].(*school.Course)
		assert.Equal(t, "Algèbre", got.Title)
		assert.Equal(t, []string{"student-1"}, got.StudentIDs)
		assert.Equal(t, id2, recs[1].EntityID())

		// and so do the callers
		got.StudentIDs[0] = "lol"
		again, _ := s.List(ctx, entity.KindCourse)
		assert.Equal(t, "student-1", again[0].(*school.Course).StudentIDs[0])
	}

	require.NoError(t, s.Update(ctx, &school.Course{ID: "course-1", Title: "Géométrie"}))
	recs, _ = s.List(ctx, entity.KindCourse)
	assert.Equal(t, "Géométrie", recs[0].(*school.Course).Title)
	assert.Equal(t, entity.ErrNotFound, errors.Cause(s.Update(ctx, &school.Course{ID: "course-404"})))

	require.NoError(t, s.Delete(ctx, entity.KindCourse, "course-1"))
	assert.Equal(t, entity.ErrNotFound, errors.Cause(s.Delete(ctx, entity.KindCourse, "course-1")))
	recs, _ = s.List(ctx, entity.KindCourse)
	assert.Len(t, recs, 1)

	empty, err := s.List(ctx, entity.KindGrade)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStore_unknownKind(t *testing.T) {
	ctx := context.Background()
	s := NewStore(Open())

	_, err := s.List(ctx, "ghosts")
	assert.Equal(t, entity.ErrUnknownKind, err)
	_, err = s.Create(ctx, &ghost{})
	assert.Equal(t, entity.ErrUnknownKind, err)
	assert.Equal(t, entity.ErrUnknownKind, s.Update(ctx, &ghost{id: "g"}))
	assert.Equal(t, entity.ErrUnknownKind, s.Delete(ctx, "ghosts", "g"))
}

func TestStore_concurrentCreates(t *testing.T) {
	ctx := context.Background()
	s := NewStore(Open())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Create(ctx, &school.Message{Subject: "Bonjour"})
		}()
	}
	wg.Wait()

	recs, err := s.List(ctx, entity.KindMessage)
	require.NoError(t, err)
	assert.Len(t, recs, 50)
}
