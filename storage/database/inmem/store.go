package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/entity"
)

type store struct {
	db *DB
}

var _ entity.Store = (*store)(nil) // interface compliance check

func NewStore(db *DB) entity.Store {
	return &store{db: db}
}

func (s *store) List(_ context.Context, kind entity.Kind) ([]entity.Entity, error) {
	t, err := s.db.tableOf(kind)
	if err != nil {
		return nil, err
	}
	t.RLock()
	defer t.RUnlock()

	rows := make([]row, 0, len(t.rows))
	for _, r := range t.rows {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	records := make([]entity.Entity, 0, len(rows))
	for _, r := range rows {
		records = append(records, clone(r.rec))
	}
	return records, nil
}

func (s *store) Create(_ context.Context, e entity.Entity) (string, error) {
	t, err := s.db.tableOf(e.EntityKind())
	if err != nil {
		return "", err
	}
	t.Lock()
	defer t.Unlock()

	id := e.EntityID()
	if id == "" {
		id = uuid.New().String()
	}
	if _, ok := t.rows[id]; ok {
		return "", errors.Wrapf(entity.ErrDuplicateID, "%s %s", e.EntityKind(), id)
	}
	rec := clone(e)
	rec.SetEntityID(id)
	t.seq++
	t.rows[id] = row{seq: t.seq, rec: rec}
	return id, nil
}

func (s *store) Update(_ context.Context, e entity.Entity) error {
	t, err := s.db.tableOf(e.EntityKind())
	if err != nil {
		return err
	}
	t.Lock()
	defer t.Unlock()

	r, ok := t.rows[e.EntityID()]
	if !ok {
		return errors.Wrapf(entity.ErrNotFound, "%s %s", e.EntityKind(), e.EntityID())
	}
	r.rec = clone(e)
	t.rows[e.EntityID()] = r
	return nil
}

func (s *store) Delete(_ context.Context, kind entity.Kind, id string) error {
	t, err := s.db.tableOf(kind)
	if err != nil {
		return err
	}
	t.Lock()
	defer t.Unlock()

	if _, ok := t.rows[id]; !ok {
		return errors.Wrapf(entity.ErrNotFound, "%s %s", kind, id)
	}
	delete(t.rows, id)
	return nil
}
