// Package storage opens the Entity Store backend selected by the configuration.
package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/entity"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage/database"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	"github.com/trezcool/darasa/storage/database/seed"
	sqlxrepos "github.com/trezcool/darasa/storage/database/sqlx"
)

// Backend bundles the adapters of one store backend.
type Backend struct {
	Store    entity.Store
	UserRepo user.Repository
	DB       *sqlx.DB // nil for the memory backend
}

func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	return b.DB.Close()
}

// Open connects to the configured backend. The remote database is created (when admin credentials
// are configured) and migrated; the memory store is filled with the demo data when Store.Seed is set.
func Open(ctx context.Context, conf *core.Config) (*Backend, error) {
	switch conf.Store.Backend {
	case core.StoreMemory:
		db := inmemdb.Open()
		b := &Backend{Store: inmemdb.NewStore(db), UserRepo: inmemdb.NewUserRepository(db)}
		if conf.Store.Seed {
			if err := seed.Load(ctx, b.Store); err != nil {
				return nil, errors.Wrap(err, "seeding memory store")
			}
		}
		return b, nil
	case core.StoreRemote:
		if conf.Store.AdminUser != "" {
			if err := database.CreateIfNotExist(ctx, conf); err != nil {
				return nil, err
			}
		}
		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Backend{Store: sqlxrepos.NewStore(db), UserRepo: sqlxrepos.NewUserRepository(db), DB: db}, nil
	default:
		return nil, errors.Wrap(core.ErrUnknownStore, conf.Store.Backend)
	}
}
