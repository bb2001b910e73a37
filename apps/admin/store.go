package main

import (
	"context"
	"errors"

	"github.com/trezcool/darasa/storage/database"
	"github.com/trezcool/darasa/storage/database/seed"
)

var (
	gooseRunFunc = database.RunMigrations // mockable

	errNoDatabase = errors.New("migrate requires the remote store")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.backend.DB == nil {
		return errNoDatabase
	}
	return gooseRunFunc(args[0], cli.backend.DB.DB, args[1:]...)
}

// seed fails with a duplicate ID when the demo data set is already loaded.
func (cli *commandLine) seed() error {
	return seed.Load(context.Background(), cli.backend.Store)
}
