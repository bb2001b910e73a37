package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage"
)

func NewConfig() *core.Config {
	return &core.Config{
		AppName:          "Darasa",
		Env:              "TEST",
		TestMode:         true,
		SecretKey:        "test-secret",
		DefaultFromEmail: mail.Address{Name: "Darasa", Address: "noreply@darasa.io"},
		Server: core.ServerConfig{
			Host:               "localhost",
			JWTExpirationDelta: time.Hour,
			ShutdownTimeout:    time.Second,
			DisableReqLogs:     true,
		},
		Store: core.StoreConfig{Backend: core.StoreMemory},
	}
}

// OpenStore opens a memory backend, loaded with the demo data set when seeded is set.
func OpenStore(t *testing.T, seeded bool) *storage.Backend {
	conf := NewConfig()
	conf.Store.Seed = seeded
	backend, err := storage.Open(context.Background(), conf)
	if err != nil {
		t.Fatalf("OpenStore() failed: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	first, last, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Email:     email,
		Role:      role,
		FirstName: first,
		LastName:  last,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	id, err := repo.CreateAccount(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	usr.ID = id
	return usr
}
