package core

import (
	"os"
	"testing"

	"github.com/pkg/errors"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for k, v := range env {
		orig, had := os.LookupEnv(k)
		if err := os.Setenv(k, v); err != nil {
			t.Fatalf("Setenv(%s) failed: %v", k, err)
		}
		k := k
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, orig)
			} else {
				_ = os.Unsetenv(k)
			}
		})
	}
}

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
		check   func(t *testing.T, conf *Config)
	}{
		{
			name: "defaults",
			env:  map[string]string{"ENV": ""},
			check: func(t *testing.T, conf *Config) {
				if conf.Env != "DEV" || conf.Store.Backend != StoreMemory || !conf.Store.Seed {
					t.Errorf("NewConfig() = %s/%s/seed=%v, want DEV/memory/seed=true", conf.Env, conf.Store.Backend, conf.Store.Seed)
				}
				if conf.Jobs.OverdueSchedule != "@hourly" {
					t.Errorf("OverdueSchedule = %q, want @hourly", conf.Jobs.OverdueSchedule)
				}
			},
		},
		{
			name: "test mode",
			env:  map[string]string{"ENV": "test"},
			check: func(t *testing.T, conf *Config) {
				if conf.Env != "TEST" || !conf.TestMode {
					t.Errorf("NewConfig() = %s/testMode=%v, want TEST/testMode=true", conf.Env, conf.TestMode)
				}
			},
		},
		{
			name: "prefixed variables",
			env:  map[string]string{"ENV": "qa", "QA_APPNAME": "Darasa QA", "QA_STORE_SEED": "false"},
			check: func(t *testing.T, conf *Config) {
				if conf.AppName != "Darasa QA" || conf.Store.Seed {
					t.Errorf("NewConfig() = %q/seed=%v, want %q/seed=false", conf.AppName, conf.Store.Seed, "Darasa QA")
				}
			},
		},
		{
			name:    "remote without endpoint",
			env:     map[string]string{"ENV": "qa", "QA_STORE_BACKEND": "remote", "QA_STORE_URL": "", "QA_STORE_APIKEY": "key"},
			wantErr: ErrStoreURLMissing,
		},
		{
			name:    "remote without key",
			env:     map[string]string{"ENV": "qa", "QA_STORE_BACKEND": "remote", "QA_STORE_URL": "postgres://db:5432/darasa", "QA_STORE_APIKEY": ""},
			wantErr: ErrStoreAPIKeyMissing,
		},
		{
			name: "remote",
			env:  map[string]string{"ENV": "qa", "QA_STORE_BACKEND": "Remote", "QA_STORE_URL": "postgres://db:5432/darasa", "QA_STORE_APIKEY": "key"},
			check: func(t *testing.T, conf *Config) {
				if conf.Store.Backend != StoreRemote || conf.Store.APIKey != "key" {
					t.Errorf("Store = %+v, want remote with key", conf.Store)
				}
			},
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"ENV": "qa", "QA_STORE_BACKEND": "redis"},
			wantErr: ErrUnknownStore,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)

			conf, err := NewConfig()
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("NewConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, conf)
			}
		})
	}
}
