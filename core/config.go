package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreRemote = "remote"
)

var (
	ErrStoreURLMissing    = errors.New("remote store endpoint (STORE_URL) is not configured")
	ErrStoreAPIKeyMissing = errors.New("remote store API key (STORE_APIKEY) is not configured")
	ErrUnknownStore       = errors.New("unknown store backend")
)

type (
	Config struct {
		AppName          string
		Env              string // DEV (local; default), TEST, QA, PROD
		Build            string
		Debug            bool
		TestMode         bool
		SecretKey        string
		DefaultFromEmail mail.Address
		SendgridAPIKey   string
		RollbarToken     string
		Server           ServerConfig
		Store            StoreConfig
		Jobs             JobsConfig
	}

	ServerConfig struct {
		Host               string
		Address            string
		DebugAddress       string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
		DisableReqLogs     bool
	}

	StoreConfig struct {
		Backend       string // memory | remote
		URL           string // postgres://host:port/dbname
		APIKey        string // credential of User on the remote store
		User          string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Seed          bool // load the demo data set into the memory store
	}

	JobsConfig struct {
		OverdueSchedule string // cron spec; empty disables the sweeper
	}
)

// NewConfig loads the configuration from the environment (and config/.env.<env> when it exists).
// Variables are prefixed by the environment name, e.g. PROD_STORE_URL.
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Darasa")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w7u#k2$1b!n8@zq3=dx&ol9f(h)r%c0v^e*m5p+ty6_sj4ga")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugAddress", ":4000")
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("store.backend", StoreMemory)
	v.SetDefault("store.url", "")
	v.SetDefault("store.apiKey", "")
	v.SetDefault("store.user", "darasa")
	v.SetDefault("store.adminUser", "")
	v.SetDefault("store.adminPassword", "")
	v.SetDefault("store.disableTLS", false)
	v.SetDefault("store.seed", true)
	v.SetDefault("jobs.overdueSchedule", "@hourly")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if root, err := ProjectRoot(); err == nil {
		dotEnvPath := filepath.Join(root, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
		}
	}
	v.AutomaticEnv()

	from, err := mail.ParseAddress(v.GetString("defaultFromEmail"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing defaultFromEmail")
	}

	conf := &Config{
		AppName:          v.GetString("appName"),
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: *from,
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Address:            v.GetString("server.address"),
			DebugAddress:       v.GetString("server.debugAddress"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:     v.GetBool("server.disableReqLogs"),
		},
		Store: StoreConfig{
			Backend:       strings.ToLower(v.GetString("store.backend")),
			URL:           v.GetString("store.url"),
			APIKey:        v.GetString("store.apiKey"),
			User:          v.GetString("store.user"),
			AdminUser:     v.GetString("store.adminUser"),
			AdminPassword: v.GetString("store.adminPassword"),
			DisableTLS:    v.GetBool("store.disableTLS"),
			Seed:          v.GetBool("store.seed"),
		},
		Jobs: JobsConfig{
			OverdueSchedule: v.GetString("jobs.overdueSchedule"),
		},
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate fails when the selected store backend cannot be reached with the provided settings.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory:
		return nil
	case StoreRemote:
		if CleanString(c.Store.URL) == "" {
			return ErrStoreURLMissing
		}
		if CleanString(c.Store.APIKey) == "" {
			return ErrStoreAPIKeyMissing
		}
		return nil
	default:
		return errors.Wrap(ErrUnknownStore, c.Store.Backend)
	}
}
