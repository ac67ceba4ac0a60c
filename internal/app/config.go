package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the console.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`
	RateLimit         int           `envconfig:"APP_RATE_LIMIT" default:"120"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile   string `envconfig:"LOG_FILE"`

	BackendURL     string        `envconfig:"BACKEND_URL" default:"http://127.0.0.1:8000"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`
	HydrateTimeout time.Duration `envconfig:"HYDRATE_TIMEOUT" default:"5s"`
	// HydrateWait bounds how long a request waits for a restore in flight
	// before the loading page is served instead.
	HydrateWait time.Duration `envconfig:"HYDRATE_WAIT" default:"250ms"`

	RedisAddr        string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret    string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionCookie    string        `envconfig:"SESSION_COOKIE" default:"console_session"`
	SessionPrefix    string        `envconfig:"SESSION_PREFIX" default:"console"`
	SessionTTL       time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	SessionCacheSize int           `envconfig:"SESSION_CACHE_SIZE" default:"10000"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	LogoutAsync       bool `envconfig:"LOGOUT_ASYNC" default:"false"`
	WorkerConcurrency int  `envconfig:"WORKER_CONCURRENCY" default:"5"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("session secret must be provided")
	}
	if c.CSRFSecret == "" {
		return errors.New("csrf secret must be provided")
	}
	if c.BackendURL == "" {
		return errors.New("backend url must be provided")
	}
	if c.SessionCacheSize <= 0 {
		return errors.New("session cache size must be positive")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
