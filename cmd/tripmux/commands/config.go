package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/tripmux/tripmux/pkg/cookie"
	"github.com/tripmux/tripmux/pkg/db"
	"github.com/tripmux/tripmux/pkg/job"
	"github.com/tripmux/tripmux/pkg/logger"
	"github.com/tripmux/tripmux/pkg/redis"
)

const (
	defaultAPIBase     = "https://api.tripmux.com/api"
	developmentAPIBase = "http://localhost:8081/api"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("config: unknown storage driver")

// Config is read from the environment.
type Config struct {
	HTTPAddr        string `env:"HTTP_ADDR" envDefault:":8080"`
	APIBaseURL      string `env:"API_BASE_URL"`
	APITokenURL     string `env:"API_TOKEN_URL"`
	APIClientID     string `env:"API_CLIENT_ID"`
	APIClientSecret string `env:"API_CLIENT_SECRET"`
	StorageDriver   string `env:"STORAGE_DRIVER" envDefault:"memory"`
	CookieSecret    string `env:"COOKIE_SECRET"`

	ResearchDelay        time.Duration `env:"RESEARCH_DELAY" envDefault:"300ms"`
	AutocompleteDebounce time.Duration `env:"AUTOCOMPLETE_DEBOUNCE" envDefault:"250ms"`
	WidgetTTL            time.Duration `env:"WIDGET_TTL" envDefault:"30m"`
	RequestTimeout       time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Logger logger.Config
	Redis  redis.Config
	DB     db.Config
	Job    job.Config
}

// LoadConfig parses the environment. apiBase, when set, overrides
// API_BASE_URL.
func LoadConfig(apiBase string) (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if apiBase != "" {
		cfg.APIBaseURL = apiBase
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBase
		if cfg.Development() {
			cfg.APIBaseURL = developmentAPIBase
		}
	}
	return cfg, cfg.validate()
}

// Development reports ENV=development.
func (c Config) Development() bool {
	return c.Logger.Environment == "development"
}

// ClientCredentials reports whether the fare API needs an OAuth2 token.
func (c Config) ClientCredentials() bool {
	return c.APITokenURL != "" && c.APIClientID != ""
}

func (c Config) validate() error {
	var errs []error
	switch c.StorageDriver {
	case DriverMemory:
	case DriverRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("config: REDIS_URL is required for the redis driver"))
		}
	case DriverPostgres:
		if c.DB.URL == "" {
			errs = append(errs, errors.New("config: DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownDriver, c.StorageDriver))
	}
	if c.CookieSecret != "" {
		if err := cookie.ValidateSecret(c.CookieSecret); err != nil {
			errs = append(errs, fmt.Errorf("config: COOKIE_SECRET: %w", err))
		}
	}
	return errors.Join(errs...)
}
