package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env        string `yaml:"env" env:"ENV"`
	Storage    string `yaml:"storage" env:"STORAGE"`
	BaseURL    string `yaml:"base_url" env:"BASE_URL"`
	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL"`
	Alias      `yaml:"alias" envPrefix:"ALIAS_"`
	Redirect   `yaml:"redirect" envPrefix:"REDIRECT_"`
	HTTPServer `yaml:"http_server" envPrefix:"HTTP_SERVER_"`
	Postgres   `yaml:"postgres" envPrefix:"POSTGRES_"`
}

type Alias struct {
	Length     int    `yaml:"length" env:"LENGTH"`
	Alphabet   string `yaml:"alphabet" env:"ALPHABET"`
	MaxRetries int    `yaml:"max_retries" env:"MAX_RETRIES"`
}

var defaultAlias = Alias{
	Length:     6,
	Alphabet:   "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789",
	MaxRetries: 5,
}

type Redirect struct {
	RateLimitThreshold int64 `yaml:"rate_limit_threshold" env:"RATE_LIMIT_THRESHOLD"`
	// FallbackURL defaults to the base URL when empty.
	FallbackURL string `yaml:"fallback_url" env:"FALLBACK_URL"`
}

var defaultRedirect = Redirect{
	RateLimitThreshold: 10,
}

type HTTPServer struct {
	Port           int           `yaml:"port" env:"PORT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	MaxHeaderBytes int           `yaml:"max_header_bytes" env:"MAX_HEADER_BYTES"`
	CertFile       string        `yaml:"cert_file" env:"CERT_FILE"`
	KeyFile        string        `yaml:"key_file" env:"KEY_FILE"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Postgres struct {
	User            string        `yaml:"user" env:"USER"`
	Password        string        `yaml:"password" env:"PASSWORD"`
	Host            string        `yaml:"host" env:"HOST"`
	Port            int           `yaml:"port" env:"PORT"`
	DB              string        `yaml:"db" env:"DB"`
	SSLMode         string        `yaml:"sslmode" env:"SSLMODE"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env:"CONN_MAX_IDLE_TIME"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse environment: %w", op, err)
	}

	if cfg.Redirect.FallbackURL == "" {
		cfg.Redirect.FallbackURL = cfg.BaseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Alias.Length <= 0:
		return fmt.Errorf("%w: alias length must be positive", ErrInvalidConfig)
	case utf8.RuneCountInString(c.Alias.Alphabet) < 2:
		return fmt.Errorf("%w: alias alphabet needs at least 2 symbols", ErrInvalidConfig)
	case hasRepeatedRune(c.Alias.Alphabet):
		return fmt.Errorf("%w: alias alphabet has repeated symbols", ErrInvalidConfig)
	case c.Alias.MaxRetries <= 0:
		return fmt.Errorf("%w: alias max retries must be positive", ErrInvalidConfig)
	case c.Redirect.RateLimitThreshold <= 0:
		return fmt.Errorf("%w: rate limit threshold must be positive", ErrInvalidConfig)
	case c.Storage != StoragePostgres && c.Storage != StorageMemory:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, c.Storage)
	}

	return nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.Storage = StoragePostgres
	cfg.BaseURL = "http://localhost:8080"
	cfg.LogLevel = "info"
	cfg.Alias = defaultAlias
	cfg.Redirect = defaultRedirect
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
}

func hasRepeatedRune(s string) bool {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		if _, ok := seen[r]; ok {
			return true
		}
		seen[r] = struct{}{}
	}
	return false
}
