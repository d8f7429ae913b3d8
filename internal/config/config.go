package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is built once at startup and passed by value; nothing reads the
// environment after Load returns.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"docs-gateway"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL"`

	JWTAccessSecret  string `env:"JWT_ACCESS_SECRET,required,notEmpty"`
	JWTRefreshSecret string `env:"JWT_REFRESH_SECRET,required,notEmpty"`

	AccessTokenAge  time.Duration `env:"ACCESS_TOKEN_AGE" envDefault:"15m"`
	RefreshTokenAge time.Duration `env:"REFRESH_TOKEN_AGE" envDefault:"7d"`
	SessionAge      time.Duration `env:"SESSION_AGE"`

	FilesAPIBaseURL string `env:"FILES_API_BASE_URL" envDefault:"http://localhost:8090"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	CookieSecure bool     `env:"COOKIE_SECURE" envDefault:"false"`
}

func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info("config_notice", "reason", ".env file not found, using process environment")
	}
	return Parse(nil)
}

// Parse builds a Config from environ, or from the process environment when
// environ is nil.
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{
		Environment: environ,
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(time.Duration(0)): func(v string) (any, error) {
				return ParseAge(v)
			},
		},
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.SessionAge == 0 {
		cfg.SessionAge = cfg.RefreshTokenAge
	}
	cfg.FilesAPIBaseURL = strings.TrimRight(cfg.FilesAPIBaseURL, "/")
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.AccessTokenAge <= 0 || c.RefreshTokenAge <= 0 || c.SessionAge <= 0 {
		return errors.New("token and session ages must be positive")
	}
	if c.FilesAPIBaseURL == "" {
		return errors.New("FILES_API_BASE_URL is empty")
	}
	return nil
}

// ParseAge accepts a Go duration ("15m"), a day count ("7d") or a bare
// number of milliseconds ("604800000").
func ParseAge(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, errors.New("empty age")
	}

	var d time.Duration
	switch {
	case isDigits(v):
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("age %q: %w", v, err)
		}
		d = time.Duration(ms) * time.Millisecond
	case strings.HasSuffix(v, "d"):
		days, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
		if err != nil {
			return 0, fmt.Errorf("age %q: %w", v, err)
		}
		d = time.Duration(days) * 24 * time.Hour
	default:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("age %q: %w", v, err)
		}
		d = parsed
	}

	if d < 0 {
		return 0, fmt.Errorf("age %q is negative", v)
	}
	return d, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
