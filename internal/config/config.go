package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type JWT struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Config struct {
	ServiceName string

	ServerPort int
	LogLevel   string

	DatabaseURL string

	JWT JWT

	// TasksLocation is the reference timezone used to expand date-only task filters.
	TasksLocation *time.Location

	KafkaBrokers []string
	KafkaTopic   string
}

var (
	ErrMissingEnv = errors.New("missing required env")
	ErrInvalidEnv = errors.New("invalid env")
)

// LoadDotEnv loads the given .env files if present. Missing files are not an error,
// the process environment is used as is.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			log.Printf("Notice: %s not loaded: %v. Using system environment variables", f, err)
		}
	}
}

func Load() (Config, error) {
	cfg := Config{
		ServiceName: EnvDefault("SERVICE_NAME", "task_manager"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWT: JWT{
			Secret:     []byte(os.Getenv("JWT_SECRET")),
			AccessTTL:  time.Duration(EnvIntDefault("JWT_ACCESS_EXPIRATION_MINUTES", 30)) * time.Minute,
			RefreshTTL: time.Duration(EnvIntDefault("JWT_REFRESH_EXPIRATION_DAYS", 30)) * 24 * time.Hour,
		},

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "task_manager_events"),
	}

	if err := NonEmpty(cfg.DatabaseURL, "DATABASE_URL"); err != nil {
		return Config{}, err
	}
	if err := NonEmpty(string(cfg.JWT.Secret), "JWT_SECRET"); err != nil {
		return Config{}, err
	}
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 {
		return Config{}, fmt.Errorf("%w: token expiration must be positive", ErrInvalidEnv)
	}

	loc, err := time.LoadLocation(EnvDefault("TASKS_TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("%w TASKS_TIMEZONE: %v", ErrInvalidEnv, err)
	}
	cfg.TasksLocation = loc

	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.ServerPort)
}

func NonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("%w %s", ErrMissingEnv, envName)
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
