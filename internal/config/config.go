package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	Port             string
	AllowedOrigin    string
	StorageDriver    string
	SQLitePath       string
	DatabaseURL      string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisKeyPrefix   string
	DocumentCacheTTL time.Duration
	PrintSpoolDir    string
	CompanyName      string
	CompanyTagline   string
}

// LoadDotEnv reads KEY=VALUE pairs from the given files (default ".env") into
// the process environment. Variables already set are not overridden and a
// missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, err := strconv.Atoi(getEnv("DOCUMENT_CACHE_TTL_SECONDS", "86400"))
	if err != nil || ttl < 1 {
		ttl = 86400
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		AllowedOrigin:    getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		StorageDriver:    strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", DriverSQLite))),
		SQLitePath:       getEnv("SQLITE_PATH", "./data/invoicepro.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		RedisKeyPrefix:   getEnv("REDIS_KEY_PREFIX", "invoicepro:"),
		DocumentCacheTTL: time.Duration(ttl) * time.Second,
		PrintSpoolDir:    strings.TrimSpace(os.Getenv("PRINT_SPOOL_DIR")),
		CompanyName:      strings.TrimSpace(os.Getenv("COMPANY_NAME")),
		CompanyTagline:   strings.TrimSpace(os.Getenv("COMPANY_TAGLINE")),
	}

	return cfg
}

// Validate reports settings that make the configured storage driver unusable.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return errors.New("REDIS_ADDR is required for the redis driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
