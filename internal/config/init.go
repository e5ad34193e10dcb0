package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds everything read from the environment.
type Settings struct {
	Env           string
	Port          string
	DBDriver      string
	DBDSN         string
	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	IndexCacheTTL time.Duration
	JWTSecret     string
	MediaRoot     string
	PerPage       int
}

// Load reads .env (if present) and the environment into Settings.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		Logger.Info("No .env file found, using system environment variables")
	}

	s := &Settings{
		Env:           getEnv("APP_ENV", "development"),
		Port:          getEnv("APP_PORT", "8000"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBDSN:         getEnv("DB_DSN", ""),
		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		MediaRoot:     getEnv("MEDIA_ROOT", "media"),
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0
	}
	s.RedisDB = redisDB

	s.IndexCacheTTL, err = time.ParseDuration(getEnv("INDEX_CACHE_TTL", "20s"))
	if err != nil {
		return nil, fmt.Errorf("invalid INDEX_CACHE_TTL: %w", err)
	}

	s.PerPage, err = strconv.Atoi(getEnv("PER_PAGE", "10"))
	if err != nil || s.PerPage <= 0 {
		s.PerPage = 10
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	switch s.DBDriver {
	case "mysql", "postgres":
		if s.DBDSN == "" {
			return fmt.Errorf("DB_DSN is not set")
		}
	case "sqlite":
		if s.DBDSN == "" {
			s.DBDSN = "yatube.db"
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", s.DBDriver)
	}

	switch s.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", s.CacheBackend)
	}

	if s.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
