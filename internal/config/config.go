package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	DriverJSON     = "json"
	DriverPostgres = "postgres"
)

type Config struct {
	// Storage
	StoreDriver string
	DataDir     string
	UsersFile   string
	TweetsFile  string

	// Database (postgres driver only)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Logging
	LogRetentionDays int

	// Server
	Port            string
	CORSOrigins     string
	RateLimitPerMin int
	BodyLimitBytes  int
	ShutdownTimeout time.Duration
}

func Load() *Config {
	dataDir := getEnv("DATA_DIR", "./data")
	return &Config{
		StoreDriver: getEnv("STORE_DRIVER", DriverJSON),
		DataDir:     dataDir,
		UsersFile:   getEnv("USERS_FILE", filepath.Join(dataDir, "users.json")),
		TweetsFile:  getEnv("TWEETS_FILE", filepath.Join(dataDir, "tweets.json")),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "twitter_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		LogRetentionDays: getInt("LOG_RETENTION_DAYS", 30),

		Port:            getEnv("PORT", "8000"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		RateLimitPerMin: getInt("RATE_LIMIT_PER_MIN", 120),
		BodyLimitBytes:  getInt("BODY_LIMIT_BYTES", 1024*1024),
		ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
