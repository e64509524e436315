package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	JWTSecret              string
	JWTTTLHours            int
	RateLimit              int
	RedisAddr              string
	RedisEventChannel      string
	ClientURL              string
	SMTPHost               string
	SMTPPort               string
	SMTPFrom               string
	SMTPUser               string
	SMTPPassword           string
	ShutdownTimeoutSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "taskflow.db"),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		JWTTTLHours:            getEnvAsInt("JWT_TTL_HOURS", 24),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
		RedisEventChannel:      getEnv("REDIS_EVENT_CHANNEL", "taskflow:events"),
		ClientURL:              getEnv("CLIENT_URL", "http://localhost:5173"),
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               getEnv("SMTP_PORT", "587"),
		SMTPFrom:               getEnv("SMTP_FROM", "noreply@taskflow.local"),
		SMTPUser:               getEnv("SMTP_USER", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	// Redis is optional; the realtime hub runs standalone without it.
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.RedisAddr = fmt.Sprintf("%s:%s", host, getEnv("REDIS_PORT", "6379"))
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must not be empty")
	}
	if cfg.JWTTTLHours <= 0 {
		log.Fatal("JWT_TTL_HOURS must be greater than 0")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
