package main

import (
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// Config holds all process configuration, read from environment variables
// (a local .env file is loaded first if present).
type Config struct {
	ListenAddr    string
	DBPath        string
	FrontendURL   string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	AdminEmail    string
	AdminPassword string
	LogLevel      string
}

func loadConfig() Config {
	return Config{
		ListenAddr:    envOr("LISTEN_ADDR", ":8081"),
		DBPath:        envOr("DB_PATH", "data.db"),
		FrontendURL:   envOr("FRONTEND_URL", "http://localhost:3000"),
		SMTPHost:      envOr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      envIntOr("SMTP_PORT", 587),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warnf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func initLogger(level string) {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
