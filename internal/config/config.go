package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPebble = "pebble"
	StoreDriverSQLite = "sqlite"
)

type Config struct {
	AppName string
	Env     string
	Host    string
	Port    int

	JWTSecret          string
	AccessTokenMinutes int

	// MessageStore selects the message-collection driver: pebble or sqlite.
	MessageStore string
	DataDir      string
	SQLitePath   string

	UploadDir     string
	PublicBaseURL string

	CORSOrigins   []string
	SnapshotLimit int
	Debug         bool
	LogLevel      string
}

func Load() (*Config, error) {
	// Optional .env next to the binary; real env always wins.
	_ = godotenv.Load()

	cfg := &Config{
		AppName: getEnv("APP_NAME", "chitchat"),
		Env:     getEnv("APP_ENV", "development"),
		Host:    getEnv("HTTP_HOST", "0.0.0.0"),
		Port:    getEnvAsInt("HTTP_PORT", 8000),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		AccessTokenMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24),

		MessageStore: getEnv("MESSAGE_STORE", StoreDriverPebble),
		DataDir:      getEnv("DATA_DIR", "data"),
		SQLitePath:   getEnv("SQLITE_PATH", "data/chitchat.db"),

		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8000"),

		SnapshotLimit: getEnvAsInt("SNAPSHOT_LIMIT", 200),
		Debug:         getEnvAsBool("DEBUG", true),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	cors := getEnv("CORS_ORIGINS", "")
	if cors != "" {
		parts := strings.Split(cors, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.CORSOrigins = parts
	} else {
		cfg.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MessageStore != StoreDriverPebble && cfg.MessageStore != StoreDriverSQLite {
		return nil, fmt.Errorf("MESSAGE_STORE must be %q or %q", StoreDriverPebble, StoreDriverSQLite)
	}

	for _, dir := range []string{cfg.DataDir, cfg.UploadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
