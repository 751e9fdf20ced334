package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host           string
	Port           int
	DataPath       string
	DatabaseURL    string
	UploadsPath    string
	MaxUploadBytes int64
	CORSOrigin     string
	RateLimit      int
	RateWindow     time.Duration
	RedisURL       string
	StrictIDs      bool
	DeleteFiles    bool
	DBBusyTimeout  time.Duration
	DBLockTimeout  time.Duration
	LogLevel       string
	LogPretty      bool
}

func Default() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           4500,
		DataPath:       "./data",
		MaxUploadBytes: 10 << 20,
		CORSOrigin:     "http://127.0.0.1:4600",
		RateLimit:      100,
		RateWindow:     15 * time.Minute,
		DeleteFiles:    true,
		DBBusyTimeout:  5 * time.Second,
		DBLockTimeout:  2 * time.Second,
		LogLevel:       "info",
	}
}

// Load layers defaults, the optional YAML file named by NOTES_CONFIG and the
// environment (a .env file fills unset variables first).
func Load() (Config, error) {
	initEnvFile()

	cfg := Default()
	if path := os.Getenv("NOTES_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg.Host = envOr("NOTES_HOST", envOr("HOST", cfg.Host))
	cfg.Port = parseIntOr("NOTES_PORT", parseIntOr("PORT", cfg.Port))
	cfg.DataPath = envOr("NOTES_DATA_PATH", cfg.DataPath)
	cfg.DatabaseURL = envOr("NOTES_DATABASE_URL", cfg.DatabaseURL)
	cfg.UploadsPath = envOr("NOTES_UPLOADS_PATH", cfg.UploadsPath)
	cfg.MaxUploadBytes = int64(parseIntOr("NOTES_MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes)))
	cfg.CORSOrigin = envOr("NOTES_CORS_ORIGIN", cfg.CORSOrigin)
	cfg.RateLimit = parseIntOr("NOTES_RATE_LIMIT", cfg.RateLimit)
	cfg.RateWindow = parseDurationOr("NOTES_RATE_WINDOW", cfg.RateWindow)
	cfg.RedisURL = envOr("NOTES_REDIS_URL", cfg.RedisURL)
	cfg.StrictIDs = parseBoolOr("NOTES_STRICT_IDS", cfg.StrictIDs)
	cfg.DeleteFiles = parseBoolOr("NOTES_DELETE_FILES", cfg.DeleteFiles)
	cfg.DBBusyTimeout = parseDurationOr("NOTES_DB_BUSY_TIMEOUT", cfg.DBBusyTimeout)
	cfg.DBLockTimeout = parseDurationOr("NOTES_DB_LOCK_TIMEOUT", cfg.DBLockTimeout)
	cfg.LogLevel = envOr("NOTES_LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = parseBoolOr("NOTES_LOG_PRETTY", cfg.LogPretty)

	cfg.resolvePaths()
	return cfg, nil
}

func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) resolvePaths() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = "sqlite://" + filepath.Join(c.DataPath, "notes.db")
	}
	if c.UploadsPath == "" {
		c.UploadsPath = filepath.Join(c.DataPath, "uploads")
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func parseIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

func parseBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
