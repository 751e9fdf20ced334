package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envFileName = ".env"

// initEnvFile loads .env (or NOTES_ENV_FILE) without overriding variables
// that are already set.
func initEnvFile() {
	path := envOr("NOTES_ENV_FILE", envFileName)
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		slog.Warn("load env file", "path", path, "err", err)
	}
}

type fileConfig struct {
	Host           *string `yaml:"host"`
	Port           *int    `yaml:"port"`
	DataPath       *string `yaml:"data_path"`
	DatabaseURL    *string `yaml:"database_url"`
	UploadsPath    *string `yaml:"uploads_path"`
	MaxUploadBytes *int64  `yaml:"max_upload_bytes"`
	CORSOrigin     *string `yaml:"cors_origin"`
	RateLimit      *int    `yaml:"rate_limit"`
	RateWindow     *string `yaml:"rate_window"`
	RedisURL       *string `yaml:"redis_url"`
	StrictIDs      *bool   `yaml:"strict_ids"`
	DeleteFiles    *bool   `yaml:"delete_files"`
	DBBusyTimeout  *string `yaml:"db_busy_timeout"`
	DBLockTimeout  *string `yaml:"db_lock_timeout"`
	LogLevel       *string `yaml:"log_level"`
	LogPretty      *bool   `yaml:"log_pretty"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.Host, fc.Host)
	setString(&cfg.DataPath, fc.DataPath)
	setString(&cfg.DatabaseURL, fc.DatabaseURL)
	setString(&cfg.UploadsPath, fc.UploadsPath)
	setString(&cfg.CORSOrigin, fc.CORSOrigin)
	setString(&cfg.RedisURL, fc.RedisURL)
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.MaxUploadBytes != nil {
		cfg.MaxUploadBytes = *fc.MaxUploadBytes
	}
	if fc.RateLimit != nil {
		cfg.RateLimit = *fc.RateLimit
	}
	if fc.StrictIDs != nil {
		cfg.StrictIDs = *fc.StrictIDs
	}
	if fc.DeleteFiles != nil {
		cfg.DeleteFiles = *fc.DeleteFiles
	}
	if fc.LogPretty != nil {
		cfg.LogPretty = *fc.LogPretty
	}
	durations := []struct {
		key string
		raw *string
		dst *time.Duration
	}{
		{"rate_window", fc.RateWindow, &cfg.RateWindow},
		{"db_busy_timeout", fc.DBBusyTimeout, &cfg.DBBusyTimeout},
		{"db_lock_timeout", fc.DBLockTimeout, &cfg.DBLockTimeout},
	}
	for _, d := range durations {
		if d.raw == nil {
			continue
		}
		v, err := time.ParseDuration(*d.raw)
		if err != nil {
			return fmt.Errorf("config file %s: %s: %w", path, d.key, err)
		}
		*d.dst = v
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
