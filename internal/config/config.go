package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Source workbooks, relative to DataDir unless absolute
	DataDir          string
	MealsFile        string
	VouchersFile     string
	ScholarshipsFile string
	BooksFile        string

	// Sessions
	SessionTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"*"}),

		DataDir:          getEnv("DATA_DIR", "."),
		MealsFile:        getEnv("MEALS_FILE", "Resumen_rondos_comedores.xlsx"),
		VouchersFile:     getEnv("VOUCHERS_FILE", "20251215_VOUCHERS.xlsx"),
		ScholarshipsFile: getEnv("SCHOLARSHIPS_FILE", "Becas_Fortaleciemiento.xlsx"),
		BooksFile:        getEnv("BOOKS_FILE", "Libros_Anexo_III.xlsx"),

		SessionTTL: getEnvDuration("SESSION_TTL", 12*time.Hour),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Path resolves a workbook name against DataDir.
func (c *Config) Path(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.DataDir, file)
}

// Validate validates the configuration and returns an error if invalid.
// Missing workbooks are not an error: their panels report it at request time.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	} else if info, err := os.Stat(c.DataDir); err != nil || !info.IsDir() {
		errors = append(errors, fmt.Sprintf("data directory '%s' does not exist", c.DataDir))
	}

	files := []struct{ name, value string }{
		{"MEALS_FILE", c.MealsFile},
		{"VOUCHERS_FILE", c.VouchersFile},
		{"SCHOLARSHIPS_FILE", c.ScholarshipsFile},
		{"BOOKS_FILE", c.BooksFile},
	}
	for _, f := range files {
		if f.value == "" {
			errors = append(errors, fmt.Sprintf("%s cannot be empty", f.name))
		}
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}
	validFormats := []string{"json", "text"}
	if !contains(validFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
