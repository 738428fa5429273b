package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	return Config{
		Port:             "8080",
		ShutdownTimeout:  10 * time.Second,
		DataDir:          t.TempDir(),
		MealsFile:        "meals.xlsx",
		VouchersFile:     "vouchers.xlsx",
		ScholarshipsFile: "becas.xlsx",
		BooksFile:        "libros.xlsx",
		SessionTTL:       time.Hour,
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			modify:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			modify:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing data directory",
			modify:      func(c *Config) { c.DataDir = filepath.Join(c.DataDir, "nope") },
			wantErr:     true,
			errorString: "does not exist",
		},
		{
			name:        "empty workbook name",
			modify:      func(c *Config) { c.VouchersFile = "" },
			wantErr:     true,
			errorString: "VOUCHERS_FILE cannot be empty",
		},
		{
			name:        "invalid log level",
			modify:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:    "upper-case log level",
			modify:  func(c *Config) { c.LogLevel = "DEBUG" },
			wantErr: false,
		},
		{
			name:        "invalid log format",
			modify:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "session ttl too short",
			modify:      func(c *Config) { c.SessionTTL = time.Second },
			wantErr:     true,
			errorString: "invalid session TTL 1s",
		},
		{
			name:        "shutdown timeout too short",
			modify:      func(c *Config) { c.ShutdownTimeout = 0 },
			wantErr:     true,
			errorString: "invalid shutdown timeout 0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, expected to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = "abc"
	cfg.LogFormat = "xml"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "invalid port") || !strings.Contains(err.Error(), "invalid log format") {
		t.Errorf("Expected both errors, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/data")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example,")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port: got %q", cfg.Port)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL: got %v", cfg.SessionTTL)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("Unparseable duration should fall back to default, got %v", cfg.ShutdownTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.example" {
		t.Errorf("CORSOrigins: got %v", cfg.CORSOrigins)
	}
	if cfg.MealsFile != "Resumen_rondos_comedores.xlsx" {
		t.Errorf("MealsFile default: got %q", cfg.MealsFile)
	}
}

func TestPath(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	if got := cfg.Path("a.xlsx"); got != filepath.Join("/data", "a.xlsx") {
		t.Errorf("Path: got %q", got)
	}
	if got := cfg.Path("/abs/b.xlsx"); got != "/abs/b.xlsx" {
		t.Errorf("Absolute paths should be kept, got %q", got)
	}
}
