package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: "json", Output: &buf})

	logger.WithComponent(ComponentEngine).Info("Load complete",
		NewFields().WithProgram("meals").WithRows(3, 1).ToSlice()...)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Expected one JSON record, got %q: %v", buf.String(), err)
	}
	if record[FieldComponent] != ComponentEngine {
		t.Errorf("component: got %v", record[FieldComponent])
	}
	if record[FieldProgram] != "meals" || record[FieldRows] != float64(3) || record[FieldDropped] != float64(1) {
		t.Errorf("Unexpected fields %v", record)
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: ParseLevel("warn"), Output: &buf})
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentRender).
		WithOperation(OpRender).
		WithFile("a.xlsx").
		WithDuration(1500 * time.Millisecond).
		WithError(errors.New("boom")).
		WithError(nil)

	if f[FieldDuration] != int64(1500) {
		t.Errorf("duration: got %v", f[FieldDuration])
	}
	if f[FieldError] != "boom" {
		t.Errorf("error: got %v", f[FieldError])
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Errorf("ToSlice should hold key/value pairs, got %v", f.ToSlice())
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "json", Output: &buf})

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Expected one JSON record, got %q: %v", buf.String(), err)
	}
	if record["level"] != "ERROR" {
		t.Errorf("Handler errors should log at error, got %v", record["level"])
	}
	if record[FieldStatusCode] != float64(http.StatusNotFound) || record[FieldPath] != "/missing" {
		t.Errorf("Unexpected record %v", record)
	}
	if record[FieldComponent] != ComponentHTTP {
		t.Errorf("component: got %v", record[FieldComponent])
	}
}
