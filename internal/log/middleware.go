package log

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RequestLogger returns echo middleware that writes one structured record per
// request. 4xx responses log at warn, 5xx and handler errors at error.
func RequestLogger(logger *Logger) echo.MiddlewareFunc {
	httpLog := logger.WithComponent(ComponentHTTP)
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			switch {
			case v.Error != nil || v.Status >= 500:
				level = slog.LevelError
			case v.Status >= 400:
				level = slog.LevelWarn
			}
			args := httpLog.stamp([]any{
				FieldMethod, v.Method,
				FieldPath, v.URI,
				FieldStatusCode, v.Status,
				FieldDuration, v.Latency.Milliseconds(),
			})
			if v.RequestID != "" {
				args = append(args, FieldRequestID, v.RequestID)
			}
			if v.Error != nil {
				args = append(args, FieldError, v.Error.Error())
			}
			httpLog.Logger.Log(context.Background(), level, "HTTP request completed", args...)
			return nil
		},
	})
}
