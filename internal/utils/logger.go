package utils

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger is the small logging surface the handler layer depends on,
// so tests can swap in a silent implementation.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

type contextKey string

const loggerKey contextKey = "logger"

// ContextLogger binds a request-scoped logger (tagged with the
// request ID) into the request context.
func ContextLogger(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, _ := c.Get("request_id")
		scoped := logger.With("request_id", requestID)
		ctx := context.WithValue(c.Request.Context(), loggerKey, scoped)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// LoggerFromContext returns the request-scoped logger, or the given
// fallback when none was bound.
func LoggerFromContext(ctx context.Context, fallback Logger) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return fallback
}

// LoggerMiddleware logs one line per request after it completes.
func LoggerMiddleware(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if query != "" {
			fields = append(fields, "query", query)
		}
		if requestID, ok := c.Get("request_id"); ok {
			fields = append(fields, "request_id", requestID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
			logger.Error("request completed", fields...)
			return
		}

		if c.Writer.Status() >= 500 {
			logger.Error("request completed", fields...)
		} else {
			logger.Info("request completed", fields...)
		}
	}
}
