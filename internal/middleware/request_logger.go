package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/sitetrack-api/internal/workbook"
	"github.com/sjperalta/sitetrack-api/pkg/logger"
)

// RequestLogger logs each request with who made it and the workbook sheets it
// locked. Requests that hit the lock timeout are logged as warnings.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		trace := &workbook.Trace{}
		c.Request = c.Request.WithContext(workbook.WithTrace(c.Request.Context(), trace))

		c.Next()

		// health checks and scrapes are noise
		if c.Request.URL.Path == "/api/v1/health" || c.Request.URL.Path == "/metrics" {
			return
		}

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.String("path", c.Request.URL.RequestURI()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.ClientIP()),
		}
		if actor := GetActor(c); actor != "" {
			attrs = append(attrs, slog.String("actor", actor))
		}
		if tables := trace.Tables(); len(tables) > 0 {
			attrs = append(attrs,
				slog.Any("tables", tables),
				slog.Duration("lock_wait", trace.LockWait()))
		}
		if trace.TimedOut() {
			attrs = append(attrs, slog.Bool("lock_timeout", true))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			attrs = append(attrs, slog.String("error", errs))
		}

		switch {
		case status >= 500 && !trace.TimedOut():
			logger.Log.Error("Request", attrs...)
		case status >= 400:
			logger.Log.Warn("Request", attrs...)
		default:
			logger.Log.Info("Request", attrs...)
		}
	}
}
