package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/logger"
	pkgmiddleware "github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/middleware"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.uber.org/zap"
)

// Logger logs one line per request
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("session_id", c.GetHeader(pkgmiddleware.SessionIDHeader)),
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.Int("body_size", c.Writer.Size()),
		}
		if traceID := telemetry.GetTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if lock, ok := pkgmiddleware.GetSubmitLock(c); ok {
			fields = append(fields, zap.String("submit_lock", lock))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			log.Error("Server error", fields...)
		case status >= 400:
			log.Warn("Client error", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}
