package middleware

import (
	"time"

	"github.com/amoylab/tenantly/internal/apiserver/reqctx"
	"github.com/amoylab/tenantly/internal/common/cnst"
	"github.com/amoylab/tenantly/internal/i18n"
	"github.com/amoylab/tenantly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger tags each request with an id, stores a request-scoped logger
// in the context and logs the outcome once the handlers finish.
func RequestLogger(lg *zap.Logger) gin.HandlerFunc {
	lg = lg.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(cnst.XRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(cnst.XRequestID, requestID)

		reqLogger := lg.With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLogger))

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("remote_addr", c.ClientIP()),
		}
		if t := reqctx.Tenant(c.Request.Context()); t != nil {
			fields = append(fields, zap.String("tenant", t.Slug))
		}
		if u := reqctx.User(c.Request.Context()); u != nil {
			fields = append(fields, zap.String("user_id", u.ID))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLogger.Error("request completed", fields...)
		case status >= 400:
			reqLogger.Warn("request completed", fields...)
		default:
			reqLogger.Info("request completed", fields...)
		}
	}
}

// Recovery turns a panic into an Internal error response
func Recovery(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.FromContext(c.Request.Context(), lg).Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)
				i18n.RespondWithError(c, i18n.ErrInternal)
			}
		}()
		c.Next()
	}
}
