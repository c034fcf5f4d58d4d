package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fixtrack/pkg/contextkeys"
)

// InjectLogger кладёт логгер в контекст echo, чтобы контроллеры могли его достать.
func InjectLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("logger", logger)
			return next(c)
		}
	}
}

// RequestLogger присваивает запросу идентификатор и пишет одну строку лога по завершении.
// Входящий X-Request-ID сохраняется.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), contextkeys.RequestIDKey, requestID)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("requestID", requestID),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}
			switch status := c.Response().Status; {
			case status >= 500:
				logger.Error("HTTP запрос", fields...)
			case status >= 400:
				logger.Warn("HTTP запрос", fields...)
			default:
				logger.Info("HTTP запрос", fields...)
			}
			return nil
		}
	}
}
