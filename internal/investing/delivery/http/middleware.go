package http

import (
	"net/http"

	"investing-backend/internal/investing/service"
	"investing-backend/pkg/common"
	"investing-backend/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Authenticator resolves a session token to a user id.
type Authenticator interface {
	Authenticate(token string) (uint, error)
}

var _ Authenticator = service.AuthService(nil)

// RequireAuth rejects requests without a valid session cookie and stores the user id in the context.
func RequireAuth(auth Authenticator, cookies CookieConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookies.name())
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
			}
			userID, err := auth.Authenticate(cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
			}
			c.Set(common.ContextKeyUserID, userID)
			return next(c)
		}
	}
}

// currentUserID returns the id stored by RequireAuth.
func currentUserID(c echo.Context) uint {
	id, _ := c.Get(common.ContextKeyUserID).(uint)
	return id
}

// RequestContext copies the echo request id into the request context for the logger.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			if id != "" {
				ctx := logger.WithRequestID(c.Request().Context(), id)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// RequestLogger logs one line per request through zap.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				logger.StringField("method", v.Method),
				logger.StringField("uri", v.URI),
				logger.IntField("status", v.Status),
				logger.Field("latency", v.Latency),
				logger.StringField("request_id", v.RequestID),
				logger.StringField("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				log.Warn("Request completed with error", append(fields, logger.ErrorField(v.Error))...)
				return nil
			}
			log.Info("Request completed", fields...)
			return nil
		},
	})
}
