package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/project-registry/internal/api/handler"
	"github.com/99minutos/project-registry/internal/api/metrics"
	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

// Auth resolves the bearer token to a user and stores it under
// handler.UserContextKey. Failures are returned as domain errors so the
// central error handler renders them. Presented tokens that fail
// verification are audited; a missing header is not.
func Auth(auth ports.AuthService, auditor ports.Auditor, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				m.TokenRejected("missing")
				return domain.ErrMissingToken
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				m.TokenRejected("missing")
				return domain.ErrMissingToken
			}

			user, err := auth.CurrentUser(c.Request().Context(), token)
			if err != nil {
				reason := ""
				switch {
				case errors.Is(err, domain.ErrUserNotFound):
					reason = "unknown_user"
				case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrMissingToken):
					reason = "invalid"
				}
				if reason != "" {
					m.TokenRejected(reason)
					auditRejection(c, auditor, reason)
				}
				return err
			}

			c.Set(handler.UserContextKey, user)
			return next(c)
		}
	}
}

func auditRejection(c echo.Context, auditor ports.Auditor, reason string) {
	if auditor == nil {
		return
	}
	auditor.Enqueue(domain.AuditEvent{
		Action:    domain.AuditTokenRejected,
		IP:        c.RealIP(),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		Detail:    reason,
	})
}
