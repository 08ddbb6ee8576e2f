package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/project-registry/internal/api/handler"
	"github.com/99minutos/project-registry/internal/core/domain"
)

// RequireSelf lets the request through only when the authenticated user's
// id equals the path parameter param. It must run after Auth.
func RequireSelf(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(handler.UserContextKey).(*domain.User)
			if !ok || user == nil {
				return domain.ErrMissingToken
			}

			id, err := strconv.ParseUint(c.Param(param), 10, 64)
			if err != nil || id == 0 {
				return domain.NewValidationError(param + " must be a positive integer")
			}
			if uint(id) != user.ID {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
