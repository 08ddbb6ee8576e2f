package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/project-registry/internal/core/domain"
)

// UserContextKey is where the bearer middleware stores the resolved *domain.User.
const UserContextKey = "user"

// currentUser returns the user attached by the bearer middleware. A missing
// user means the route was mounted without it.
func currentUser(c echo.Context) (*domain.User, error) {
	u, ok := c.Get(UserContextKey).(*domain.User)
	if !ok || u == nil {
		return nil, domain.ErrMissingToken
	}
	return u, nil
}

// requestInfo extracts the caller's address and request id for audit events.
func requestInfo(c echo.Context) (ip, requestID string) {
	requestID = c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = c.Request().Header.Get(echo.HeaderXRequestID)
	}
	return c.RealIP(), requestID
}
