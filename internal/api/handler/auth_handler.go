package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/project-registry/internal/api/metrics"
	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	auditor     ports.Auditor
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService ports.AuthService, auditor ports.Auditor, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, auditor: auditor, metrics: m}
}

// Root answers GET /.
//
// @Summary      Root page
// @Tags         meta
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       / [get]
func (h *AuthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "root page"})
}

// Login exchanges form credentials for a bearer token.
//
// @Summary      Issue an access token
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username    formData  string  true   "Username"
// @Param        password    formData  string  true   "Password"
// @Param        grant_type  formData  string  false  "Must be \"password\" when present"
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      422  {object}  ValidationErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Router       /token [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req tokenRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	h.recordLogin(c, req.Username, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	})
}

// Current returns the user the bearer token was issued for.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /current [get]
func (h *AuthHandler) Current(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) recordLogin(c echo.Context, username string, err error) {
	result := metrics.LoginSuccess
	detail := ""
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAccountLocked):
		result, detail = metrics.LoginLocked, "locked"
	case errors.Is(err, domain.ErrInvalidCredentials):
		result, detail = metrics.LoginFailure, "invalid credentials"
	default:
		return
	}
	h.metrics.Login(result)

	if h.auditor == nil {
		return
	}
	ip, requestID := requestInfo(c)
	h.auditor.Enqueue(domain.AuditEvent{
		Action:    domain.AuditLogin,
		Username:  username,
		Success:   err == nil,
		IP:        ip,
		RequestID: requestID,
		Detail:    detail,
	})
}
