package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/project-registry/internal/api/handler"
	"github.com/99minutos/project-registry/internal/core/domain"
)

const headerRetryAfter = "Retry-After"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders validation failures as the 422 envelope.
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			log.Error().
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Msg(ve.Message)
			writeJSON(c, http.StatusUnprocessableEntity, handler.ValidationErrorResponse{
				StatusCode: handler.ValidationStatusCode,
				Message:    ve.Message,
				Data:       nil,
			})
			return
		}

		code, msg := resolveError(err, log, c)
		writeJSON(c, code, handler.ErrorResponse{Detail: msg})
	}
}

func writeJSON(c echo.Context, code int, body any) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (404 from router, 405, CORS, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var locked *domain.LockedError
	if errors.As(err, &locked) && locked.RetryAfterSeconds > 0 {
		c.Response().Header().Set(headerRetryAfter, strconv.Itoa(locked.RetryAfterSeconds))
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrMissingToken):
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrOwnerNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrAccountLocked):
		return http.StatusTooManyRequests, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
