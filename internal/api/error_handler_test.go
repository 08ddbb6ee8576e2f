package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/project-registry/internal/core/domain"
)

func handle(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)
	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestErrorHandler_ValidationEnvelope(t *testing.T) {
	rec := handle(t, domain.NewValidationError("name field required"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"status_code":10422,"message":"name field required","data":null}`, rec.Body.String())
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrMissingToken, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrProjectNotFound, http.StatusNotFound},
		{fmt.Errorf("create project: %w", domain.ErrOwnerNotFound), http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
		{&domain.LockedError{RetryAfterSeconds: 42}, http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := handle(t, tt.err)
			assert.Equal(t, tt.code, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.err.Error(), body["detail"])
		})
	}
}

func TestErrorHandler_AuthHeaders(t *testing.T) {
	rec := handle(t, domain.ErrInvalidToken)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))

	rec = handle(t, &domain.LockedError{RetryAfterSeconds: 42})
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
}

func TestErrorHandler_EchoError(t *testing.T) {
	rec := handle(t, echo.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())
}

func TestErrorHandler_UnexpectedErrorIsHidden(t *testing.T) {
	rec := handle(t, errors.New("pq: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"internal server error"}`, rec.Body.String())
}

func TestErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrForbidden, c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
