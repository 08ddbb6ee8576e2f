package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/project-registry/internal/core/domain"
)

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestAuthHandler_Root(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := NewAuthHandler(nil, nil, nil).Root(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"message":"root page"}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*domain.Token, error) {
			if username != "alice" || password != "s3cret-pass" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.Token{AccessToken: "jwt", TokenType: domain.TokenTypeBearer}, nil
		},
	}
	auditor := &recordingAuditor{}
	h := NewAuthHandler(stub, auditor, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/token", url.Values{
		"username":   {"alice"},
		"password":   {"s3cret-pass"},
		"grant_type": {"password"},
	}), rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "jwt" || resp["token_type"] != "bearer" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	events := auditor.all()
	if len(events) != 1 || !events[0].Success || events[0].Action != domain.AuditLogin {
		t.Fatalf("unexpected audit events: %+v", events)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.Token, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	auditor := &recordingAuditor{}
	h := NewAuthHandler(stub, auditor, nil)

	c := e.NewContext(formRequest("/token", url.Values{
		"username": {"alice"},
		"password": {"wrong-pass"},
	}), httptest.NewRecorder())

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	events := auditor.all()
	if len(events) != 1 || events[0].Success || events[0].Username != "alice" {
		t.Fatalf("unexpected audit events: %+v", events)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.Token, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}, nil, nil)

	c := e.NewContext(formRequest("/token", url.Values{"username": {"alice"}}), httptest.NewRecorder())

	var ve *domain.ValidationError
	if err := h.Login(c); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(ve.Message, "password") {
		t.Fatalf("message should name the field: %q", ve.Message)
	}
}

func TestAuthHandler_Login_BadGrantType(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, nil, nil)

	c := e.NewContext(formRequest("/token", url.Values{
		"username":   {"alice"},
		"password":   {"s3cret-pass"},
		"grant_type": {"client_credentials"},
	}), httptest.NewRecorder())

	var ve *domain.ValidationError
	if err := h.Login(c); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Current(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/current", nil), rec)
	c.Set(UserContextKey, &domain.User{ID: 4, Username: "dana", HashedPassword: "secret-hash"})

	if err := NewAuthHandler(nil, nil, nil).Current(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "dana" || resp["id"] != float64(4) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Current_NoUser(t *testing.T) {
	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/current", nil), httptest.NewRecorder())

	if err := NewAuthHandler(nil, nil, nil).Current(c); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}
