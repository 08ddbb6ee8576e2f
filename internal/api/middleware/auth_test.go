package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/project-registry/internal/api/handler"
	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

type stubAuthService struct {
	currentFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthService) Login(context.Context, string, string) (*domain.Token, error) {
	return nil, errors.New("not used")
}

func (s *stubAuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.currentFn(ctx, token)
}

type recordingAuditor struct {
	events []domain.AuditEvent
}

func (r *recordingAuditor) Enqueue(event domain.AuditEvent) {
	r.events = append(r.events, event)
}

func runAuth(t *testing.T, header string, svc *stubAuthService) (echo.Context, error, bool) {
	return runAuthAudited(t, header, svc, nil)
}

func runAuthAudited(t *testing.T, header string, svc *stubAuthService, auditor *recordingAuditor) (echo.Context, error, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/current", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var a ports.Auditor
	if auditor != nil {
		a = auditor
	}

	called := false
	err := Auth(svc, a, nil)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, err, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	svc := &stubAuthService{currentFn: func(_ context.Context, token string) (*domain.User, error) {
		if token != "good" {
			t.Fatalf("unexpected token %q", token)
		}
		return &domain.User{ID: 3, Username: "alice"}, nil
	}}

	c, err, called := runAuth(t, "Bearer good", svc)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	user, ok := c.Get(handler.UserContextKey).(*domain.User)
	if !ok || user.Username != "alice" {
		t.Fatalf("user not set on context: %#v", c.Get(handler.UserContextKey))
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	svc := &stubAuthService{currentFn: func(context.Context, string) (*domain.User, error) {
		return &domain.User{ID: 1}, nil
	}}

	_, err, called := runAuth(t, "bearer good", svc)
	if err != nil || !called {
		t.Fatalf("expected pass-through, err=%v called=%v", err, called)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	invalid := &stubAuthService{currentFn: func(context.Context, string) (*domain.User, error) {
		return nil, domain.ErrInvalidToken
	}}
	gone := &stubAuthService{currentFn: func(context.Context, string) (*domain.User, error) {
		return nil, domain.ErrUserNotFound
	}}

	tests := []struct {
		name   string
		header string
		svc    *stubAuthService
		want   error
	}{
		{name: "missing header", header: "", svc: invalid, want: domain.ErrMissingToken},
		{name: "wrong scheme", header: "Token abc", svc: invalid, want: domain.ErrMissingToken},
		{name: "empty token", header: "Bearer ", svc: invalid, want: domain.ErrMissingToken},
		{name: "invalid token", header: "Bearer not-a-token", svc: invalid, want: domain.ErrInvalidToken},
		{name: "deleted user", header: "Bearer good", svc: gone, want: domain.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err, called := runAuth(t, tt.header, tt.svc)
			if called {
				t.Fatalf("should not reach next")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthMiddleware_AuditsRejectedTokens(t *testing.T) {
	invalid := &stubAuthService{currentFn: func(context.Context, string) (*domain.User, error) {
		return nil, domain.ErrInvalidToken
	}}
	auditor := &recordingAuditor{}

	runAuthAudited(t, "", invalid, auditor)
	if len(auditor.events) != 0 {
		t.Fatalf("missing header should not be audited, got %d events", len(auditor.events))
	}

	runAuthAudited(t, "Bearer forged", invalid, auditor)
	if len(auditor.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(auditor.events))
	}
	ev := auditor.events[0]
	if ev.Action != domain.AuditTokenRejected || ev.Detail != "invalid" || ev.Success {
		t.Fatalf("unexpected event %+v", ev)
	}
}
