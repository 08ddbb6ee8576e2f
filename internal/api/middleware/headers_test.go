package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestTotalCount_SetBeforeHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := TotalCount()(func(c echo.Context) error {
		return echo.ErrNotFound
	})(c)
	if err == nil {
		t.Fatalf("expected handler error to propagate")
	}

	if got := rec.Header().Get(HeaderTotalCount); got != "30" {
		t.Fatalf("X-Total-Count = %q, want 30", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlExposeHeaders); got != HeaderTotalCount {
		t.Fatalf("Access-Control-Expose-Headers = %q", got)
	}
}
