package middleware

import "github.com/labstack/echo/v4"

const (
	HeaderTotalCount = "X-Total-Count"
	totalCountValue  = "30"
)

// TotalCount stamps every response with a fixed X-Total-Count and exposes it
// to browsers. Headers are set before next runs so error responses, CORS
// preflights and 404s carry them too.
func TotalCount() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(HeaderTotalCount, totalCountValue)
			h.Set(echo.HeaderAccessControlExposeHeaders, HeaderTotalCount)
			return next(c)
		}
	}
}
