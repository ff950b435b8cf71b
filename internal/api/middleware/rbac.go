package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuthority rejects requests whose token carries none of the
// required authorities.
func RequireAuthority(required ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(required))
	for _, name := range required {
		allowed[name] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authorities, _ := c.Get("authorities").([]string)
			for _, name := range authorities {
				if _, ok := allowed[name]; ok {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
