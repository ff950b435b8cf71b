package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Auth validates the bearer JWT issued by the token endpoint and injects
// the subject and authority claims into the request context.
func Auth(signingSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(signingSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("username", claims["sub"])
			c.Set("authorities", authorityClaims(claims))

			return next(c)
		}
	}
}

// authorityClaims normalizes the authorities claim, which arrives as
// []interface{} after JSON decoding.
func authorityClaims(claims jwt.MapClaims) []string {
	raw, ok := claims["authorities"].([]interface{})
	if !ok {
		return nil
	}
	authorities := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			authorities = append(authorities, s)
		}
	}
	return authorities
}
