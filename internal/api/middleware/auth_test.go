package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "clientSecret"

func signedToken(t *testing.T, authorities []string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":         "alice",
		"authorities": authorities,
		"exp":         time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, header string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return c, Auth(testSecret)(next)(c)
}

func TestAuth_ValidTokenInjectsClaims(t *testing.T) {
	c, err := runAuth(t, "Bearer "+signedToken(t, []string{"ROLE_USER", "ROLE_ADMIN"}))
	if err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if c.Get("username") != "alice" {
		t.Fatalf("expected username claim, got %v", c.Get("username"))
	}
	authorities, _ := c.Get("authorities").([]string)
	if len(authorities) != 2 || authorities[1] != "ROLE_ADMIN" {
		t.Fatalf("unexpected authorities: %v", authorities)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, err := runAuth(t, "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_WrongScheme(t *testing.T) {
	_, err := runAuth(t, "Basic abc")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_BadSignature(t *testing.T) {
	claims := jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(time.Hour).Unix()}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))

	_, err := runAuth(t, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
