package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/initiatives-platform/identity/internal/core/domain"
)

func TestResolveError_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrAuthorityNotFound, http.StatusNotFound},
		{domain.ErrUsernameTaken, http.StatusConflict},
		{domain.ErrAuthorityNameTaken, http.StatusConflict},
		{domain.ErrAuthorityPresent, http.StatusConflict},
		{domain.ErrAuthorityAbsent, http.StatusConflict},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInvalidClient, http.StatusUnauthorized},
		{domain.ErrUnsupportedGrant, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		code, _ := resolveError(tc.err, zerolog.Nop(), c)
		if code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestHTTPErrorHandler_RendersEnvelope(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/users/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(domain.ErrUserNotFound, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Body.String() == "" || rec.Header().Get(echo.HeaderContentType) != echo.MIMEApplicationJSON {
		t.Fatalf("expected JSON error envelope, got %q", rec.Body.String())
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	code, msg := resolveError(echo.NewHTTPError(http.StatusTeapot, "short and stout"), zerolog.Nop(), c)
	if code != http.StatusTeapot || msg != "short and stout" {
		t.Fatalf("unexpected mapping: %d %q", code, msg)
	}
}
