package handler

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/initiatives-platform/identity/internal/core/domain"
	"github.com/initiatives-platform/identity/internal/core/ports"
)

// TokenHandler hosts the /oauth/token password-grant endpoint the broker
// calls. Client credentials arrive either in a Basic header or as the
// `client_id`/`secret` parameters; both are accepted, the broker sends both.
type TokenHandler struct {
	users        ports.UserService
	encoder      ports.PasswordEncoder
	clientID     string
	clientSecret string
	tokenTTL     time.Duration
}

func NewTokenHandler(users ports.UserService, encoder ports.PasswordEncoder, clientID, clientSecret string, tokenTTL time.Duration) *TokenHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &TokenHandler{
		users:        users,
		encoder:      encoder,
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenTTL:     tokenTTL,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

type oauthError struct {
	Error string `json:"error"`
}

// Token implements the password grant.
//
// @Summary      Issue an access token (password grant)
// @Tags         oauth
// @Produce      json
// @Success      200  {object}  tokenResponse
// @Failure      400  {object}  oauthError
// @Failure      401  {object}  oauthError
// @Router       /oauth/token [post]
func (h *TokenHandler) Token(c echo.Context) error {
	if param(c, "grant_type") != "password" {
		return c.JSON(http.StatusBadRequest, oauthError{Error: "unsupported_grant_type"})
	}
	if !h.validClient(c) {
		return c.JSON(http.StatusUnauthorized, oauthError{Error: "invalid_client"})
	}

	username := param(c, "username")
	password := param(c, "password")
	principal, err := h.users.LoadUserByUsername(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, oauthError{Error: "invalid_grant"})
		}
		return err
	}
	if !h.encoder.Matches(principal.Password, password) {
		return c.JSON(http.StatusUnauthorized, oauthError{Error: "invalid_grant"})
	}

	token, err := h.issueToken(principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.tokenTTL.Seconds()),
		Scope:       param(c, "scope"),
	})
}

func (h *TokenHandler) issueToken(principal *domain.Principal) (string, error) {
	claims := jwt.MapClaims{
		"sub":         principal.Username,
		"authorities": principal.Authorities,
		"exp":         time.Now().Add(h.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(h.clientSecret))
}

// validClient checks the Basic header first, then the query parameters.
func (h *TokenHandler) validClient(c echo.Context) bool {
	if id, secret, ok := basicCredentials(c.Request().Header.Get("Authorization")); ok {
		return h.matchClient(id, secret)
	}
	return h.matchClient(param(c, "client_id"), param(c, "secret"))
}

func (h *TokenHandler) matchClient(id, secret string) bool {
	idOK := subtle.ConstantTimeCompare([]byte(id), []byte(h.clientID)) == 1
	secretOK := subtle.ConstantTimeCompare([]byte(secret), []byte(h.clientSecret)) == 1
	return idOK && secretOK
}

func basicCredentials(header string) (id, secret string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return "", "", false
	}
	id, secret, ok = strings.Cut(string(raw), ":")
	return id, secret, ok
}

// param reads a request value from the query string or the form body.
func param(c echo.Context, name string) string {
	if v := c.QueryParam(name); v != "" {
		return v
	}
	return c.FormValue(name)
}
