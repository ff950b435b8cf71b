package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/initiatives-platform/identity/internal/core/domain"
	"github.com/initiatives-platform/identity/internal/core/ports"
)

// AuthHandler fronts the sign-in flow: it verifies the caller's credentials
// against the user store, then asks the token broker for an access token.
type AuthHandler struct {
	users   ports.UserService
	tokens  ports.TokenService
	encoder ports.PasswordEncoder
}

func NewAuthHandler(users ports.UserService, tokens ports.TokenService, encoder ports.PasswordEncoder) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, encoder: encoder}
}

type signinRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignIn authenticates a user and relays the broker's token envelope.
//
// @Summary      Sign in with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Credentials"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Failure      401   {string}  string  ""
// @Router       /api/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	principal, err := h.users.LoadUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.NoContent(http.StatusUnauthorized)
		}
		return err
	}
	if !h.encoder.Matches(principal.Password, req.Password) {
		return c.NoContent(http.StatusUnauthorized)
	}

	// The broker receives the submitted password, not the stored hash; the
	// token endpoint verifies it again on its side.
	user := domain.User{Username: principal.Username, Password: req.Password}
	result := h.tokens.Authorize(ctx, user, requestURL(c))
	if !result.Authorized() {
		return c.NoContent(result.Status)
	}
	return c.JSONBlob(result.Status, result.Envelope)
}

// requestURL reconstructs the absolute URL of the inbound request.
func requestURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host + c.Request().RequestURI
}
