package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/initiatives-platform/identity/internal/core/domain"
	"github.com/initiatives-platform/identity/internal/core/ports"
)

type AuthorityHandler struct {
	authorities ports.AuthorityService
}

func NewAuthorityHandler(authorities ports.AuthorityService) *AuthorityHandler {
	return &AuthorityHandler{authorities: authorities}
}

type authorityRequest struct {
	Name string `json:"name" validate:"required"`
}

// FindAll lists every authority.
//
// @Summary      List authorities
// @Tags         authorities
// @Produce      json
// @Success      200  {array}  domain.Authority
// @Router       /api/authorities [get]
func (h *AuthorityHandler) FindAll(c echo.Context) error {
	authorities, err := h.authorities.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authorities)
}

// Create registers a new authority.
//
// @Summary      Create an authority
// @Tags         authorities
// @Accept       json
// @Produce      json
// @Param        body  body      authorityRequest  true  "Authority name"
// @Success      201   {object}  domain.Authority
// @Failure      409   {object}  map[string]string
// @Router       /api/authorities [post]
func (h *AuthorityHandler) Create(c echo.Context) error {
	var req authorityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.authorities.Create(c.Request().Context(), &domain.Authority{Name: req.Name})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}
