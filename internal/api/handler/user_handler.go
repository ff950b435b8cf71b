package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/initiatives-platform/identity/internal/core/domain"
	"github.com/initiatives-platform/identity/internal/core/ports"
)

// UserHandler exposes the user store as a REST resource. Domain errors are
// mapped centrally by the HTTP error handler.
type UserHandler struct {
	users   ports.UserService
	encoder ports.PasswordEncoder
}

func NewUserHandler(users ports.UserService, encoder ports.PasswordEncoder) *UserHandler {
	return &UserHandler{users: users, encoder: encoder}
}

type createUserRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
}

type editUserRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"omitempty,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// FindAll lists every user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /api/users [get]
func (h *UserHandler) FindAll(c echo.Context) error {
	users, err := h.users.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// FindByID returns a single user.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) FindByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create registers a new user; the default authority is attached by the
// store.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	hash, err := h.encoder.Encode(req.Password)
	if err != nil {
		return err
	}
	user := &domain.User{
		Username:  req.Username,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	created, err := h.users.Create(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Edit replaces a user's fields. A blank password keeps the stored one.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      editUserRequest  true  "User details"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/{id} [put]
func (h *UserHandler) Edit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req editUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := &domain.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if req.Password != "" {
		hash, err := h.encoder.Encode(req.Password)
		if err != nil {
			return err
		}
		user.Password = hash
	}
	updated, err := h.users.Edit(c.Request().Context(), id, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a user and its authority bindings.
//
// @Summary      Delete a user
// @Tags         users
// @Success      204  {string}  string  ""
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// FindAuthorities returns a user's authority set.
//
// @Summary      List a user's authorities
// @Tags         users
// @Produce      json
// @Success      200  {array}  domain.Authority
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id}/authorities [get]
func (h *UserHandler) FindAuthorities(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	authorities, err := h.users.FindAuthorities(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authorities)
}

// AddAuthority grants an authority to a user.
//
// @Summary      Grant an authority
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/users/{id}/authorities/{authorityID} [put]
func (h *UserHandler) AddAuthority(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	authorityID, err := pathID(c, "authorityID")
	if err != nil {
		return err
	}
	user, err := h.users.AddAuthority(c.Request().Context(), userID, authorityID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// RemoveAuthority revokes an authority from a user.
//
// @Summary      Revoke an authority
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/users/{id}/authorities/{authorityID} [delete]
func (h *UserHandler) RemoveAuthority(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	authorityID, err := pathID(c, "authorityID")
	if err != nil {
		return err
	}
	user, err := h.users.RemoveAuthority(c.Request().Context(), userID, authorityID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
