package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/initiatives-platform/identity/internal/core/domain"
)

func newUserContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUserHandler_Create_HashesPassword(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	users := &stubUserService{
		createFn: func(_ context.Context, user *domain.User) (*domain.User, error) {
			if user.Password != "hashed:s3cret" {
				t.Fatalf("expected encoded password, got %q", user.Password)
			}
			created := *user
			created.ID = 1
			created.Authorities = []domain.Authority{{ID: 1, Name: "ROLE_USER"}}
			return &created, nil
		},
	}
	h := NewUserHandler(users, stubEncoder{})

	c, rec := newUserContext(e, http.MethodPost, "/api/users",
		`{"username":"alice","password":"s3cret","email":"alice@example.com"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["password"]; leaked {
		t.Fatalf("password must not be serialized")
	}
}

func TestUserHandler_Create_InvalidEmail(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewUserHandler(&stubUserService{}, stubEncoder{})

	c, _ := newUserContext(e, http.MethodPost, "/api/users",
		`{"username":"alice","password":"s3cret","email":"not-an-email"}`)
	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_Create_ConflictPropagated(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	users := &stubUserService{
		createFn: func(context.Context, *domain.User) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	h := NewUserHandler(users, stubEncoder{})

	c, _ := newUserContext(e, http.MethodPost, "/api/users",
		`{"username":"alice","password":"s3cret"}`)
	if err := h.Create(c); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken to propagate, got %v", err)
	}
}

func TestUserHandler_Edit_BlankPasswordStaysBlank(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	users := &stubUserService{
		editFn: func(_ context.Context, id int64, user *domain.User) (*domain.User, error) {
			if id != 7 {
				t.Fatalf("unexpected id: %d", id)
			}
			if user.Password != "" {
				t.Fatalf("blank password must stay blank, got %q", user.Password)
			}
			user.ID = id
			return user, nil
		},
	}
	h := NewUserHandler(users, stubEncoder{})

	c, rec := newUserContext(e, http.MethodPut, "/api/users/7", `{"username":"alice"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := h.Edit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_FindByID_NotFoundPropagated(t *testing.T) {
	e := echo.New()
	users := &stubUserService{
		findByIDFn: func(context.Context, int64) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(users, stubEncoder{})

	c, _ := newUserContext(e, http.MethodGet, "/api/users/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	if err := h.FindByID(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound to propagate, got %v", err)
	}
}

func TestUserHandler_Delete_NoContent(t *testing.T) {
	e := echo.New()
	users := &stubUserService{
		deleteFn: func(_ context.Context, id int64) error {
			if id != 3 {
				t.Fatalf("unexpected id: %d", id)
			}
			return nil
		},
	}
	h := NewUserHandler(users, stubEncoder{})

	c, rec := newUserContext(e, http.MethodDelete, "/api/users/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestUserHandler_FindAuthorities(t *testing.T) {
	e := echo.New()
	users := &stubUserService{
		findAuthoritiesFn: func(context.Context, int64) ([]domain.Authority, error) {
			return []domain.Authority{{ID: 1, Name: "ROLE_USER"}, {ID: 2, Name: "ROLE_ADMIN"}}, nil
		},
	}
	h := NewUserHandler(users, stubEncoder{})

	c, rec := newUserContext(e, http.MethodGet, "/api/users/1/authorities", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.FindAuthorities(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var authorities []domain.Authority
	if err := json.Unmarshal(rec.Body.Bytes(), &authorities); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(authorities) != 2 {
		t.Fatalf("expected 2 authorities, got %+v", authorities)
	}
}

func TestUserHandler_InvalidID(t *testing.T) {
	e := echo.New()
	h := NewUserHandler(&stubUserService{}, stubEncoder{})

	c, _ := newUserContext(e, http.MethodGet, "/api/users/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	err := h.FindByID(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
