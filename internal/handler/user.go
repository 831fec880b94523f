package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agx/bookmyseat/internal/model"
	"github.com/agx/bookmyseat/internal/repository"
	"github.com/agx/bookmyseat/internal/utils"
)

// UserHandler registers and looks up customers.
type UserHandler struct {
	Users      *repository.UserRepo
	BcryptCost int
}

func NewUserHandler(users *repository.UserRepo, bcryptCost int) *UserHandler {
	if users == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Users: users, BcryptCost: bcryptCost}
}

// Create handles POST /v1/users.
func (h *UserHandler) Create(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	email := strings.TrimSpace(body.Email)
	if name == "" || email == "" {
		return badRequest(c, "name and email are required")
	}
	if len(body.Password) < 8 {
		return badRequest(c, "password must be at least 8 characters")
	}
	hash, err := utils.HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		return writeError(c, err)
	}
	u := &model.User{Name: name, Email: email, PasswordHash: hash}
	if err := h.Users.Create(c.Request().Context(), u); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// Get handles GET /v1/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// List handles GET /v1/users, with an optional exact email lookup.
func (h *UserHandler) List(c echo.Context) error {
	if email := strings.TrimSpace(c.QueryParam("email")); email != "" {
		u, err := h.Users.GetByEmail(c.Request().Context(), email)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": []*model.User{u}})
	}
	items, err := h.Users.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Delete handles DELETE /v1/users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
