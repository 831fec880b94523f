package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agx/bookmyseat/internal/model"
	"github.com/agx/bookmyseat/internal/repository"
)

// TheaterHandler serves theaters and their screens.
type TheaterHandler struct {
	Theaters *repository.TheaterRepo
	Screens  *repository.ScreenRepo
}

func NewTheaterHandler(theaters *repository.TheaterRepo, screens *repository.ScreenRepo) *TheaterHandler {
	if theaters == nil || screens == nil {
		panic("nil repository passed to NewTheaterHandler")
	}
	return &TheaterHandler{Theaters: theaters, Screens: screens}
}

// Create handles POST /v1/theaters.
func (h *TheaterHandler) Create(c echo.Context) error {
	var body struct {
		Name    string `json:"name"`
		Branch  string `json:"branch"`
		City    string `json:"city"`
		Address string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	city := strings.TrimSpace(body.City)
	if name == "" || city == "" {
		return badRequest(c, "name and city are required")
	}
	t := &model.Theater{
		Name:    name,
		Branch:  strings.TrimSpace(body.Branch),
		City:    city,
		Address: strings.TrimSpace(body.Address),
	}
	if err := h.Theaters.Create(c.Request().Context(), t); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// Get handles GET /v1/theaters/:id.
func (h *TheaterHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	t, err := h.Theaters.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// List handles GET /v1/theaters with an optional city filter.
func (h *TheaterHandler) List(c echo.Context) error {
	items, err := h.Theaters.List(c.Request().Context(), strings.TrimSpace(c.QueryParam("city")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/theaters/:id.
func (h *TheaterHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var body struct {
		Name    string `json:"name"`
		Branch  string `json:"branch"`
		City    string `json:"city"`
		Address string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	city := strings.TrimSpace(body.City)
	if name == "" || city == "" {
		return badRequest(c, "name and city are required")
	}
	t := &model.Theater{
		ID:      id,
		Name:    name,
		Branch:  strings.TrimSpace(body.Branch),
		City:    city,
		Address: strings.TrimSpace(body.Address),
	}
	if err := h.Theaters.Update(c.Request().Context(), t); err != nil {
		return writeError(c, err)
	}
	updated, err := h.Theaters.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/theaters/:id.
func (h *TheaterHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.Theaters.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateScreen handles POST /v1/theaters/:id/screens.
func (h *TheaterHandler) CreateScreen(c echo.Context) error {
	theaterID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return badRequest(c, "name is required")
	}
	if _, err := h.Theaters.GetByID(c.Request().Context(), theaterID); err != nil {
		return writeError(c, err)
	}
	s := &model.Screen{TheaterID: theaterID, Name: name}
	if err := h.Screens.Create(c.Request().Context(), s); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// ListScreens handles GET /v1/theaters/:id/screens.
func (h *TheaterHandler) ListScreens(c echo.Context) error {
	theaterID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	items, err := h.Screens.ListByTheater(c.Request().Context(), theaterID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetScreen handles GET /v1/screens/:id.
func (h *TheaterHandler) GetScreen(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	s, err := h.Screens.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteScreen handles DELETE /v1/screens/:id.
func (h *TheaterHandler) DeleteScreen(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.Screens.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
