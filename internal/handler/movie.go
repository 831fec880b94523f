package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agx/bookmyseat/internal/model"
	"github.com/agx/bookmyseat/internal/repository"
)

// MovieHandler serves the movie catalog.
type MovieHandler struct {
	Movies *repository.MovieRepo
}

func NewMovieHandler(movies *repository.MovieRepo) *MovieHandler {
	if movies == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies}
}

type movieRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	DurationMins uint32 `json:"duration_mins"`
	ReleaseDate  string `json:"release_date"` // YYYY-MM-DD
	Genre        string `json:"genre"`
}

func (b movieRequest) toModel() (*model.Movie, string) {
	title := strings.TrimSpace(b.Title)
	if title == "" {
		return nil, "title is required"
	}
	if b.DurationMins == 0 {
		return nil, "duration_mins must be positive"
	}
	released, err := time.Parse("2006-01-02", b.ReleaseDate)
	if err != nil {
		return nil, "release_date must be YYYY-MM-DD"
	}
	return &model.Movie{
		Title:        title,
		Description:  strings.TrimSpace(b.Description),
		DurationMins: b.DurationMins,
		ReleaseDate:  released,
		Genre:        strings.TrimSpace(b.Genre),
	}, ""
}

// Create handles POST /v1/movies.
func (h *MovieHandler) Create(c echo.Context) error {
	var body movieRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	m, msg := body.toModel()
	if msg != "" {
		return badRequest(c, msg)
	}
	if err := h.Movies.Create(c.Request().Context(), m); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// List handles GET /v1/movies with optional genre, title and released_after
// query filters.
func (h *MovieHandler) List(c echo.Context) error {
	f := repository.MovieFilter{
		Genre: strings.TrimSpace(c.QueryParam("genre")),
		Title: strings.TrimSpace(c.QueryParam("title")),
	}
	if raw := c.QueryParam("released_after"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(c, "released_after must be YYYY-MM-DD")
		}
		f.ReleasedAfter = t
	}
	items, err := h.Movies.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/movies/:id.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var body movieRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	m, msg := body.toModel()
	if msg != "" {
		return badRequest(c, msg)
	}
	m.ID = id
	if err := h.Movies.Update(c.Request().Context(), m); err != nil {
		return writeError(c, err)
	}
	updated, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/movies/:id.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// parse helpers shared with other handlers.
func parseUintQuery(c echo.Context, name string) (uint64, bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
