package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agx/bookmyseat/internal/repository"
	"github.com/agx/bookmyseat/internal/service"
)

// ShowtimeHandler serves showtime scheduling and seat browsing.  Writes go
// through the scheduler so the overlap invariant and grid materialization
// hold; reads go straight to the repositories.
type ShowtimeHandler struct {
	Scheduler *service.Scheduler
	Inventory *service.SeatInventory
	Showtimes *repository.ShowtimeRepo
}

func NewShowtimeHandler(scheduler *service.Scheduler, inventory *service.SeatInventory, showtimes *repository.ShowtimeRepo) *ShowtimeHandler {
	if scheduler == nil || inventory == nil || showtimes == nil {
		panic("nil dependency passed to NewShowtimeHandler")
	}
	return &ShowtimeHandler{Scheduler: scheduler, Inventory: inventory, Showtimes: showtimes}
}

// Create handles POST /v1/showtimes.  The end time is derived from the
// movie's duration; the client only supplies the start.
func (h *ShowtimeHandler) Create(c echo.Context) error {
	var body struct {
		MovieID  uint64 `json:"movie_id"`
		ScreenID uint64 `json:"screen_id"`
		StartsAt string `json:"starts_at"` // RFC3339
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.MovieID == 0 || body.ScreenID == 0 {
		return badRequest(c, "movie_id and screen_id are required")
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return badRequest(c, "starts_at must be RFC3339")
	}
	st, err := h.Scheduler.CreateShowtime(c.Request().Context(), body.MovieID, body.ScreenID, startsAt)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, st)
}

// Get handles GET /v1/showtimes/:id.
func (h *ShowtimeHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	st, err := h.Showtimes.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// List handles GET /v1/showtimes with optional movie_id, screen_id,
// theater_id and date (YYYY-MM-DD, UTC day) filters.
func (h *ShowtimeHandler) List(c echo.Context) error {
	var f repository.ShowtimeFilter
	var err error
	if f.MovieID, _, err = parseUintQuery(c, "movie_id"); err != nil {
		return badRequest(c, "invalid movie_id")
	}
	if f.ScreenID, _, err = parseUintQuery(c, "screen_id"); err != nil {
		return badRequest(c, "invalid screen_id")
	}
	if f.TheaterID, _, err = parseUintQuery(c, "theater_id"); err != nil {
		return badRequest(c, "invalid theater_id")
	}
	if raw := c.QueryParam("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(c, "date must be YYYY-MM-DD")
		}
		f.Date = day
	}
	items, err := h.Showtimes.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListByMovie handles GET /v1/movies/:id/showtimes, returning only upcoming
// showtimes for the movie.
func (h *ShowtimeHandler) ListByMovie(c echo.Context) error {
	movieID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	items, err := h.Showtimes.ListUpcomingByMovie(c.Request().Context(), movieID, time.Now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Delete handles DELETE /v1/showtimes/:id.  Seats and their booking links
// are removed with the showtime.
func (h *ShowtimeHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.Scheduler.DeleteShowtime(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSeats handles GET /v1/showtimes/:id/seats.
func (h *ShowtimeHandler) ListSeats(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	seats, err := h.Inventory.ListSeats(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}

// ListAvailableSeats handles GET /v1/showtimes/:id/seats/available.
func (h *ShowtimeHandler) ListAvailableSeats(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	seats, err := h.Inventory.ListAvailableSeats(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}
