package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agx/bookmyseat/internal/service"
)

// BookingHandler serves booking creation, lookup and cancellation.  All
// state changes go through the booking manager so the all-or-nothing seat
// contract holds.
type BookingHandler struct {
	Manager *service.BookingManager
}

func NewBookingHandler(manager *service.BookingManager) *BookingHandler {
	if manager == nil {
		panic("nil manager passed to NewBookingHandler")
	}
	return &BookingHandler{Manager: manager}
}

// Create handles POST /v1/bookings.  On a seat conflict the client gets a
// 409 and may retry with a fresh view of availability.
func (h *BookingHandler) Create(c echo.Context) error {
	var body struct {
		UserID     uint64   `json:"user_id"`
		ShowtimeID uint64   `json:"showtime_id"`
		SeatIDs    []uint64 `json:"seat_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.UserID == 0 || body.ShowtimeID == 0 {
		return badRequest(c, "user_id and showtime_id are required")
	}
	if len(body.SeatIDs) == 0 {
		return badRequest(c, "seat_ids must not be empty")
	}
	b, err := h.Manager.CreateBooking(c.Request().Context(), body.UserID, body.ShowtimeID, body.SeatIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// Get handles GET /v1/bookings/:token.
func (h *BookingHandler) Get(c echo.Context) error {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return badRequest(c, "invalid confirmation token")
	}
	b, err := h.Manager.GetBooking(c.Request().Context(), token)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel handles DELETE /v1/bookings/:token.  The seats go back to
// available and the booking record stays with status CANCELLED.
func (h *BookingHandler) Cancel(c echo.Context) error {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return badRequest(c, "invalid confirmation token")
	}
	b, err := h.Manager.CancelBooking(c.Request().Context(), token)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// ListByUser handles GET /v1/users/:id/bookings.
func (h *BookingHandler) ListByUser(c echo.Context) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	items, err := h.Manager.ListUserBookings(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
