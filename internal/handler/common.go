// Package handler exposes the HTTP API.  Handlers bind and validate input,
// delegate to repositories or services, and translate the domain's sentinel
// errors into HTTP status codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/agx/bookmyseat/internal/model"
)

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// writeError maps a domain error to its HTTP status.  Not-found errors
// become 404, conflicts 409 (the client may retry), invalid-state errors
// 422 (retrying cannot help), and anything unrecognized 500.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrMovieNotFound),
		errors.Is(err, model.ErrTheaterNotFound),
		errors.Is(err, model.ErrScreenNotFound),
		errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrShowtimeNotFound),
		errors.Is(err, model.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrSeatUnavailable),
		errors.Is(err, model.ErrReservationConflict),
		errors.Is(err, model.ErrScheduleConflict),
		errors.Is(err, model.ErrDuplicateEmail),
		errors.Is(err, model.ErrDuplicateTheater):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrShowtimeStarted),
		errors.Is(err, model.ErrBookingCancelled):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrNoSeatsRequested):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
