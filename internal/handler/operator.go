package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rangbhumi-booking/internal/booking"
	"github.com/iliyamo/rangbhumi-booking/internal/model"
	"github.com/iliyamo/rangbhumi-booking/internal/repository"
)

// OperatorHandler serves the box office endpoints under /v1/ops.
type OperatorHandler struct {
	Engine  *booking.Engine
	Tickets TicketRenderer
}

// GetSeatStates handles GET /v1/ops/shows/:id/seats and returns the raw
// seat map with booked/available counts.
func (h *OperatorHandler) GetSeatStates(c echo.Context) error {
	id, ok := parseShowID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	seats, err := h.Engine.SeatMap(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	booked := 0
	for _, st := range seats {
		if st == model.SeatBooked {
			booked++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show_id":   id,
		"seats":     seats,
		"booked":    booked,
		"available": len(seats) - booked,
	})
}

// ReissueTicket handles POST /v1/ops/bookings/:id/ticket.  It renders the
// ticket again from the booking log, for bookings whose first render
// failed after commit.
func (h *OperatorHandler) ReissueTicket(c echo.Context) error {
	b, err := h.Engine.Lookup(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking log error"})
	}
	return (&BookingHandler{Engine: h.Engine, Tickets: h.Tickets}).sendTicket(c, *b)
}
