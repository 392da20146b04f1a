package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rangbhumi-booking/internal/booking"
	"github.com/iliyamo/rangbhumi-booking/internal/logger"
	"github.com/iliyamo/rangbhumi-booking/internal/model"
	"github.com/iliyamo/rangbhumi-booking/internal/ticket"
)

// Response headers describing the booking behind a ticket response.
const (
	HeaderBookingID        = "X-Booking-Id"
	HeaderBookingCommitted = "X-Booking-Committed"
)

// TicketRenderer turns a committed booking into a ticket.
// *ticket.Generator satisfies it.
type TicketRenderer interface {
	Render(b model.Booking) (*ticket.Artifact, error)
}

// BookingHandler serves the booking endpoint.
type BookingHandler struct {
	Engine  *booking.Engine
	Tickets TicketRenderer
}

// Book handles POST /v1/book.  The form carries show_id, name, email and
// seats (comma separated).  On success the response body is the ticket PDF.
func (h *BookingHandler) Book(c echo.Context) error {
	showID, err := strconv.Atoi(strings.TrimSpace(c.FormValue("show_id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_show_id", "message": "show_id must be a number"})
	}
	req := booking.Request{
		ShowID:      showID,
		PatronName:  c.FormValue("name"),
		PatronEmail: c.FormValue("email"),
		SeatCodes:   booking.ParseSeatCodes(c.FormValue("seats")),
	}

	b, err := h.Engine.Book(c.Request().Context(), req)
	if err != nil {
		return bookingError(c, err)
	}
	return h.sendTicket(c, *b)
}

// sendTicket renders b and writes it as a PDF attachment.  A render
// failure still reports the booking, which stays committed.
func (h *BookingHandler) sendTicket(c echo.Context, b model.Booking) error {
	c.Response().Header().Set(HeaderBookingID, b.ID)
	art, err := h.Tickets.Render(b)
	if err != nil {
		logger.WithContext(c.Request().Context()).Error("ticket render failed after commit",
			"booking_id", b.ID, "show_id", b.Show.ID, "seats", strings.Join(b.Seats, ","), "error", err)
		c.Response().Header().Set(HeaderBookingCommitted, "true")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":      "ticket_render_failed",
			"message":    "Your seats are booked but the ticket could not be generated. Quote the booking id to the box office.",
			"booking_id": b.ID,
			"seats":      b.Seats,
			"total":      b.Total,
		})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", ticket.Filename))
	return c.Blob(http.StatusOK, "application/pdf", art.Document)
}

// bookingError maps engine errors to HTTP responses.
func bookingError(c echo.Context, err error) error {
	if be, ok := booking.AsError(err); ok {
		status := http.StatusBadRequest
		if be.Kind == booking.KindShowNotFound {
			status = http.StatusNotFound
		}
		body := echo.Map{"error": string(be.Kind), "message": be.Error()}
		if be.Seat != "" {
			body["seat"] = be.Seat
		}
		return c.JSON(status, body)
	}
	if errors.Is(err, booking.ErrBookingHalted) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking_halted", "message": "Booking is temporarily unavailable"})
	}
	logger.WithContext(c.Request().Context()).Error("booking failed", "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "persistence_error", "message": "Booking could not be saved; no seats were booked"})
}

func parseShowID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil && id > 0
}
