// Package handler exposes the HTTP handlers of the booking service.  This
// file holds the unauthenticated browse API: the show list, show details
// and the seat grid patrons pick from.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rangbhumi-booking/internal/booking"
	"github.com/iliyamo/rangbhumi-booking/internal/catalog"
	"github.com/iliyamo/rangbhumi-booking/internal/model"
	"github.com/iliyamo/rangbhumi-booking/internal/pricing"
)

// PublicHandler serves catalog and availability data to guests.
type PublicHandler struct {
	Catalog  *catalog.Catalog
	Engine   *booking.Engine
	Layout   model.Layout
	Pricing  pricing.Policy
	Location *time.Location   // zone show times are written in; nil means local
	Now      func() time.Time // nil means time.Now
}

// PublicShow is a show as listed to patrons.  CountdownSeconds is relative
// to the response's generated_at and is zero once the show has started.
type PublicShow struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	DateTime         string    `json:"datetime"`
	Image            string    `json:"image,omitempty"`
	StartsAt         time.Time `json:"starts_at"`
	CountdownSeconds int64     `json:"countdown_seconds"`
}

// SeatView is one cell of the seat grid.
type SeatView struct {
	Code   string           `json:"code"`
	Status model.SeatStatus `json:"status"`
}

// RowView is one row of the seat grid.
type RowView struct {
	Label string     `json:"label"`
	VIP   bool       `json:"vip"`
	Price int        `json:"price"`
	Seats []SeatView `json:"seats"`
}

func (h *PublicHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *PublicHandler) publicShow(s model.Show, now time.Time) PublicShow {
	out := PublicShow{ID: s.ID, Title: s.Title, Description: s.Description, DateTime: s.DateTime, Image: s.Image}
	loc := h.Location
	if loc == nil {
		loc = time.Local
	}
	// catalog entries were validated on load
	if t, err := s.StartsAt(loc); err == nil {
		out.StartsAt = t
		if d := t.Sub(now); d > 0 {
			out.CountdownSeconds = int64(d / time.Second)
		}
	}
	return out
}

// ListShows handles GET /v1/shows.
func (h *PublicHandler) ListShows(c echo.Context) error {
	now := h.now()
	shows := h.Catalog.List()
	out := make([]PublicShow, 0, len(shows))
	for _, s := range shows {
		out = append(out, h.publicShow(s, now))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out, "generated_at": now.UTC()})
}

// GetShow handles GET /v1/shows/:id.
func (h *PublicHandler) GetShow(c echo.Context) error {
	id, ok := parseShowID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s, err := h.Catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalog error"})
	}
	return c.JSON(http.StatusOK, h.publicShow(s, h.now()))
}

// GetSeats handles GET /v1/shows/:id/seats.  The grid is read from the
// seat store, so it reflects every committed booking.
func (h *PublicHandler) GetSeats(c echo.Context) error {
	id, ok := parseShowID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	seats, err := h.Engine.SeatMap(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}

	rows := make([]RowView, 0, h.Layout.Rows)
	available := 0
	for _, label := range h.Layout.RowLabels() {
		first := model.SeatCode(label, 1)
		row := RowView{Label: label, VIP: h.Pricing.IsVIP(first), Price: h.Pricing.Price(first)}
		for col := 1; col <= h.Layout.Cols; col++ {
			code := model.SeatCode(label, col)
			st := seats[code]
			if st == model.SeatAvailable {
				available++
			}
			row.Seats = append(row.Seats, SeatView{Code: code, Status: st})
		}
		rows = append(rows, row)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show_id":   id,
		"rows":      rows,
		"cols":      h.Layout.Cols,
		"vip_rows":  h.Pricing.Rows(h.Layout),
		"available": available,
		"prices":    echo.Map{"normal": h.Pricing.NormalPrice, "vip": h.Pricing.VIPPrice},
	})
}
