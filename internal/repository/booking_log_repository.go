package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

// BookingLog is an append-only record of committed bookings keyed by
// booking ID.  It is written after the seat map commit and is never
// consulted by the booking transaction itself.
type BookingLog interface {
	Append(ctx context.Context, b model.Booking, prices []int) error
	Get(ctx context.Context, id string) (*BookingRecord, error)
}

// BookingRecord is a booking as stored in the log.  The show is kept by
// ID and title only; callers re-resolve it against the catalog.
type BookingRecord struct {
	ID          string
	ShowID      int
	ShowTitle   string
	PatronName  string
	PatronEmail string
	Seats       []string
	Total       int
	CreatedAt   time.Time
}

// BookingLogRepo stores bookings in MySQL (bookings + booking_seats).
type BookingLogRepo struct {
	db *sql.DB
}

// NewBookingLogRepo returns a new BookingLogRepo bound to the given database.
func NewBookingLogRepo(db *sql.DB) *BookingLogRepo { return &BookingLogRepo{db: db} }

// Append inserts the booking and its seats in one transaction.  prices
// must be parallel to b.Seats.
func (r *BookingLogRepo) Append(ctx context.Context, b model.Booking, prices []int) error {
	if len(prices) != len(b.Seats) {
		return errors.New("booking log: prices do not match seats")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO bookings (id, show_id, show_title, patron_name, patron_email, total, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, b.ID, b.Show.ID, b.Show.Title, b.PatronName, b.PatronEmail, b.Total, b.CreatedAt.UTC()); err != nil {
		return err
	}
	if err := r.appendSeatsTx(ctx, tx, b.ID, b.Seats, prices); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// appendSeatsTx inserts all booking_seats rows in a single statement,
// preserving request order through the position column.
func (r *BookingLogRepo) appendSeatsTx(ctx context.Context, tx *sql.Tx, bookingID string, seats []string, prices []int) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO booking_seats (booking_id, position, seat_code, price) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	for i, code := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, bookingID, i, code, prices[i])
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// Get loads a booking and its seats in request order.  It returns
// ErrBookingNotFound when no booking has the given ID.
func (r *BookingLogRepo) Get(ctx context.Context, id string) (*BookingRecord, error) {
	const q = `SELECT id, show_id, show_title, patron_name, patron_email, total, created_at
               FROM bookings WHERE id = ?`
	var rec BookingRecord
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rec.ID, &rec.ShowID, &rec.ShowTitle, &rec.PatronName, &rec.PatronEmail, &rec.Total, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	const seatQ = `SELECT seat_code FROM booking_seats WHERE booking_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, seatQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		rec.Seats = append(rec.Seats, code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rec, nil
}
