package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

// MemoryBookingLog keeps bookings for the lifetime of the process.  It is
// used when no database is configured.
type MemoryBookingLog struct {
	mu   sync.RWMutex
	byID map[string]BookingRecord
}

// NewMemoryBookingLog returns an empty log.
func NewMemoryBookingLog() *MemoryBookingLog {
	return &MemoryBookingLog{byID: make(map[string]BookingRecord)}
}

func (l *MemoryBookingLog) Append(_ context.Context, b model.Booking, _ []int) error {
	seats := make([]string, len(b.Seats))
	copy(seats, b.Seats)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byID[b.ID] = BookingRecord{
		ID:          b.ID,
		ShowID:      b.Show.ID,
		ShowTitle:   b.Show.Title,
		PatronName:  b.PatronName,
		PatronEmail: b.PatronEmail,
		Seats:       seats,
		Total:       b.Total,
		CreatedAt:   b.CreatedAt,
	}
	return nil
}

func (l *MemoryBookingLog) Get(_ context.Context, id string) (*BookingRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.byID[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	rec.Seats = append([]string(nil), rec.Seats...)
	return &rec, nil
}

// Len returns the number of logged bookings.
func (l *MemoryBookingLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byID)
}
