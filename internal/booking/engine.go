// Package booking implements the seat booking transaction: validate a
// requested seat set against the seat map, mark it booked all at once,
// and persist the result.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/rangbhumi-booking/internal/catalog"
	"github.com/iliyamo/rangbhumi-booking/internal/logger"
	"github.com/iliyamo/rangbhumi-booking/internal/metrics"
	"github.com/iliyamo/rangbhumi-booking/internal/model"
	"github.com/iliyamo/rangbhumi-booking/internal/pricing"
	"github.com/iliyamo/rangbhumi-booking/internal/repository"
)

// DefaultPatronName is used when a request carries no name.
const DefaultPatronName = "Guest"

// ShowResolver looks shows up by ID.  *catalog.Catalog satisfies it.
type ShowResolver interface {
	Get(id int) (model.Show, error)
}

// Notifier is told about every committed booking.  Notification failures
// are logged and never affect the booking.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b model.Booking) error
}

// Request is a booking attempt as received from the caller.
type Request struct {
	ShowID      int
	PatronName  string
	PatronEmail string
	SeatCodes   []string
}

// Engine serialises booking transactions over a SeatMapStore.  Every
// transaction reloads the document from the store, so the store is the
// single source of truth and the engine keeps no seat state of its own.
type Engine struct {
	mu     sync.Mutex
	halted error

	store    repository.SeatMapStore
	shows    ShowResolver
	pricing  pricing.Policy
	log      repository.BookingLog
	notifier Notifier
	now      func() time.Time
	newID    func() string
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithBookingLog records every committed booking in l.
func WithBookingLog(l repository.BookingLog) Option {
	return func(e *Engine) { e.log = l }
}

// WithNotifier publishes every committed booking through n.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine wires an engine.  store, shows must be non-nil.
func NewEngine(store repository.SeatMapStore, shows ShowResolver, policy pricing.Policy, opts ...Option) *Engine {
	if store == nil || shows == nil {
		panic("nil dependency passed to booking.NewEngine")
	}
	e := &Engine{
		store:   store,
		shows:   shows,
		pricing: policy,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ParseSeatCodes splits the conventional comma separated form ("A1,A2")
// into codes, dropping empty entries.
func ParseSeatCodes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = normalizeCode(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Book runs one booking transaction.  Either every requested seat is
// marked booked and persisted in a single write, or nothing changes.
//
// Rejections are *Error values.  Store failures are returned wrapped;
// a missing or corrupt store additionally halts the engine.
func (e *Engine) Book(ctx context.Context, req Request) (*model.Booking, error) {
	codes := make([]string, len(req.SeatCodes))
	for i, c := range req.SeatCodes {
		codes[i] = normalizeCode(c)
	}
	if len(codes) == 0 {
		metrics.BookingAttempts.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, &Error{Kind: KindNoSeatsSelected}
	}

	show, err := e.shows.Get(req.ShowID)
	if err != nil {
		metrics.BookingAttempts.WithLabelValues(metrics.OutcomeRejected).Inc()
		if errors.Is(err, catalog.ErrShowNotFound) {
			return nil, &Error{Kind: KindShowNotFound, ShowID: req.ShowID}
		}
		return nil, fmt.Errorf("resolve show %d: %w", req.ShowID, err)
	}

	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if _, dup := seen[c]; dup {
			metrics.BookingAttempts.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, &Error{Kind: KindDuplicateSeat, ShowID: show.ID, Seat: c}
		}
		seen[c] = struct{}{}
	}

	if err := e.commit(ctx, show.ID, codes); err != nil {
		metrics.BookingAttempts.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}
	metrics.BookingAttempts.WithLabelValues(metrics.OutcomeBooked).Inc()
	metrics.SeatsBooked.WithLabelValues(strconv.Itoa(show.ID)).Add(float64(len(codes)))

	name := strings.TrimSpace(req.PatronName)
	if name == "" {
		name = DefaultPatronName
	}
	prices := make([]int, len(codes))
	total := 0
	for i, c := range codes {
		prices[i] = e.pricing.Price(c)
		total += prices[i]
	}
	b := &model.Booking{
		ID:          e.newID(),
		PatronName:  name,
		PatronEmail: strings.TrimSpace(req.PatronEmail),
		Show:        show,
		Seats:       codes,
		Total:       total,
		CreatedAt:   e.now().UTC(),
	}

	log := logger.WithContext(ctx).With("booking_id", b.ID, "show_id", show.ID)
	log.Info("booking committed", "seats", strings.Join(codes, ","), "total", total)
	// The seats are sold; a caller hanging up now must not lose the record.
	ctx = context.WithoutCancel(ctx)
	if e.log != nil {
		if err := e.log.Append(ctx, *b, prices); err != nil {
			log.Error("failed to append booking log", "error", err)
		}
	}
	if e.notifier != nil {
		if err := e.notifier.BookingConfirmed(ctx, *b); err != nil {
			log.Warn("failed to publish booking confirmation", "error", err)
		}
	}
	return b, nil
}

// commit is the critical section: load, check, mark, save.  e.mu orders
// callers inside this process; a store that implements repository.Locker
// also excludes other processes sharing it.
func (e *Engine) commit(ctx context.Context, showID int, codes []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := time.Now()
	defer func() { metrics.BookingDuration.Observe(time.Since(start).Seconds()) }()

	if l, ok := e.store.(repository.Locker); ok {
		unlock, err := l.Lock(ctx)
		if err != nil {
			return err
		}
		defer unlock()
	}

	doc, seats, err := e.loadLocked(ctx, showID)
	if err != nil {
		return err
	}

	for _, c := range codes {
		st, ok := seats[c]
		if !ok {
			return &Error{Kind: KindUnknownSeat, ShowID: showID, Seat: c}
		}
		if st == model.SeatBooked {
			return &Error{Kind: KindSeatAlreadyBooked, ShowID: showID, Seat: c}
		}
	}
	for _, c := range codes {
		seats[c] = model.SeatBooked
	}
	if err := e.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("save seat map: %w", err)
	}
	return nil
}

// SeatMap returns a snapshot of the seat map for one show.  The read is
// taken under the transaction lock so it never interleaves with a commit.
func (e *Engine) SeatMap(ctx context.Context, showID int) (model.SeatMap, error) {
	if _, err := e.shows.Get(showID); err != nil {
		if errors.Is(err, catalog.ErrShowNotFound) {
			return nil, &Error{Kind: KindShowNotFound, ShowID: showID}
		}
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, seats, err := e.loadLocked(ctx, showID)
	if err != nil {
		return nil, err
	}
	return seats, nil
}

// loadLocked reads the document and picks the show's map.  A missing or
// corrupt store halts the engine.  e.mu must be held.
func (e *Engine) loadLocked(ctx context.Context, showID int) (repository.SeatDocument, model.SeatMap, error) {
	if e.halted != nil {
		return repository.SeatDocument{}, nil, fmt.Errorf("%w: %v", ErrBookingHalted, e.halted)
	}
	doc, err := e.store.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrStoreCorrupt) || errors.Is(err, repository.ErrStoreMissing) {
			e.halted = err
			logger.WithContext(ctx).Error("seat store unusable, halting bookings", "error", err)
			return repository.SeatDocument{}, nil, fmt.Errorf("%w: %v", ErrBookingHalted, err)
		}
		return repository.SeatDocument{}, nil, fmt.Errorf("load seat map: %w", err)
	}
	seats, ok := doc.Shows[showID]
	if !ok {
		return repository.SeatDocument{}, nil, fmt.Errorf("show %d: %w", showID, repository.ErrShowNotInStore)
	}
	return doc, seats, nil
}

// Lookup rebuilds a committed booking from the booking log.  It is the
// operator's way to reissue a ticket when rendering failed after commit.
func (e *Engine) Lookup(ctx context.Context, id string) (*model.Booking, error) {
	if e.log == nil {
		return nil, repository.ErrBookingNotFound
	}
	rec, err := e.log.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	show, err := e.shows.Get(rec.ShowID)
	if err != nil {
		// the show left the catalog; keep what the log remembers
		show = model.Show{ID: rec.ShowID, Title: rec.ShowTitle}
	}
	return &model.Booking{
		ID:          rec.ID,
		PatronName:  rec.PatronName,
		PatronEmail: rec.PatronEmail,
		Show:        show,
		Seats:       rec.Seats,
		Total:       rec.Total,
		CreatedAt:   rec.CreatedAt,
	}, nil
}

// Halted reports the store error that stopped the engine, if any.
func (e *Engine) Halted() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.halted
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrSeatAlreadyBooked):
		return metrics.OutcomeConflict
	case errors.Is(err, ErrUnknownSeat):
		return metrics.OutcomeRejected
	case errors.Is(err, ErrBookingHalted):
		return metrics.OutcomeHalted
	}
	return metrics.OutcomeError
}
