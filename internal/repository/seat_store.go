package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"

	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

// SeatDocument is the whole persisted state: one seat map per show.
// It is always read and written as a single JSON document.
type SeatDocument struct {
	Shows map[int]model.SeatMap `json:"shows"`
}

// Clone returns a deep copy so callers can mutate it without touching
// the original.
func (d SeatDocument) Clone() SeatDocument {
	out := SeatDocument{Shows: make(map[int]model.SeatMap, len(d.Shows))}
	for id, m := range d.Shows {
		out.Shows[id] = m.Clone()
	}
	return out
}

// SeatMapStore loads and saves the seat document.  Implementations are
// not required to be safe for concurrent use; the booking engine
// serialises every load/save pair.
type SeatMapStore interface {
	Load(ctx context.Context) (SeatDocument, error)
	Save(ctx context.Context, doc SeatDocument) error
}

// Locker is implemented by stores that can exclude other processes from
// a load/save pair.  The returned function releases the lock.
type Locker interface {
	Lock(ctx context.Context) (unlock func() error, err error)
}

// lockRetry is how often a blocked Lock polls the lock file.
const lockRetry = 10 * time.Millisecond

// FileSeatMapStore keeps the seat document in a single JSON file.  An
// advisory lock on a sibling "<path>.lock" file serialises writers across
// processes, so the server and seatctl can share one store.
type FileSeatMapStore struct {
	path   string
	layout model.Layout
}

// NewFileSeatMapStore returns a store backed by the file at path.  The
// layout is used to validate every show map on load and save.
func NewFileSeatMapStore(path string, layout model.Layout) *FileSeatMapStore {
	return &FileSeatMapStore{path: path, layout: layout}
}

// Path returns the backing file path.
func (s *FileSeatMapStore) Path() string { return s.path }

// LockPath returns the path of the advisory lock file.
func (s *FileSeatMapStore) LockPath() string { return s.path + ".lock" }

// Lock blocks until this process holds the store's file lock or ctx ends.
func (s *FileSeatMapStore) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create seat store directory: %w", err)
	}
	fl := flock.New(s.LockPath())
	ok, err := fl.TryLockContext(ctx, lockRetry)
	if err != nil {
		return nil, fmt.Errorf("lock seat store: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("lock seat store: %s is held", s.LockPath())
	}
	return fl.Unlock, nil
}

// Load reads and validates the document.  A missing file yields
// ErrStoreMissing; anything malformed yields ErrStoreCorrupt.
func (s *FileSeatMapStore) Load(ctx context.Context) (SeatDocument, error) {
	if err := ctx.Err(); err != nil {
		return SeatDocument{}, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return SeatDocument{}, fmt.Errorf("%w: %s", ErrStoreMissing, s.path)
		}
		return SeatDocument{}, fmt.Errorf("read seat store: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var doc SeatDocument
	if err := dec.Decode(&doc); err != nil {
		return SeatDocument{}, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	if err := s.validate(doc); err != nil {
		return SeatDocument{}, err
	}
	return doc, nil
}

// Save validates doc and replaces the file atomically: the content is
// written to a temporary sibling, synced, and renamed over the target.
// A reader never sees a half-written document, and a file that was
// deleted since the last load is simply recreated.
func (s *FileSeatMapStore) Save(ctx context.Context, doc SeatDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.validate(doc); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode seat store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create seat store directory: %w", err)
	}

	tmp := s.path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temporary seat store: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temporary seat store: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temporary seat store: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temporary seat store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace seat store: %w", err)
	}
	return nil
}

// Initialize prepares the store for the given shows.  When the file does
// not exist it is created with every show seeded from the layout and the
// prebooked set.  When it exists it is validated, and shows missing from
// it are seeded; existing show maps are left untouched.  It returns the
// IDs that were seeded.  Any other failure, corruption included, is
// returned as is and should stop the process.
func (s *FileSeatMapStore) Initialize(ctx context.Context, showIDs []int, prebooked []string) ([]int, error) {
	unlock, err := s.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc, err := s.Load(ctx)
	switch {
	case errors.Is(err, ErrStoreMissing):
		doc = SeatDocument{Shows: map[int]model.SeatMap{}}
	case err != nil:
		return nil, err
	}

	var seeded []int
	for _, id := range showIDs {
		if _, ok := doc.Shows[id]; ok {
			continue
		}
		m, err := s.layout.NewSeatMap(prebooked)
		if err != nil {
			return nil, err
		}
		doc.Shows[id] = m
		seeded = append(seeded, id)
	}
	if len(seeded) == 0 {
		return nil, nil
	}
	sort.Ints(seeded)
	if err := s.Save(ctx, doc); err != nil {
		return nil, err
	}
	return seeded, nil
}

func (s *FileSeatMapStore) validate(doc SeatDocument) error {
	if doc.Shows == nil {
		return fmt.Errorf("%w: no shows section", ErrStoreCorrupt)
	}
	want := s.layout.Rows * s.layout.Cols
	for id, m := range doc.Shows {
		if len(m) != want {
			return fmt.Errorf("%w: show %d has %d seats, want %d", ErrStoreCorrupt, id, len(m), want)
		}
		for code, st := range m {
			row, col, err := model.ParseSeatCode(code)
			if err != nil || model.SeatCode(row, col) != code || !s.layout.Contains(code) {
				return fmt.Errorf("%w: show %d has unknown seat %q", ErrStoreCorrupt, id, code)
			}
			if !st.Valid() {
				return fmt.Errorf("%w: show %d seat %s has status %q", ErrStoreCorrupt, id, code, st)
			}
		}
	}
	return nil
}
