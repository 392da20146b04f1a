package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

var prebooked = []string{"A3", "A5", "B7", "C1", "D10"}

func newTestStore(t *testing.T) *FileSeatMapStore {
	t.Helper()
	return NewFileSeatMapStore(filepath.Join(t.TempDir(), "data", "seats.json"), model.DefaultLayout)
}

func TestInitializeSeedsPrebookedSet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seeded, err := store.Initialize(ctx, []int{1, 2}, prebooked)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, seeded)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Shows, 2)

	pre := map[string]bool{}
	for _, c := range prebooked {
		pre[c] = true
	}
	for _, id := range []int{1, 2} {
		m := doc.Shows[id]
		require.Len(t, m, 50)
		for code, st := range m {
			assert.Equal(t, pre[code], st == model.SeatBooked, "show %d seat %s", id, code)
		}
	}
}

func TestInitializeKeepsExistingMaps(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Initialize(ctx, []int{1}, prebooked)
	require.NoError(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	doc.Shows[1]["E9"] = model.SeatBooked
	require.NoError(t, store.Save(ctx, doc))

	seeded, err := store.Initialize(ctx, []int{1, 3}, prebooked)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, seeded)

	doc, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SeatBooked, doc.Shows[1]["E9"])
	assert.Equal(t, model.SeatAvailable, doc.Shows[3]["E9"])

	seeded, err = store.Initialize(ctx, []int{1, 3}, prebooked)
	require.NoError(t, err)
	assert.Empty(t, seeded)
}

func TestInitializeRejectsPrebookedOutsideLayout(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Initialize(context.Background(), []int{1}, []string{"Z99"})
	assert.Error(t, err)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrStoreMissing)
}

func TestLoadCorruptFailsClosed(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		body string
		// from/to rewrite a freshly seeded document instead of body
		from, to string
	}{
		{name: "not json", body: `{"shows": `},
		{name: "no shows", body: `{}`},
		{name: "unknown field", body: `{"shows": {}, "extra": 1}`},
		{name: "missing seats", body: `{"shows": {"1": {"A1": "available"}}}`},
		{name: "unknown status", from: `"available"`, to: `"reserved"`},
		{name: "signed column", from: `"A1":`, to: `"A+1":`},
		{name: "zero padded column", from: `"B2":`, to: `"B02":`},
		{name: "lowercase row", from: `"C3":`, to: `"c3":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t)
			body := tc.body
			if tc.from != "" {
				_, err := store.Initialize(ctx, []int{1}, nil)
				require.NoError(t, err)
				raw, err := os.ReadFile(store.Path())
				require.NoError(t, err)
				require.Contains(t, string(raw), tc.from)
				body = strings.Replace(string(raw), tc.from, tc.to, 1)
			}
			require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
			require.NoError(t, os.WriteFile(store.Path(), []byte(body), 0o644))

			_, err := store.Load(ctx)
			assert.ErrorIs(t, err, ErrStoreCorrupt)

			_, err = store.Initialize(ctx, []int{1}, prebooked)
			assert.ErrorIs(t, err, ErrStoreCorrupt)

			after, readErr := os.ReadFile(store.Path())
			require.NoError(t, readErr)
			assert.Equal(t, body, string(after), "corrupt store must not be rewritten")
		})
	}
}

func TestSaveRecreatesDeletedFile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Initialize(ctx, []int{1}, prebooked)
	require.NoError(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, os.Remove(store.Path()))

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrStoreMissing)

	doc.Shows[1]["B1"] = model.SeatBooked
	require.NoError(t, store.Save(ctx, doc))

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SeatBooked, reloaded.Shows[1]["B1"])
	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSaveRejectsInvalidDocument(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Initialize(ctx, []int{1}, prebooked)
	require.NoError(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	bad := doc.Clone()
	bad.Shows[1]["F1"] = model.SeatAvailable

	assert.ErrorIs(t, store.Save(ctx, bad), ErrStoreCorrupt)

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, reloaded)
}

func TestLockExcludesSecondHolder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	other := NewFileSeatMapStore(store.Path(), model.DefaultLayout)

	unlock, err := store.Lock(ctx)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = other.Lock(waitCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// seeding waits for the lock as well
	_, err = other.Initialize(waitCtx, []int{1}, prebooked)
	assert.Error(t, err)

	require.NoError(t, unlock())
	unlockOther, err := other.Lock(ctx)
	require.NoError(t, err)
	require.NoError(t, unlockOther())
}
