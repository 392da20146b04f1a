package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Equal(t, []int{1, 2, 3}, c.IDs())
	s, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Nirvaan", s.Title)

	_, err = c.Get(99)
	assert.ErrorIs(t, err, ErrShowNotFound)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := `shows:
  - id: 7
    title: Ghashiram
    description: Revival
    datetime: "2026-01-05 19:30"
  - id: 4
    title: Sakharam
    datetime: "2026-01-04 19:30"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 7}, c.IDs())
	s, err := c.Get(7)
	require.NoError(t, err)
	assert.Equal(t, "Ghashiram", s.Title)
}

func TestNewRejectsBadShows(t *testing.T) {
	_, err := New([]model.Show{{ID: 1, Title: "x", DateTime: "2025-10-29 18:00"}, {ID: 1, Title: "y", DateTime: "2025-10-29 18:00"}})
	assert.Error(t, err)

	_, err = New([]model.Show{{ID: 0, Title: "x", DateTime: "2025-10-29 18:00"}})
	assert.Error(t, err)

	_, err = New([]model.Show{{ID: 2, Title: "x", DateTime: "tomorrow"}})
	assert.Error(t, err)
}

func TestLoadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shows: []\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
