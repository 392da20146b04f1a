package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stderr = io.Discard
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitBookAndSeats(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "seats.json")
	ticketPath := filepath.Join(dir, "out", "ticket.pdf")
	t.Setenv("PREBOOKED_SEATS", "A3,A5,B7,C1,D10")

	out, err := run(t, "init", "--store", store)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded shows 1, 2, 3")

	out, err = run(t, "init", "--store", store)
	require.NoError(t, err)
	assert.Contains(t, out, "already has every show")

	out, err = run(t, "book", "--store", store, "--show", "2", "--name", "Asha", "--seats", "a1,B2", "-o", ticketPath)
	require.NoError(t, err)
	assert.Contains(t, out, "booked A1, B2 for Andhagharam (Asha), total Rs 80")

	pdf, err := os.ReadFile(ticketPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	out, err = run(t, "seats", "--store", store, "--show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Andhagharam")
	assert.Contains(t, out, "43 available")
	assert.NotContains(t, out, " A1 ")
	assert.Contains(t, out, " A2 ")

	_, err = run(t, "book", "--store", store, "--show", "2", "--seats", "A1", "-o", ticketPath)
	assert.EqualError(t, err, "Seat A1 already booked.")
}

func TestShowsListsCatalog(t *testing.T) {
	out, err := run(t, "shows")
	require.NoError(t, err)
	for _, title := range []string{"Nirvaan", "Andhagharam", "Umaj"} {
		assert.Contains(t, out, title)
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := run(t, "token")
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	out, err := run(t, "token", "--ttl", "5m")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."))
}

func TestSeatsBeforeInit(t *testing.T) {
	_, err := run(t, "seats", "--store", filepath.Join(t.TempDir(), "seats.json"))
	assert.Error(t, err)
}
