package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

func sampleEvent() BookingConfirmedEvent {
	return NewBookingConfirmedEvent(model.Booking{
		ID:         "b-1",
		PatronName: "Asha",
		Show:       model.Show{ID: 1, Title: "Nirvaan", DateTime: "2025-10-29 18:00"},
		Seats:      []string{"A3", "A4"},
		Total:      100,
		CreatedAt:  time.Date(2025, 10, 20, 9, 30, 0, 0, time.FixedZone("IST", 19800)),
	})
}

func TestNewBookingConfirmedEvent(t *testing.T) {
	ev := sampleEvent()
	assert.Equal(t, "b-1", ev.BookingID)
	assert.Equal(t, "Nirvaan", ev.ShowTitle)
	assert.Equal(t, "2025-10-20T04:00:00Z", ev.ConfirmedAt)
}

func TestAppendEventWritesOneLinePerMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "booking.log")
	body, err := json.Marshal(sampleEvent())
	require.NoError(t, err)

	require.NoError(t, AppendEvent(path, body))
	require.NoError(t, AppendEvent(path, body))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `[2025-10-20T04:00:00Z] Booking confirmed | booking_id=b-1 | show_id=1 | show="Nirvaan" | starts_at="2025-10-29 18:00" | patron="Asha" | total=100 | seats=[A3,A4]`, lines[0])
}

func TestAppendEventRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.log")

	assert.Error(t, AppendEvent(path, []byte("{")))
	assert.Error(t, AppendEvent(path, []byte(`{"show_id":1}`)))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
