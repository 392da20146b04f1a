package ticket

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

func sampleBooking() model.Booking {
	return model.Booking{
		ID:         "4b0c7a52-6d2e-4c55-9a57-2f3d1f0e9b11",
		PatronName: "Asha",
		Show: model.Show{
			ID:       1,
			Title:    "Nirvaan",
			DateTime: "2025-10-29 18:00",
		},
		Seats:     []string{"A3", "A4"},
		Total:     100,
		CreatedAt: time.Date(2025, 10, 20, 9, 30, 0, 0, time.UTC),
	}
}

func scanQR(t *testing.T, data []byte) string {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	res, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return res.GetText()
}

func TestRenderQRCodeCarriesBooking(t *testing.T) {
	art, err := NewGenerator("").Render(sampleBooking())
	require.NoError(t, err)

	text := scanQR(t, art.QRCode)
	assert.JSONEq(t, `{"name":"Asha","show":"Nirvaan","seats":["A3","A4"]}`, text)

	got, err := DecodePayload([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, art.Payload, got)
	assert.Equal(t, Payload{Name: "Asha", Show: "Nirvaan", Seats: []string{"A3", "A4"}}, got)
}

func TestPayloadFieldOrder(t *testing.T) {
	data, err := NewPayload(sampleBooking()).Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Asha","show":"Nirvaan","seats":["A3","A4"]}`, string(data))

	data, err = Payload{Name: "Guest", Show: "Umaj"}.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Guest","show":"Umaj","seats":[]}`, string(data))
}

func TestRenderIsDeterministic(t *testing.T) {
	g := NewGenerator(DefaultVenue)
	first, err := g.Render(sampleBooking())
	require.NoError(t, err)
	second, err := g.Render(sampleBooking())
	require.NoError(t, err)

	assert.Equal(t, first.Payload, second.Payload)
	assert.Equal(t, first.QRCode, second.QRCode)
}

func TestRenderProducesSinglePagePDF(t *testing.T) {
	art, err := NewGenerator("Test Hall").Render(sampleBooking())
	require.NoError(t, err)

	doc := art.Document
	require.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
	assert.Contains(t, string(doc), "%%EOF")
	assert.Contains(t, string(doc), "/Count 1")
	assert.Contains(t, string(doc), "/Subtype /Image")
}

func TestRenderKeepsSeatOrder(t *testing.T) {
	b := sampleBooking()
	b.Seats = []string{"C4", "A1", "B9"}

	art, err := NewGenerator("").Render(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"C4", "A1", "B9"}, art.Payload.Seats)

	// the artifact does not alias the booking's slice
	b.Seats[0] = "E1"
	assert.Equal(t, "C4", art.Payload.Seats[0])
}

func TestRenderFailureWrapsErrRender(t *testing.T) {
	b := sampleBooking()
	// far beyond QR version 40 capacity
	b.PatronName = string(bytes.Repeat([]byte("x"), 8000))

	art, err := NewGenerator("").Render(b)
	assert.Nil(t, art)
	assert.True(t, errors.Is(err, ErrRender))
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, err := DecodePayload([]byte("not json"))
	assert.Error(t, err)
}

func TestNonLatinNameSurvivesInQRWithoutFont(t *testing.T) {
	b := sampleBooking()
	b.PatronName = "आशा"

	art, err := NewGenerator("").Render(b)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(art.Document, []byte("%PDF-")))
	text, err := art.Payload.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"आशा","show":"Nirvaan","seats":["A3","A4"]}`, string(text))
}

func TestLoadFontRejectsBadFiles(t *testing.T) {
	g := NewGenerator("")
	assert.Error(t, g.LoadFont(filepath.Join(t.TempDir(), "missing.ttf")))

	junk := filepath.Join(t.TempDir(), "junk.ttf")
	require.NoError(t, os.WriteFile(junk, []byte("this is plain text and not a TrueType font at all"), 0o644))
	assert.Error(t, g.LoadFont(junk))

	// a failed load leaves the core font in place
	_, err := g.Render(sampleBooking())
	assert.NoError(t, err)
}
