// Package ticket renders the printable proof of a committed booking: a
// single A6 page with the booking details and a QR code whose payload
// repeats the patron name, show title and seats.
package ticket

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/iliyamo/rangbhumi-booking/internal/metrics"
	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

// ErrRender wraps every failure to produce a ticket.  The booking it was
// rendering for is already committed.
var ErrRender = errors.New("ticket render failed")

// DefaultVenue is printed before the show title.
const DefaultVenue = "Rangbhumi RSCOE"

// Filename is the attachment name used when serving a ticket.
const Filename = "ticket.pdf"

// Page geometry in points, origin top-left.
const (
	marginX    = 10.0
	headerY    = 20.0
	lineStep   = 15.0
	qrSize     = 80.0
	qrInset    = 10.0
	qrPixels   = 256
	headerSize = 12.0
	bodySize   = 9.0
)

// Artifact is a rendered ticket.
type Artifact struct {
	Document []byte  // PDF bytes
	Payload  Payload // what the QR code encodes
	QRCode   []byte  // PNG image embedded in Document
}

// Generator renders tickets.  The zero value prints DefaultVenue.
//
// Without a loaded font, text is set in the PDF core Helvetica, which
// only covers cp1252; other characters print as "?" on the page.  The QR
// payload always carries the exact text.
type Generator struct {
	Venue string

	font []byte // UTF-8 TrueType font, see LoadFont
}

// fontFamily names the loaded TrueType font inside the document.
const fontFamily = "ticket"

// NewGenerator returns a generator for venue.
func NewGenerator(venue string) *Generator {
	return &Generator{Venue: venue}
}

// LoadFont reads a TrueType font that covers every script ticket text may
// use.  The same face is used for the header and the body.
func (g *Generator) LoadFont(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ticket font: %w", err)
	}
	check := fpdf.New("P", "pt", "A6", "")
	check.AddUTF8FontFromBytes(fontFamily, "", data)
	if err := check.Error(); err != nil {
		return fmt.Errorf("ticket font %s: %w", path, err)
	}
	g.font = data
	return nil
}

// Render builds the ticket for b.  Payload and QRCode are identical for
// identical bookings.
func (g *Generator) Render(b model.Booking) (*Artifact, error) {
	art, err := g.render(b)
	if err != nil {
		metrics.TicketRenders.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: booking %s: %v", ErrRender, b.ID, err)
	}
	metrics.TicketRenders.WithLabelValues("ok").Inc()
	return art, nil
}

func (g *Generator) render(b model.Booking) (*Artifact, error) {
	payload := NewPayload(b)
	text, err := payload.Encode()
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(string(text), qrcode.Medium, qrPixels)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}

	venue := g.Venue
	if venue == "" {
		venue = DefaultVenue
	}

	pdf := fpdf.New("P", "pt", "A6", "")
	pdf.SetCatalogSort(true)
	if !b.CreatedAt.IsZero() {
		pdf.SetCreationDate(b.CreatedAt)
		pdf.SetModificationDate(b.CreatedAt)
	}
	pdf.SetTitle(fmt.Sprintf("Ticket %s", b.ID), true)
	pdf.SetAuthor(venue, true)
	pdf.SetAutoPageBreak(false, 0)
	family, bold := "Helvetica", "B"
	tr := func(s string) string { return s }
	if g.font != nil {
		pdf.AddUTF8FontFromBytes(fontFamily, "", g.font)
		family, bold = fontFamily, ""
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddPage()
	width, height := pdf.GetPageSize()

	pdf.SetFont(family, bold, headerSize)
	pdf.Text(marginX, headerY, tr(fmt.Sprintf("%s - %s", venue, b.Show.Title)))

	pdf.SetFont(family, "", bodySize)
	lines := []string{
		"Date/Time: " + b.Show.DateTime,
		"Name: " + b.PatronName,
		"Seats: " + strings.Join(b.Seats, ", "),
		fmt.Sprintf("Total: Rs %d", b.Total),
	}
	for i, line := range lines {
		pdf.Text(marginX, headerY+lineStep*float64(i+1), tr(line))
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("qr", width-qrSize-qrInset, height-qrSize-qrInset, qrSize, qrSize, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return &Artifact{Document: buf.Bytes(), Payload: payload, QRCode: png}, nil
}
