package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SeatStatus is the only persisted fact about a seat.  A seat starts
// out available and moves to booked exactly once.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
)

// Valid reports whether s is one of the two known statuses.
func (s SeatStatus) Valid() bool {
	return s == SeatAvailable || s == SeatBooked
}

// SeatMap maps a seat code (row letter + column number, e.g. "A3") to its
// status for a single show.
type SeatMap map[string]SeatStatus

// Clone returns an independent copy of m.
func (m SeatMap) Clone() SeatMap {
	out := make(SeatMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Layout describes the fixed venue configuration.  Rows are labelled with
// consecutive letters starting at 'A'; columns are 1-based.
//
// Fields:
//
//	Rows – number of rows (A, B, ...).
//	Cols – seats per row.
type Layout struct {
	Rows int
	Cols int
}

// DefaultLayout is the 5×10 hall used by the venue.
var DefaultLayout = Layout{Rows: 5, Cols: 10}

// RowLabels returns the row letters in order.
func (l Layout) RowLabels() []string {
	out := make([]string, 0, l.Rows)
	for i := 0; i < l.Rows; i++ {
		out = append(out, string(rune('A'+i)))
	}
	return out
}

// Codes returns every seat code of the layout, row by row.
func (l Layout) Codes() []string {
	out := make([]string, 0, l.Rows*l.Cols)
	for _, row := range l.RowLabels() {
		for col := 1; col <= l.Cols; col++ {
			out = append(out, SeatCode(row, col))
		}
	}
	return out
}

// Contains reports whether code names a seat inside the layout.
func (l Layout) Contains(code string) bool {
	row, col, err := ParseSeatCode(code)
	if err != nil {
		return false
	}
	r := int(row[0] - 'A')
	return r >= 0 && r < l.Rows && col >= 1 && col <= l.Cols
}

// NewSeatMap builds a map with every seat available except those listed
// in prebooked.  Codes in prebooked that fall outside the layout are
// reported as an error rather than silently added.
func (l Layout) NewSeatMap(prebooked []string) (SeatMap, error) {
	m := make(SeatMap, l.Rows*l.Cols)
	for _, code := range l.Codes() {
		m[code] = SeatAvailable
	}
	for _, code := range prebooked {
		if _, ok := m[code]; !ok {
			return nil, fmt.Errorf("prebooked seat %q is not part of the %dx%d layout", code, l.Rows, l.Cols)
		}
		m[code] = SeatBooked
	}
	return m, nil
}

// SeatCode formats a row label and column as a seat code.
func SeatCode(row string, col int) string {
	return row + strconv.Itoa(col)
}

// ParseSeatCode splits a code such as "D10" into its row label and column.
// Only the canonical form produced by SeatCode is accepted, so "D+10" and
// "D010" are errors.
func ParseSeatCode(code string) (string, int, error) {
	if len(code) < 2 {
		return "", 0, fmt.Errorf("invalid seat code %q", code)
	}
	row := code[:1]
	if row[0] < 'A' || row[0] > 'Z' {
		return "", 0, fmt.Errorf("invalid seat row in %q", code)
	}
	digits := code[1:]
	if strings.TrimLeft(digits, "0123456789") != "" || strings.HasPrefix(digits, "0") {
		return "", 0, fmt.Errorf("invalid seat column in %q", code)
	}
	col, err := strconv.Atoi(digits)
	if err != nil || col < 1 || SeatCode(row, col) != code {
		return "", 0, fmt.Errorf("invalid seat column in %q", code)
	}
	return row, col, nil
}

// SeatRow returns the row label of code, or "" if code is malformed.
func SeatRow(code string) string {
	row, _, err := ParseSeatCode(code)
	if err != nil {
		return ""
	}
	return row
}
