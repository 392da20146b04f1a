// Package pricing maps seat codes to prices.
package pricing

import (
	"strings"

	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

// Policy prices a seat by its row: rows in VIPRows cost VIPPrice, every
// other seat costs NormalPrice.
type Policy struct {
	VIPRows     map[string]bool
	NormalPrice int
	VIPPrice    int
}

// NewPolicy builds a Policy from a list of VIP row labels.
func NewPolicy(vipRows []string, normal, vip int) Policy {
	rows := make(map[string]bool, len(vipRows))
	for _, r := range vipRows {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r != "" {
			rows[r] = true
		}
	}
	return Policy{VIPRows: rows, NormalPrice: normal, VIPPrice: vip}
}

// Default is the venue's standard policy: row A is VIP at 50, others 30.
func Default() Policy {
	return NewPolicy([]string{"A"}, 30, 50)
}

// Price returns the price of a single seat.
func (p Policy) Price(code string) int {
	if p.IsVIP(code) {
		return p.VIPPrice
	}
	return p.NormalPrice
}

// IsVIP reports whether the seat's row is a VIP row.
func (p Policy) IsVIP(code string) bool {
	return p.VIPRows[model.SeatRow(code)]
}

// Total sums Price over codes.  Every element is charged, so callers must
// reject duplicates beforehand if they do not want them charged twice.
func (p Policy) Total(codes []string) int {
	total := 0
	for _, c := range codes {
		total += p.Price(c)
	}
	return total
}

// Rows returns the VIP row labels in layout order.
func (p Policy) Rows(layout model.Layout) []string {
	var out []string
	for _, r := range layout.RowLabels() {
		if p.VIPRows[r] {
			out = append(out, r)
		}
	}
	return out
}
