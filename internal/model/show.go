package model

import "time"

// ShowTimeLayout is the format of Show.DateTime in the catalog.
const ShowTimeLayout = "2006-01-02 15:04"

// Show is a scheduled performance.  Shows are immutable reference data
// supplied by the catalog; the booking engine only resolves them by ID.
//
// Fields:
//
//	ID          – catalog identifier.
//	Title       – name printed on the ticket.
//	Description – short blurb for listings.
//	DateTime    – local start time in ShowTimeLayout.
//	Image       – relative path or URL of the poster.
type Show struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	DateTime    string `json:"datetime" yaml:"datetime"`
	Image       string `json:"image" yaml:"image"`
}

// StartsAt parses DateTime in the given location.
func (s Show) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(ShowTimeLayout, s.DateTime, loc)
}
