// Package catalog holds the static list of shows.  The catalog is read-only
// reference data: it is loaded once at startup and shared without locking.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

// ErrShowNotFound is returned by Get when no show has the requested ID.
var ErrShowNotFound = errors.New("show not found")

// Catalog is an immutable, ID-indexed list of shows.
type Catalog struct {
	shows []model.Show
	byID  map[int]model.Show
}

type catalogFile struct {
	Shows []model.Show `yaml:"shows"`
}

// New builds a catalog from shows.  IDs must be positive and unique.
func New(shows []model.Show) (*Catalog, error) {
	c := &Catalog{byID: make(map[int]model.Show, len(shows))}
	for _, s := range shows {
		if s.ID <= 0 {
			return nil, fmt.Errorf("show %q has invalid id %d", s.Title, s.ID)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate show id %d", s.ID)
		}
		if _, err := s.StartsAt(nil); err != nil {
			return nil, fmt.Errorf("show %d: invalid datetime %q: %w", s.ID, s.DateTime, err)
		}
		c.byID[s.ID] = s
		c.shows = append(c.shows, s)
	}
	sort.Slice(c.shows, func(i, j int) bool { return c.shows[i].ID < c.shows[j].ID })
	return c, nil
}

// Default returns the venue's built-in season.
func Default() *Catalog {
	c, err := New(defaultShows)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile reads a YAML catalog of the form
//
//	shows:
//	  - id: 1
//	    title: Nirvaan
//	    datetime: "2025-10-29 18:00"
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(f.Shows) == 0 {
		return nil, fmt.Errorf("catalog %s lists no shows", path)
	}
	return New(f.Shows)
}

// Get resolves a show by ID.
func (c *Catalog) Get(id int) (model.Show, error) {
	s, ok := c.byID[id]
	if !ok {
		return model.Show{}, ErrShowNotFound
	}
	return s, nil
}

// List returns the shows ordered by ID.  The slice is a copy.
func (c *Catalog) List() []model.Show {
	out := make([]model.Show, len(c.shows))
	copy(out, c.shows)
	return out
}

// IDs returns all show IDs in ascending order.
func (c *Catalog) IDs() []int {
	out := make([]int, 0, len(c.shows))
	for _, s := range c.shows {
		out = append(out, s.ID)
	}
	return out
}

var defaultShows = []model.Show{
	{
		ID:          1,
		Title:       "Nirvaan",
		Description: "A gripping college natak.",
		DateTime:    "2025-10-29 18:00",
		Image:       "/static/images/nirvan.jpg",
	},
	{
		ID:          2,
		Title:       "Andhagharam",
		Description: "A mysterious performance.",
		DateTime:    "2025-10-29 19:00",
		Image:       "/static/images/andhagharam.jpg",
	},
	{
		ID:          3,
		Title:       "Umaj",
		Description: "Classic episodes on stage.",
		DateTime:    "2025-10-29 20:00",
		Image:       "/static/images/umaj.jpg",
	},
}
