// Package app assembles the pieces shared by the server and the seatctl
// tool from a loaded Config.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/rangbhumi-booking/internal/catalog"
	"github.com/iliyamo/rangbhumi-booking/internal/config"
	"github.com/iliyamo/rangbhumi-booking/internal/model"
	"github.com/iliyamo/rangbhumi-booking/internal/pricing"
	"github.com/iliyamo/rangbhumi-booking/internal/repository"
	"github.com/iliyamo/rangbhumi-booking/internal/ticket"
)

// Core is the configured catalog, venue layout, pricing and seat store.
type Core struct {
	Config  config.Config
	Catalog *catalog.Catalog
	Layout  model.Layout
	Pricing pricing.Policy
	Store   *repository.FileSeatMapStore
}

// NewCore resolves the catalog (file or built-in) and opens the seat store.
// It does not touch the store file.
func NewCore(cfg config.Config) (*Core, error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		var err error
		if cat, err = catalog.LoadFile(cfg.CatalogPath); err != nil {
			return nil, err
		}
	}
	layout := model.Layout{Rows: cfg.SeatRows, Cols: cfg.SeatCols}
	return &Core{
		Config:  cfg,
		Catalog: cat,
		Layout:  layout,
		Pricing: pricing.NewPolicy(cfg.VIPRows, cfg.NormalPrice, cfg.VIPPrice),
		Store:   repository.NewFileSeatMapStore(cfg.StorePath, layout),
	}, nil
}

// Seed creates seat maps for catalog shows the store does not know yet and
// returns their IDs.  A corrupt store is reported, never overwritten.
func (c *Core) Seed(ctx context.Context) ([]int, error) {
	prebooked := make([]string, 0, len(c.Config.Prebooked))
	for _, code := range c.Config.Prebooked {
		prebooked = append(prebooked, strings.ToUpper(strings.TrimSpace(code)))
	}
	seeded, err := c.Store.Initialize(ctx, c.Catalog.IDs(), prebooked)
	if err != nil {
		return nil, fmt.Errorf("seed seat store %s: %w", c.Store.Path(), err)
	}
	return seeded, nil
}

// Tickets returns the ticket generator for the configured venue, loading
// the configured UTF-8 font if there is one.
func (c *Core) Tickets() (*ticket.Generator, error) {
	g := ticket.NewGenerator(c.Config.Venue)
	if c.Config.TicketFont != "" {
		if err := g.LoadFont(c.Config.TicketFont); err != nil {
			return nil, err
		}
	}
	return g, nil
}
