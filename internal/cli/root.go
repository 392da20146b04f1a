// Package cli implements the seatctl command: seed and inspect the seat
// store, book from the terminal, mint operator tokens and run the booking
// log consumer.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/rangbhumi-booking/internal/app"
	"github.com/iliyamo/rangbhumi-booking/internal/config"
	"github.com/iliyamo/rangbhumi-booking/internal/logger"
)

// stderr receives log output so it never mixes with command output.
var stderr io.Writer = os.Stderr

type options struct {
	store   string
	catalog string
}

// NewRootCmd builds the seatctl command tree.  Configuration comes from the
// environment (and .env); --store and --catalog override it.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "seatctl",
		Short:         "Rangbhumi seat booking tool",
		Long:          `Seed and inspect the seat store, book seats and issue operator tokens from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.store, "store", "", "seat store path (default $SEAT_STORE_PATH)")
	root.PersistentFlags().StringVar(&opts.catalog, "catalog", "", "YAML show catalog (default $CATALOG_PATH or built-in)")

	root.AddCommand(
		newInitCmd(opts),
		newShowsCmd(opts),
		newSeatsCmd(opts),
		newBookCmd(opts),
		newTokenCmd(),
		newConsumeCmd(),
	)
	return root
}

// Execute runs seatctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logger.InitWriter(stderr, cfg.LogLevel, "text")
	return cfg, nil
}

func (o *options) core() (*app.Core, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if o.store != "" {
		cfg.StorePath = o.store
	}
	if o.catalog != "" {
		cfg.CatalogPath = o.catalog
	}
	return app.NewCore(cfg)
}
