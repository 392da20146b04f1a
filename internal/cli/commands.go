package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/iliyamo/rangbhumi-booking/internal/booking"
	"github.com/iliyamo/rangbhumi-booking/internal/middleware"
	"github.com/iliyamo/rangbhumi-booking/internal/model"
	"github.com/iliyamo/rangbhumi-booking/internal/queue"
	"github.com/iliyamo/rangbhumi-booking/internal/ticket"
	"github.com/iliyamo/rangbhumi-booking/internal/utils"
)

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create seat maps for catalog shows missing from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.core()
			if err != nil {
				return err
			}
			seeded, err := core.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if len(seeded) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already has every show\n", core.Store.Path())
				return nil
			}
			ids := make([]string, len(seeded))
			for i, id := range seeded {
				ids[i] = strconv.Itoa(id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded shows %s in %s\n", strings.Join(ids, ", "), core.Store.Path())
			return nil
		},
	}
}

func newShowsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shows",
		Short: "List the show catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.core()
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Title", "Date/Time", "Description"})
			t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, WidthMax: 40}})
			for _, s := range core.Catalog.List() {
				t.AppendRow(table.Row{s.ID, s.Title, s.DateTime, s.Description})
			}
			t.Render()
			return nil
		},
	}
}

func newSeatsCmd(opts *options) *cobra.Command {
	var showID int
	cmd := &cobra.Command{
		Use:   "seats",
		Short: "Print the seat grid of a show",
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.core()
			if err != nil {
				return err
			}
			show, err := core.Catalog.Get(showID)
			if err != nil {
				return fmt.Errorf("show %d: %w", showID, err)
			}
			doc, err := core.Store.Load(cmd.Context())
			if err != nil {
				return err
			}
			seats, ok := doc.Shows[showID]
			if !ok {
				return fmt.Errorf("show %d has no seat map; run seatctl init", showID)
			}
			renderGrid(cmd, core.Layout, show, seats, func(code string) (bool, int) {
				return core.Pricing.IsVIP(code), core.Pricing.Price(code)
			})
			return nil
		},
	}
	cmd.Flags().IntVar(&showID, "show", 1, "show id")
	return cmd
}

// renderGrid prints one table row per seat row.  Booked seats show as "--".
func renderGrid(cmd *cobra.Command, layout model.Layout, show model.Show, seats model.SeatMap, price func(string) (bool, int)) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle(fmt.Sprintf("%s  %s", show.Title, show.DateTime))

	header := table.Row{"Row"}
	for col := 1; col <= layout.Cols; col++ {
		header = append(header, col)
	}
	t.AppendHeader(append(header, "Price"))

	free := 0
	for _, label := range layout.RowLabels() {
		row := table.Row{label}
		for col := 1; col <= layout.Cols; col++ {
			code := model.SeatCode(label, col)
			if seats[code] == model.SeatBooked {
				row = append(row, "--")
				continue
			}
			free++
			row = append(row, code)
		}
		vip, p := price(model.SeatCode(label, 1))
		cell := fmt.Sprintf("Rs %d", p)
		if vip {
			cell += " VIP"
		}
		t.AppendRow(append(row, cell))
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d available", free)})
	t.Style().Title.Align = text.AlignCenter
	t.Style().Format.Footer = text.FormatDefault
	t.Render()
}

func newBookCmd(opts *options) *cobra.Command {
	var (
		showID int
		name   string
		email  string
		seats  string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book seats and write the ticket PDF",
		Long: `Book seats directly against the seat store and write the ticket.

The store's lock file is shared with the server, so this is safe to run
while a server is using the same store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.core()
			if err != nil {
				return err
			}
			engine := booking.NewEngine(core.Store, core.Catalog, core.Pricing)
			b, err := engine.Book(cmd.Context(), booking.Request{
				ShowID:      showID,
				PatronName:  name,
				PatronEmail: email,
				SeatCodes:   booking.ParseSeatCodes(seats),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "booked %s for %s (%s), total Rs %d, booking %s\n",
				strings.Join(b.Seats, ", "), b.Show.Title, b.PatronName, b.Total, b.ID)

			tickets, err := core.Tickets()
			if err != nil {
				return fmt.Errorf("seats are booked but the ticket font failed: %w", err)
			}
			art, err := tickets.Render(*b)
			if err != nil {
				return fmt.Errorf("seats are booked but the ticket failed: %w", err)
			}
			if dir := filepath.Dir(out); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(out, art.Document, 0o644); err != nil {
				return fmt.Errorf("seats are booked but the ticket could not be written: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ticket written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().IntVar(&showID, "show", 0, "show id")
	cmd.Flags().StringVar(&name, "name", "", "patron name (default Guest)")
	cmd.Flags().StringVar(&email, "email", "", "patron email")
	cmd.Flags().StringVar(&seats, "seats", "", "comma separated seat codes, e.g. A1,A2")
	cmd.Flags().StringVarP(&out, "out", "o", ticket.Filename, "ticket output path")
	_ = cmd.MarkFlagRequired("show")
	_ = cmd.MarkFlagRequired("seats")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator JWT for the /v1/ops endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = time.Duration(cfg.AccessTTLMin) * time.Minute
			}
			tok, err := utils.NewAccessToken(cfg.JWTSecret, subject, middleware.RoleOperator, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", tok.Exp.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "box-office", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default $ACCESS_TOKEN_TTL_MIN minutes)")
	return cmd
}

func newConsumeCmd() *cobra.Command {
	var logPath string
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Append booking.confirmed events to a log file until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.AMQPURL == "" {
				return errors.New("RABBITMQ_URL is not set")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err = queue.StartBookingConsumer(ctx, cfg.AMQPURL, logPath)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&logPath, "log", queue.DefaultLogPath, "booking log file")
	return cmd
}
