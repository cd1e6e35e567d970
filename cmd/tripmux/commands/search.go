package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tripmux/tripmux/pkg/currency"
	"github.com/tripmux/tripmux/pkg/datemode"
	"github.com/tripmux/tripmux/pkg/search"
	"github.com/tripmux/tripmux/views"
)

func searchCmd(c *cli) *cobra.Command {
	var (
		mode         string
		passengers   string
		currencyMode string
		lang         string
	)

	cmd := &cobra.Command{
		Use:   "search ORIGIN DESTINATION DEPARTURE",
		Short: "Search the cheapest fares",
		Long: "Search the cheapest fares between two IATA codes.\n\n" +
			"DEPARTURE is a date (2026-04-02), a month (2026-04) or a year (2026),\n" +
			"matching --mode.",
		Example: "  tripmux search IST AYT 2026-04 --mode month --currency EUR",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := c.open(ctx, lang)
			if err != nil {
				return err
			}
			defer s.Close()
			w := s.Widget

			if currencyMode != "" {
				m, ok := currency.ParseMode(strings.ToUpper(currencyMode))
				if !ok {
					return fmt.Errorf("unknown currency %q", currencyMode)
				}
				w.Prefs.SetCurrencyMode(ctx, m)
			}
			if mode != "" {
				m, ok := datemode.ParseMode(mode)
				if !ok {
					return fmt.Errorf("unknown date mode %q", mode)
				}
				w.Dates.SetMode(m)
			}
			w.SetPassengers(passengers)
			w.Dates.SetValue(args[2])

			res, err := w.RunSearch(ctx, args[0], args[1], w.Dates.DepartureValue())
			out := search.Outcome{Results: res, Err: err}
			printResults(cmd.OutOrStdout(), views.NewResults(w.Prefs.Translator(), out, false))
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&mode, "mode", "", "date mode: day, month or year (default day)")
	f.StringVarP(&passengers, "passengers", "n", "1", "passenger count, clamped to 1..9")
	f.StringVar(&currencyMode, "currency", "", "AUTO or a currency code; remembered in the profile")
	f.StringVar(&lang, "lang", "", "interface language; remembered in the profile")
	return cmd
}

func printResults(out io.Writer, r views.Results) {
	switch r.State {
	case views.ResultsError, views.ResultsEmpty:
		fmt.Fprintln(out, r.Message)
		return
	case views.ResultsShown:
	default:
		return
	}

	if r.Mismatch != "" {
		fmt.Fprintln(out, "! "+r.Mismatch)
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range r.Rows {
		best := ""
		if row.Best {
			best = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s (%s)\t%s\t%s\t%s\n",
			best, row.Date, row.Route, row.Airline, row.AirlineCode, row.Duration, row.Stops, row.Price)
	}
	_ = tw.Flush()
}
