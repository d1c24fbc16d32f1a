package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oldlogancap/logan-screener/internal/screener"
)

func newScreenCmd() *cobra.Command {
	var (
		index      string
		sector     string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "screen [tickers...]",
		Short: "Screen tickers against the growth criteria",
		Example: `  logan-screener screen AAPL MSFT NVDA
  logan-screener screen --index sp500 --limit 20
  logan-screener screen AAPL --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(false)
			if err != nil {
				return err
			}
			defer app.close()
			ctx := cmd.Context()

			tickers := args
			if len(tickers) == 0 {
				if index == "" {
					return fmt.Errorf("provide tickers or --index")
				}
				report, err := app.builder.Build(ctx, index, 0)
				if err != nil {
					return err
				}
				tickers = report.Included
			}

			if sector != "" {
				kept, excluded := app.builder.FilterSector(ctx, tickers, sector)
				if len(excluded) > 0 {
					fmt.Printf("Sector filter %q dropped %d of %d tickers\n",
						sector, len(excluded), len(tickers))
				}
				tickers = kept
			}

			report, err := app.engine.ScreenN(ctx, tickers, limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(report)
			}
			printReport(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&index, "index", "", "screen an index universe instead of explicit tickers")
	cmd.Flags().StringVar(&sector, "sector", "", "keep only tickers in this sector")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum result rows (0 = configured default)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the full report as JSON")
	return cmd
}

func printReport(report *screener.Report) {
	fmt.Printf("Profile: %s   Screened: %d   Passed: %d   Cache hits: %d   Took: %s\n\n",
		report.Profile, report.Screened, len(report.Passed), report.CacheHits,
		report.Duration.Round(1e7))

	if len(report.Passed) == 0 {
		fmt.Println("No tickers passed the screen.")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tTICKER\tCOMPANY\tEARN %\tREL STR\tPRICE\tOP LEV")
		for _, row := range report.Passed {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				row.Rank, row.Ticker, row.Company,
				fmtPct(row.EarningsGrowthPct),
				fmtFloat(row.RelativeStrength),
				fmtFloat(row.Price),
				fmtFloat(row.OperatingLeverage))
		}
		w.Flush()
	}

	if len(report.Failures) > 0 {
		fmt.Printf("\nFiltered out (%d):\n", len(report.Failures))
		for ticker, filter := range report.Failures {
			fmt.Printf("  %-8s %s\n", ticker, filter)
		}
	}
	if len(report.Skipped) > 0 {
		var parts []string
		for symbol, reason := range report.Skipped {
			parts = append(parts, fmt.Sprintf("%s (%s)", symbol, reason))
		}
		fmt.Printf("\nSkipped: %s\n", strings.Join(parts, ", "))
	}
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func fmtPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v)
}
