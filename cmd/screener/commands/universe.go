package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newUniverseCmd() *cobra.Command {
	var (
		limit  int
		sector string
	)

	cmd := &cobra.Command{
		Use:   "universe <index>",
		Short: "Build a candidate ticker universe from an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(false)
			if err != nil {
				return err
			}
			defer app.close()

			report, err := app.builder.Build(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			if sector != "" {
				kept, excluded := app.builder.FilterSector(cmd.Context(), report.Included, sector)
				report.Included = kept
				for ticker, reason := range excluded {
					report.Excluded[ticker] = reason
				}
			}

			fmt.Printf("%s: %d fetched, %d included, %d excluded\n\n",
				report.Index, report.Fetched, len(report.Included), len(report.Excluded))
			fmt.Println(strings.Join(report.Included, " "))

			if len(report.Excluded) > 0 {
				fmt.Println("\nExcluded:")
				for symbol, reason := range report.Excluded {
					fmt.Printf("  %-12q %s\n", symbol, reason)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "keep only the N largest companies (0 = all)")
	cmd.Flags().StringVar(&sector, "sector", "", "keep only tickers in this sector")
	return cmd
}
