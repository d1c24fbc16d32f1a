package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

func newFilingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filing <ticker>",
		Short: "Fetch and store the latest quarterly filing for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(true)
			if err != nil {
				return err
			}
			defer app.close()

			ticker := contracts.NormalizeTicker(args[0])
			if !contracts.ValidTicker(ticker) {
				return fmt.Errorf("invalid ticker %q", args[0])
			}

			filing, inserted, err := app.resolver.IngestLatestFiling(cmd.Context(), ticker)
			if err != nil {
				return err
			}

			status := "already stored"
			if inserted {
				status = "stored"
			}
			fmt.Printf("%s %s filed %s (%s, %s)\n",
				filing.Ticker, filing.FormType,
				filing.FilingDate.Format("2006-01-02"), filing.AccessionNumber, status)
			fmt.Printf("  Revenue:           %s\n", fmtMoney(filing.Revenue))
			fmt.Printf("  Net income:        %s\n", fmtMoney(filing.NetIncome))
			fmt.Printf("  Total assets:      %s\n", fmtMoney(filing.TotalAssets))
			fmt.Printf("  Total liabilities: %s\n", fmtMoney(filing.TotalLiabilities))
			if filing.ManagementDiscussion != nil {
				fmt.Printf("  Discussion:        %d characters extracted\n", len(*filing.ManagementDiscussion))
			}
			return nil
		},
	}
}

func fmtMoney(v *float64) string {
	if v == nil {
		return "not reported"
	}
	switch {
	case *v >= 1e9 || *v <= -1e9:
		return fmt.Sprintf("$%.2fB", *v/1e9)
	case *v >= 1e6 || *v <= -1e6:
		return fmt.Sprintf("$%.2fM", *v/1e6)
	default:
		return fmt.Sprintf("$%.0f", *v)
	}
}
