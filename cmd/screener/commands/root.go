package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "logan-screener",
		Short: "Growth stock screener",
		Long: `logan-screener screens US equities against growth criteria:
quarterly earnings acceleration, relative strength against a benchmark,
trend quality, accumulation, institutional sponsorship and an optional
AI-assisted read of the company's story.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newScreenCmd(),
		newUniverseCmd(),
		newFilingCmd(),
		newChatCmd(),
		newAPICmd(),
		newSchedulerCmd(),
		newInitDBCmd(),
		newStatusCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
