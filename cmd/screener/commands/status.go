package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and connectivity status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(false)
			if err != nil {
				return err
			}
			defer app.close()
			cfg := app.cfg

			fmt.Printf("Environment:  %s\n", cfg.Env)
			fmt.Printf("Profile:      %s (rank by %s)\n", cfg.Screen.Profile, cfg.Screen.RankBy)
			fmt.Printf("Benchmark:    %s\n", cfg.Screen.BenchmarkTicker)
			fmt.Printf("Cache:        max age %s, retention %d days\n",
				cfg.Screen.CacheMaxAge, cfg.Screen.CacheRetentionDays)

			if app.db != nil {
				status, err := app.db.HealthCheck(cmd.Context())
				if err != nil {
					fmt.Printf("Database:     unhealthy (%s)\n", status.Error)
				} else {
					fmt.Printf("Database:     healthy (%d/%d connections, ping %s)\n",
						status.TotalConns, status.MaxConns, status.ResponseTime)
				}
			} else {
				fmt.Println("Database:     not configured")
			}

			fmt.Printf("AI backend:   configured=%t (model %s)\n",
				cfg.IsOpenAIConfigured(), cfg.OpenAI.Model)
			fmt.Printf("SEC identity: configured=%t\n", cfg.IsEDGARConfigured())

			if missing := cfg.MissingKeys(); len(missing) > 0 {
				fmt.Printf("\nMissing keys: %s\n", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
