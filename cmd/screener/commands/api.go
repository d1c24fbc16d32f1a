package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oldlogancap/logan-screener/internal/api"
	"github.com/oldlogancap/logan-screener/internal/api/handlers"
)

func newAPICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(false)
			if err != nil {
				return err
			}
			defer app.close()

			h := handlers.New(
				app.cfg, app.db, app.engine, app.builder, app.resolver,
				app.results, app.filings, app.chat, app.log)
			server := api.NewServer(app.cfg, h, app.log)

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				app.log.WithField("signal", sig.String()).Info("shutting down")
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				return server.Shutdown(ctx)
			}
		},
	}
}
