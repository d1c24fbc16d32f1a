package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oldlogancap/logan-screener/internal/scheduler"
)

func newSchedulerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run the nightly refresh and cache prune schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(true)
			if err != nil {
				return err
			}
			defer app.close()

			sched := scheduler.New(app.log)
			for _, job := range scheduler.DefaultJobs(app.engine, app.builder, app.log) {
				if err := sched.Register(job); err != nil {
					return err
				}
			}

			sched.Start()
			defer sched.Stop()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop
			return nil
		},
	}
}
