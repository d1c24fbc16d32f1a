package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oldlogancap/logan-screener/internal/store"
)

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(true)
			if err != nil {
				return err
			}
			defer app.close()

			if err := store.InitSchema(cmd.Context(), app.db, app.log); err != nil {
				return err
			}
			fmt.Println("Schema applied.")
			return nil
		},
	}
}
