package main

import (
	"fmt"
	"time"

	"controllerboard/internal/repository"
	"controllerboard/internal/service"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show when the node last went to sleep and when it should wake.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		conn, err := openDB(cfg, log)
		if err != nil {
			return err
		}
		defer closeDB(conn, log)

		st, err := service.NewStatusService(repository.NewWakeSQLite(conn), cfg.Node.Minute).GetStatus(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "state:      %s\n", st.State)
		if st.SleepEnteredAt != nil {
			fmt.Fprintf(out, "slept at:   %s\n", st.SleepEnteredAt.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "sleep:      %d min\n", st.SleepMinutes)
			fmt.Fprintf(out, "next wake:  %s\n", st.NextWakeAt.Local().Format(time.RFC3339))
		}
		return nil
	},
}
