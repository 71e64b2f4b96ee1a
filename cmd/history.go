package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"controllerboard/internal/models"
	"controllerboard/internal/repository"
	"controllerboard/internal/service"

	"github.com/spf13/cobra"
)

const historyTimeLayout = "2006-01-02 15:04:05"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the event log of past wake cycles.",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		fromStr, _ := flags.GetString("from")
		toStr, _ := flags.GetString("to")
		typ, _ := flags.GetString("type")
		cycle, _ := flags.GetString("cycle")

		filter := service.LogFilter{Type: typ, CycleID: cycle}
		var err error
		if filter.From, err = parseFlagTime(fromStr); err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		if filter.To, err = parseFlagTime(toStr); err != nil {
			return fmt.Errorf("--to: %w", err)
		}

		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		conn, err := openDB(cfg, log)
		if err != nil {
			return err
		}
		defer closeDB(conn, log)

		events, err := service.NewEventLogService(repository.NewEventSQLite(conn)).List(cmd.Context(), filter)
		if err != nil {
			return err
		}
		return printEvents(cmd.OutOrStdout(), events)
	},
}

func init() {
	historyCmd.Flags().String("from", "", "Start of range (RFC3339 or YYYY-MM-DD)")
	historyCmd.Flags().String("to", "", "End of range (RFC3339 or YYYY-MM-DD)")
	historyCmd.Flags().String("type", "", "Only events of this type, e.g. ACTIVATE")
	historyCmd.Flags().String("cycle", "", "Only events of one wake cycle")
}

func parseFlagTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, historyTimeLayout, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

func printEvents(w io.Writer, events []models.NodeEvent) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tCYCLE\tTYPE\tDESCRIPTION\tMETADATA")
	for _, e := range events {
		meta := ""
		if e.Metadata != nil {
			b, err := json.Marshal(e.Metadata)
			if err != nil {
				return err
			}
			meta = string(b)
		}
		cycle := e.CycleID
		if len(cycle) > 8 {
			cycle = cycle[:8]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.OccurredAt.Local().Format(historyTimeLayout), cycle, e.Type, e.Description, meta)
	}
	return tw.Flush()
}
