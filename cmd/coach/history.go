package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/coach/transcript"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List interviews stored in the SQLite transcript sink, or show one report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sink, err := transcript.OpenSQLite(cfg.Transcript.Path)
		if err != nil {
			return err
		}
		defer sink.Close()

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			record, err := sink.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if record.FinalReport == nil {
				return fmt.Errorf("session %s has no report", args[0])
			}
			printReport(out, *record.FinalReport)
			return nil
		}

		rows, err := sink.List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSESSION\tCANDIDATE\tGRADE\tRECOMMENDATION\tTURNS")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n", r.ID, r.SessionID, r.ParticipantName, r.Grade, r.Recommendation, r.Turns)
		}
		return w.Flush()
	},
}
