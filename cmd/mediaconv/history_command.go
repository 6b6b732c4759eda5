package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediaconv/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history recording is disabled in the configuration")
			}

			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversions recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.FinishedAt.Local().Format(time.DateTime),
					rec.Kind,
					rec.Input,
					strings.Join(rec.Outputs, ", "),
					rec.Status,
					yesNo(rec.TwoPass),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Finished", "Kind", "Input", "Outputs", "Status", "Two-pass"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable output")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records to show")
	return cmd
}
