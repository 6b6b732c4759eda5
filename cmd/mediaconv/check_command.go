package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaconv/internal/deps"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the external binaries are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			requirements := []deps.Requirement{
				{Name: "FFmpeg", Command: commandOrDefault(cfg.Tools.FFmpeg, "ffmpeg"), Description: "Conversion engine"},
				{Name: "FFprobe", Command: commandOrDefault(cfg.Tools.FFprobe, "ffprobe"), Description: "Media prober"},
			}
			results := deps.CheckBinaries(requirements)

			type checkResult struct {
				Name      string `json:"name"`
				Command   string `json:"command"`
				Available bool   `json:"available"`
				Version   string `json:"version,omitempty"`
				Detail    string `json:"detail,omitempty"`
			}
			checks := make([]checkResult, 0, len(results))
			missing := false
			for _, status := range results {
				check := checkResult{
					Name:      status.Name,
					Command:   status.Command,
					Available: status.Available,
					Detail:    status.Detail,
				}
				if status.Available {
					check.Version = deps.ToolVersion(status.Path)
				} else {
					missing = true
				}
				checks = append(checks, check)
			}

			if jsonOutput {
				if err := writeJSON(cmd, checks); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(checks))
				for _, check := range checks {
					detail := check.Version
					if detail == "" {
						detail = check.Detail
					}
					rows = append(rows, []string{check.Name, check.Command, yesNo(check.Available), detail})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Dependency", "Command", "Available", "Detail"}, rows))
			}

			if missing {
				return fmt.Errorf("required binaries missing")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable output")
	return cmd
}

func commandOrDefault(command, fallback string) string {
	if command == "" {
		return fallback
	}
	return command
}
