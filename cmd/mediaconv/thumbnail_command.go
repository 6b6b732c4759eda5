package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediaconv"
	"mediaconv/internal/history"
)

func newThumbnailCommand(ctx *commandContext) *cobra.Command {
	var outputs []string
	var ats []float64
	var every float64
	var size string

	cmd := &cobra.Command{
		Use:   "thumbnail <input>",
		Short: "Extract still frames from a media file",
		Long: `Thumbnail grabs one frame per --output/--at pair, all in a single
ffmpeg invocation. With --every the single output is treated as a numbered
pattern (frame-%03d.png) and one frame is extracted per interval.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			conv, err := ctx.ensureConverter()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if len(outputs) == 0 {
				return fmt.Errorf("no output path given; use --output")
			}
			if !cmd.Flags().Changed("size") {
				size = cfg.Conversion.ThumbnailSize
			}
			if len(ats) == 0 {
				ats = []float64{cfg.Conversion.ThumbnailAt}
			}

			input := args[0]
			started := time.Now().UTC()
			var runErr error
			switch {
			case every > 0:
				if len(outputs) != 1 {
					runErr = fmt.Errorf("--every takes a single output pattern")
				} else {
					runErr = conv.ThumbnailSeries(cmd.Context(), input, outputs[0], every, size)
				}
			case len(outputs) == 1:
				runErr = conv.Thumbnail(cmd.Context(), input, outputs[0], ats[0], size)
			default:
				if len(ats) != len(outputs) {
					return fmt.Errorf("%d outputs but %d --at positions", len(outputs), len(ats))
				}
				requests := make([]mediaconv.ThumbnailRequest, len(outputs))
				for i, out := range outputs {
					requests[i] = mediaconv.ThumbnailRequest{Offset: ats[i], Output: out, Size: size}
				}
				runErr = conv.Thumbnails(cmd.Context(), input, requests)
			}

			recordHistory(cmd, cfg, logger, history.Record{
				Kind:      "thumbnail",
				Input:     input,
				Outputs:   outputs,
				StartedAt: started,
			}, runErr)

			if runErr != nil {
				return runErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", strings.Join(outputs, ", "))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&outputs, "output", "o", nil, "Output image path or numbered pattern (repeatable)")
	cmd.Flags().Float64SliceVar(&ats, "at", nil, "Position in seconds, one per output (default from config)")
	cmd.Flags().Float64Var(&every, "every", 0, "Extract one frame per interval in seconds")
	cmd.Flags().StringVar(&size, "size", "", "Frame size as WIDTHxHEIGHT (default from config)")
	return cmd
}
