package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mediaconv/internal/history"
)

func newSegmentCommand(ctx *commandContext) *cobra.Command {
	var workDir string
	var manifests []string
	var dirNames []string
	var specStrings []string
	var specFile string

	cmd := &cobra.Command{
		Use:   "segment <input>",
		Short: "Slice a media file into fixed-duration segments plus manifests",
		Long: `Segment stream-copies the input into numbered .ts chunks with one
manifest per rendition, for example:

  mediaconv segment in.mp4 --manifest hls/index.m3u8 --dir hls \
    -s '{"segment_time":6}'`,
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

			if workDir == "" {
				workDir = cfg.Paths.WorkDir
			}
			var specs []map[string]any
			if len(specStrings) == 0 && specFile == "" {
				specs = []map[string]any{{"segment_time": cfg.Conversion.SegmentTime}}
			} else {
				specs, err = parseSpecs(specStrings, specFile)
				if err != nil {
					return err
				}
			}
			if len(manifests) == 0 {
				return fmt.Errorf("no manifest path given; use --manifest")
			}
			if len(dirNames) == 0 {
				dirNames = make([]string, len(manifests))
				for i, manifest := range manifests {
					base := filepath.Base(manifest)
					dirNames[i] = base[:len(base)-len(filepath.Ext(base))]
				}
			}
			if len(manifests) != len(dirNames) || len(manifests) != len(specs) {
				return fmt.Errorf("%d manifests, %d directories, %d specs", len(manifests), len(dirNames), len(specs))
			}

			input := args[0]
			started := time.Now().UTC()
			progress, err := conv.Segment(cmd.Context(), input, workDir, manifests, dirNames, specs)
			if err != nil {
				return err
			}

			drainProgress(progress, logger, "segment")
			runErr := progress.Err()

			recordHistory(cmd, cfg, logger, history.Record{
				Kind:      "segment",
				Input:     input,
				Outputs:   manifests,
				StartedAt: started,
			}, runErr)

			if runErr != nil {
				return runErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Segmented %s under %s\n", input, workDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "work-dir", "", "Directory receiving segment subdirectories (default from config)")
	cmd.Flags().StringArrayVar(&manifests, "manifest", nil, "Manifest path (repeat per rendition)")
	cmd.Flags().StringArrayVar(&dirNames, "dir", nil, "Segment directory name under the work dir (repeat per rendition)")
	cmd.Flags().StringArrayVarP(&specStrings, "spec", "s", nil, "Segment spec as inline JSON (repeat per rendition)")
	cmd.Flags().StringVar(&specFile, "spec-file", "", "File holding a JSON spec or array of specs")
	return cmd
}
