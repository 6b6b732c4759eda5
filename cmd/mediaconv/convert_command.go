package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"mediaconv"
	"mediaconv/internal/config"
	"mediaconv/internal/history"
	"mediaconv/internal/logging"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var outputs []string
	var specStrings []string
	var specFile string
	var twoPass bool
	var noLock bool

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a media file according to a declarative spec",
		Long: `Convert runs ffmpeg with flags compiled from a JSON option tree, for
example:

  mediaconv convert in.avi -o out.mp4 \
    -s '{"format":"mp4","video":{"codec":"h264","bitrate":2000},"audio":{"codec":"aac"}}'

Pass one --output and --spec pair per target to produce several outputs
from a single invocation.`,
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

			specs, err := parseSpecs(specStrings, specFile)
			if err != nil {
				return err
			}
			if len(outputs) == 0 {
				return fmt.Errorf("no output path given; use --output")
			}
			if len(outputs) != len(specs) {
				return fmt.Errorf("%d outputs but %d specs", len(outputs), len(specs))
			}
			if !cmd.Flags().Changed("two-pass") {
				twoPass = cfg.Conversion.TwoPass
			}

			if !noLock {
				unlock, err := lockOutputs(outputs)
				if err != nil {
					return err
				}
				defer unlock()
			}

			input := args[0]
			started := time.Now().UTC()
			progress, err := conv.ConvertMulti(cmd.Context(), input, outputs, specs, twoPass)
			if err != nil {
				return err
			}

			drainProgress(progress, logger, "convert")
			runErr := progress.Err()

			recordHistory(cmd, cfg, logger, history.Record{
				Kind:      "convert",
				Input:     input,
				Outputs:   outputs,
				TwoPass:   twoPass,
				StartedAt: started,
			}, runErr)

			if runErr != nil {
				return runErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Converted %s into %d output(s)\n", input, len(outputs))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&outputs, "output", "o", nil, "Output path (repeat for multiple outputs)")
	cmd.Flags().StringArrayVarP(&specStrings, "spec", "s", nil, "Conversion spec as inline JSON (repeat per output)")
	cmd.Flags().StringVar(&specFile, "spec-file", "", "File holding a JSON spec or array of specs")
	cmd.Flags().BoolVar(&twoPass, "two-pass", false, "Encode in two passes")
	cmd.Flags().BoolVar(&noLock, "no-lock", false, "Skip the per-output lock files")
	return cmd
}

// lockOutputs takes an advisory lock per output so concurrent invocations
// cannot write the same target.
func lockOutputs(outputs []string) (func(), error) {
	locks := make([]*flock.Flock, 0, len(outputs))
	release := func() {
		for _, l := range locks {
			_ = l.Unlock()
			_ = os.Remove(l.Path())
		}
	}
	for _, output := range outputs {
		l := flock.New(output + ".lock")
		ok, err := l.TryLock()
		if err != nil {
			release()
			return nil, fmt.Errorf("lock %s: %w", output, err)
		}
		if !ok {
			release()
			return nil, fmt.Errorf("output %s is locked by another conversion", output)
		}
		locks = append(locks, l)
	}
	return release, nil
}

// drainProgress pulls the sequence to completion, showing a terminal bar on
// a TTY and sampled log lines otherwise.
func drainProgress(progress *mediaconv.Progress, logger *slog.Logger, stage string) {
	if stdoutIsTerminal() {
		bar := progressbar.NewOptions(100,
			progressbar.OptionSetDescription(stage),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
		for {
			frac, ok := progress.Next()
			if !ok {
				break
			}
			_ = bar.Set(int(frac * 100))
		}
		_ = bar.Finish()
		return
	}

	sampler := logging.NewProgressSampler(0.05)
	for {
		frac, ok := progress.Next()
		if !ok {
			return
		}
		if sampler.ShouldLog(frac, stage) {
			logger.Info("conversion progress",
				logging.String("stage", stage),
				logging.Float64("fraction", frac))
		}
	}
}

// recordHistory appends the finished run to the history database. Failures
// to record are logged, never fatal.
func recordHistory(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, rec history.Record, runErr error) {
	if !cfg.History.Enabled {
		return
	}
	rec.FinishedAt = time.Now().UTC()
	rec.Status = history.StatusSucceeded
	if runErr != nil {
		rec.Status = history.StatusFailed
		rec.Detail = runErr.Error()
	}

	store, err := history.Open(cfg)
	if err != nil {
		logger.Warn("history unavailable", logging.Error(err))
		return
	}
	defer store.Close()
	if _, err := store.Append(cmd.Context(), rec); err != nil {
		logger.Warn("history record failed", logging.Error(err))
	}
}
