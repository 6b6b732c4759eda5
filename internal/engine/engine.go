package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"mediaconv/internal/deps"
	"mediaconv/internal/logging"
	"mediaconv/internal/media/ffprobe"
	"mediaconv/internal/plan"
)

// Engine wraps resolved ffmpeg and ffprobe binaries.
type Engine struct {
	ffmpeg  string
	ffprobe string
	logger  *slog.Logger
}

// New resolves the configured binaries. Empty commands fall back to PATH
// lookup of the conventional names.
func New(ffmpegCmd, ffprobeCmd string, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	ffmpegPath, err := deps.ResolveTool(ffmpegCmd, "ffmpeg")
	if err != nil {
		return nil, &EngineUnavailableError{Detail: err.Error()}
	}
	ffprobePath, err := deps.ResolveTool(ffprobeCmd, "ffprobe")
	if err != nil {
		return nil, &EngineUnavailableError{Detail: err.Error()}
	}
	return &Engine{ffmpeg: ffmpegPath, ffprobe: ffprobePath, logger: logger}, nil
}

// FFmpeg returns the resolved ffmpeg path.
func (e *Engine) FFmpeg() string { return e.ffmpeg }

// FFprobe returns the resolved ffprobe path.
func (e *Engine) FFprobe() string { return e.ffprobe }

// Probe inspects a media file. A missing path yields (nil, nil).
func (e *Engine) Probe(ctx context.Context, path string, postersAsVideo bool) (*ffprobe.MediaInfo, error) {
	result, err := ffprobe.Inspect(ctx, e.ffprobe, path)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return ffprobe.NewMediaInfo(result, postersAsVideo), nil
}

// Convert compiles one spec per output and starts ffmpeg. The returned
// Progress must be drained or cancelled; the process does not run to
// completion on its own once the caller stops pulling.
func (e *Engine) Convert(ctx context.Context, input string, outputs []string, specs []map[string]any, twoPass bool) (*Progress, error) {
	if len(outputs) == 0 {
		return nil, fmt.Errorf("convert: no outputs given")
	}
	if len(outputs) != len(specs) {
		return nil, fmt.Errorf("convert: %d outputs but %d specs", len(outputs), len(specs))
	}

	compiled := make([][]string, len(specs))
	for i, spec := range specs {
		flags, err := plan.Compile(spec)
		if err != nil {
			if len(specs) > 1 {
				return nil, fmt.Errorf("output %d: %w", i, err)
			}
			return nil, err
		}
		compiled[i] = flags
	}

	if err := statInput(input); err != nil {
		return nil, err
	}
	total := e.probeDuration(ctx, input)

	var runs []progressRun
	if twoPass {
		logBases := make([]string, len(outputs))
		base := filepath.Join(os.TempDir(), "mediaconv-"+uuid.NewString())
		for i := range outputs {
			logBases[i] = fmt.Sprintf("%s-%d", base, i)
		}

		first := progressRun{lo: 0, hi: 0.5}
		first.args = append(first.args, globalArgs(input)...)
		for i, flags := range compiled {
			first.args = append(first.args, flags...)
			first.args = append(first.args, "-pass", "1", "-passlogfile", logBases[i], os.DevNull)
		}

		second := progressRun{lo: 0.5, hi: 1}
		second.args = append(second.args, globalArgs(input)...)
		for i, flags := range compiled {
			second.args = append(second.args, flags...)
			second.args = append(second.args, "-pass", "2", "-passlogfile", logBases[i], outputs[i])
		}
		second.before = func() error {
			for _, lb := range logBases {
				logFile := lb + "-0.log"
				if _, err := os.Stat(logFile); err != nil {
					return &ConversionFailedError{Detail: fmt.Sprintf("first pass log %s missing", logFile)}
				}
			}
			return nil
		}

		runs = []progressRun{first, second}
		cleanup := make([]string, len(logBases))
		copy(cleanup, logBases)
		return e.newProgress(ctx, runs, total, cleanup), nil
	}

	run := progressRun{lo: 0, hi: 1}
	run.args = append(run.args, globalArgs(input)...)
	for i, flags := range compiled {
		run.args = append(run.args, flags...)
		run.args = append(run.args, outputs[i])
	}
	runs = []progressRun{run}
	return e.newProgress(ctx, runs, total, nil), nil
}

// Segment slices the input into fixed-duration chunks under workDir. Each
// entry pairs a manifest path, a directory name under workDir, and a
// segment spec; a single ffmpeg invocation produces all of them.
func (e *Engine) Segment(ctx context.Context, input, workDir string, manifests, dirNames []string, specs []map[string]any) (*Progress, error) {
	if len(manifests) == 0 {
		return nil, fmt.Errorf("segment: no manifests given")
	}
	if len(manifests) != len(dirNames) || len(manifests) != len(specs) {
		return nil, fmt.Errorf("segment: %d manifests, %d directories, %d specs", len(manifests), len(dirNames), len(specs))
	}

	type segOut struct {
		flags  []string
		target string
	}
	outs := make([]segOut, len(specs))
	for i, spec := range specs {
		segDir := filepath.Join(workDir, dirNames[i])
		flags, target, err := plan.CompileSegment(spec, manifests[i], segDir)
		if err != nil {
			if len(specs) > 1 {
				return nil, fmt.Errorf("output %d: %w", i, err)
			}
			return nil, err
		}
		outs[i] = segOut{flags: flags, target: target}
	}

	if err := statInput(input); err != nil {
		return nil, err
	}
	for i := range dirNames {
		if err := os.MkdirAll(filepath.Join(workDir, dirNames[i]), 0o755); err != nil {
			return nil, fmt.Errorf("segment: %w", err)
		}
	}
	total := e.probeDuration(ctx, input)

	run := progressRun{lo: 0, hi: 1}
	run.args = append(run.args, globalArgs(input)...)
	for _, out := range outs {
		run.args = append(run.args, out.flags...)
		run.args = append(run.args, out.target)
	}
	return e.newProgress(ctx, []progressRun{run}, total, nil), nil
}

// probeDuration returns the input duration in seconds, or 0 when the probe
// fails or reports nothing usable. Progress fractions are suppressed at 0.
func (e *Engine) probeDuration(ctx context.Context, input string) float64 {
	info, err := e.Probe(ctx, input, true)
	if err != nil || info == nil {
		e.logger.Debug("input duration unavailable", logging.String("input", input))
		return 0
	}
	return info.Format.Duration
}

func statInput(input string) error {
	info, err := os.Stat(input)
	if err != nil || info.IsDir() {
		return &InputNotFoundError{Path: input}
	}
	return nil
}

func globalArgs(input string) []string {
	return []string{"-hide_banner", "-nostdin", "-y", "-i", input}
}
