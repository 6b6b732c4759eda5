package mediaconv

import (
	"context"
	"log/slog"

	"mediaconv/internal/engine"
)

// Options configures a Converter. Empty binary commands resolve ffmpeg and
// ffprobe from PATH.
type Options struct {
	FFmpeg  string
	FFprobe string
	Logger  *slog.Logger
}

// Converter is the high-level entry point wrapping a resolved engine.
type Converter struct {
	engine *engine.Engine
}

// New resolves the external binaries and returns a ready Converter.
func New(opts Options) (*Converter, error) {
	eng, err := engine.New(opts.FFmpeg, opts.FFprobe, opts.Logger)
	if err != nil {
		return nil, err
	}
	return &Converter{engine: eng}, nil
}

// FFmpeg returns the resolved ffmpeg path.
func (c *Converter) FFmpeg() string { return c.engine.FFmpeg() }

// FFprobe returns the resolved ffprobe path.
func (c *Converter) FFprobe() string { return c.engine.FFprobe() }

// Probe inspects a media file. A missing or unreadable path yields
// (nil, nil) rather than an error.
func (c *Converter) Probe(ctx context.Context, path string, postersAsVideo bool) (*MediaInfo, error) {
	return c.engine.Probe(ctx, path, postersAsVideo)
}

// Convert starts a conversion of input into a single output. Drain the
// returned Progress to drive the process; its Err reports the outcome.
func (c *Converter) Convert(ctx context.Context, input, output string, spec map[string]any, twoPass bool) (*Progress, error) {
	return c.engine.Convert(ctx, input, []string{output}, []map[string]any{spec}, twoPass)
}

// ConvertMulti produces several outputs from one input in a single ffmpeg
// invocation, one spec per output.
func (c *Converter) ConvertMulti(ctx context.Context, input string, outputs []string, specs []map[string]any, twoPass bool) (*Progress, error) {
	return c.engine.Convert(ctx, input, outputs, specs, twoPass)
}

// Segment slices the input into fixed-duration chunks plus manifests under
// workDir, one directory name and spec per manifest.
func (c *Converter) Segment(ctx context.Context, input, workDir string, manifests, dirNames []string, specs []map[string]any) (*Progress, error) {
	return c.engine.Segment(ctx, input, workDir, manifests, dirNames, specs)
}

// Thumbnail extracts one frame at the given offset in seconds. Size is an
// optional WxH string.
func (c *Converter) Thumbnail(ctx context.Context, input, output string, offset float64, size string) error {
	return c.engine.Thumbnail(ctx, input, output, offset, size)
}

// Thumbnails extracts several frames in one invocation, one output file per
// request. Missing outputs after a clean exit are an error.
func (c *Converter) Thumbnails(ctx context.Context, input string, requests []ThumbnailRequest) error {
	return c.engine.Thumbnails(ctx, input, requests)
}

// ThumbnailSeries extracts a frame every interval seconds into the numbered
// output pattern.
func (c *Converter) ThumbnailSeries(ctx context.Context, input, outputPattern string, interval float64, size string) error {
	return c.engine.ThumbnailSeries(ctx, input, outputPattern, interval, size)
}
