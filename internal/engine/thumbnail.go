package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"mediaconv/internal/logging"
)

// Thumbnail extracts a single frame at the given offset in seconds. The
// optional size is an ffmpeg WxH string.
func (e *Engine) Thumbnail(ctx context.Context, input, output string, offset float64, size string) error {
	if err := statInput(input); err != nil {
		return err
	}
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-ss", strconv.FormatFloat(offset, 'f', -1, 64),
		"-i", input,
		"-frames:v", "1",
	}
	if size != "" {
		args = append(args, "-s", size)
	}
	args = append(args, output)
	if err := e.runQuiet(ctx, args); err != nil {
		return err
	}
	if info, err := os.Stat(output); err != nil || info.Size() == 0 {
		return &ConversionFailedError{Detail: fmt.Sprintf("thumbnail %s was not produced", output)}
	}
	return nil
}

// ThumbnailRequest asks for one frame at Offset seconds written to Output.
// Size ("WxH") and Quality (-q:v, lower is better) are optional.
type ThumbnailRequest struct {
	Offset  float64
	Output  string
	Size    string
	Quality int
}

// Thumbnails extracts several frames in a single ffmpeg invocation, one
// output per request. Every requested file must exist afterwards.
func (e *Engine) Thumbnails(ctx context.Context, input string, requests []ThumbnailRequest) error {
	if err := statInput(input); err != nil {
		return err
	}
	if len(requests) == 0 {
		return fmt.Errorf("thumbnails: no requests given")
	}
	args := []string{"-hide_banner", "-nostdin", "-y", "-i", input}
	for _, req := range requests {
		if req.Size != "" {
			args = append(args, "-s", req.Size)
		}
		if req.Quality > 0 {
			args = append(args, "-q:v", strconv.Itoa(req.Quality))
		}
		args = append(args,
			"-ss", strconv.FormatFloat(req.Offset, 'f', -1, 64),
			"-frames:v", "1",
			req.Output)
	}
	if err := e.runQuiet(ctx, args); err != nil {
		return err
	}
	for _, req := range requests {
		if info, err := os.Stat(req.Output); err != nil || info.Size() == 0 {
			return &ConversionFailedError{Detail: fmt.Sprintf("thumbnail %s was not produced", req.Output)}
		}
	}
	return nil
}

// ThumbnailSeries extracts one frame every interval seconds into the numbered
// output pattern (for example frame-%03d.png).
func (e *Engine) ThumbnailSeries(ctx context.Context, input, outputPattern string, interval float64, size string) error {
	if err := statInput(input); err != nil {
		return err
	}
	if interval <= 0 {
		return fmt.Errorf("thumbnail series: interval must be positive, got %v", interval)
	}
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", input,
		"-vf", fmt.Sprintf("fps=1/%s", strconv.FormatFloat(interval, 'f', -1, 64)),
	}
	if size != "" {
		args = append(args, "-s", size)
	}
	args = append(args, outputPattern)
	return e.runQuiet(ctx, args)
}

// runQuiet runs ffmpeg to completion, keeping stderr only for the failure
// detail.
func (e *Engine) runQuiet(ctx context.Context, args []string) error {
	e.logger.Debug("running ffmpeg",
		logging.String("binary", e.ffmpeg),
		logging.String("args", strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, e.ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		} else {
			detail = fmt.Sprintf("%v\n%s", err, tailOf(detail))
		}
		return &ConversionFailedError{Detail: detail}
	}
	return nil
}

func tailOf(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > diagnosticTailLines {
		lines = lines[len(lines)-diagnosticTailLines:]
	}
	return strings.Join(lines, "\n")
}
