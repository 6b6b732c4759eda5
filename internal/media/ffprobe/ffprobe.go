package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ProbeFailedError reports that the probing tool ran but produced a report
// that could not be decoded.
type ProbeFailedError struct {
	Path   string
	Detail string
}

func (e *ProbeFailedError) Error() string {
	return fmt.Sprintf("probe of %s failed: %s", e.Path, e.Detail)
}

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int               `json:"index"`
	CodecName    string            `json:"codec_name"`
	CodecType    string            `json:"codec_type"`
	Duration     string            `json:"duration"`
	BitRate      string            `json:"bit_rate"`
	StartTime    string            `json:"start_time"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	PixFmt       string            `json:"pix_fmt"`
	AvgFrameRate string            `json:"avg_frame_rate"`
	RFrameRate   string            `json:"r_frame_rate"`
	SampleRate   string            `json:"sample_rate"`
	Channels     int               `json:"channels"`
	Disposition  Disposition       `json:"disposition"`
	Tags         map[string]string `json:"tags"`
}

// Disposition carries the container-level stream flags mediaconv cares
// about.
type Disposition struct {
	Default     int `json:"default"`
	AttachedPic int `json:"attached_pic"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string            `json:"filename"`
	NBStreams  int               `json:"nb_streams"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	FormatName string            `json:"format_name"`
	Tags       map[string]string `json:"tags"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON
// report. A path that does not exist, is not a regular file, or that the
// tool rejects yields (nil, nil): an unreadable input is not an error at the
// probing layer.
func Inspect(ctx context.Context, binary string, path string) (*Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return nil, nil
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The tool ran and rejected the input: not a media resource.
			return nil, nil
		}
		return nil, fmt.Errorf("ffprobe inspect: %w", err)
	}

	result, err := Parse(stdout.Bytes())
	if err != nil {
		return nil, &ProbeFailedError{Path: path, Detail: err.Error()}
	}
	return result, nil
}

// Parse decodes a captured ffprobe JSON report.
func Parse(data []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if len(result.Streams) == 0 && result.Format.FormatName == "" {
		return nil, errors.New("report carries no format or stream sections")
	}
	result.raw = append([]byte(nil), data...)
	return &result, nil
}

// RawJSON returns the raw ffprobe JSON payload.
func (r *Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}
