package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaconv/internal/logging"
)

const probeReport = `{
  "streams": [
    {"index": 0, "codec_name": "theora", "codec_type": "video", "width": 720, "height": 400}
  ],
  "format": {"format_name": "ogg", "duration": "10.000000", "size": "1024"}
}`

func writeStub(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	input := filepath.Join(dir, "input.ogv")
	if err := os.WriteFile(input, []byte("not a real video"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return input
}

// stubProbe answers every invocation with a fixed 10 second report.
func stubProbe(t *testing.T, dir string) string {
	return writeStub(t, dir, "ffprobe", "#!/bin/sh\ncat <<'EOF'\n"+probeReport+"\nEOF\n")
}

func newTestEngine(t *testing.T, ffmpegScript string) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	ffmpeg := writeStub(t, dir, "ffmpeg", ffmpegScript)
	ffprobe := stubProbe(t, dir)
	eng, err := New(ffmpeg, ffprobe, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng, dir
}

func drain(t *testing.T, progress *Progress) []float64 {
	t.Helper()
	var values []float64
	for {
		frac, ok := progress.Next()
		if !ok {
			return values
		}
		values = append(values, frac)
	}
}

func TestNewMissingBinary(t *testing.T) {
	dir := t.TempDir()
	ffprobe := stubProbe(t, dir)

	_, err := New(filepath.Join(dir, "missing-ffmpeg"), ffprobe, nil)
	var unavailable *EngineUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected EngineUnavailableError, got %v", err)
	}
}

func TestConvertMissingInput(t *testing.T) {
	eng, dir := newTestEngine(t, "#!/bin/sh\nexit 0\n")

	spec := map[string]any{"format": "ogg"}
	_, err := eng.Convert(context.Background(), filepath.Join(dir, "nope.ogv"), []string{filepath.Join(dir, "out.ogg")}, []map[string]any{spec}, false)
	var notFound *InputNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected InputNotFoundError, got %v", err)
	}
}

func TestConvertBrokenSpecDoesNotSpawn(t *testing.T) {
	eng, dir := newTestEngine(t, "#!/bin/sh\ntouch \"$0.ran\"\nexit 0\n")
	input := writeInput(t, dir)

	spec := map[string]any{"format": "unknown-container"}
	if _, err := eng.Convert(context.Background(), input, []string{filepath.Join(dir, "out")}, []map[string]any{spec}, false); err == nil {
		t.Fatalf("expected spec error")
	}
	if _, err := os.Stat(filepath.Join(dir, "ffmpeg.ran")); !os.IsNotExist(err) {
		t.Fatalf("ffmpeg was spawned for a broken spec")
	}
}

func TestConvertProgressSequence(t *testing.T) {
	script := `#!/bin/sh
printf 'frame=  10 fps=25 time=00:00:02.50 bitrate=900k\r' >&2
printf 'frame=  20 fps=25 time=00:00:05.00 bitrate=900k\r' >&2
printf 'frame=  20 fps=25 time=00:00:05.00 bitrate=900k\r' >&2
printf 'frame=  40 fps=25 time=00:00:07.50 bitrate=900k\n' >&2
exit 0
`
	eng, dir := newTestEngine(t, script)
	input := writeInput(t, dir)

	spec := map[string]any{"format": "ogg"}
	progress, err := eng.Convert(context.Background(), input, []string{filepath.Join(dir, "out.ogg")}, []map[string]any{spec}, false)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	values := drain(t, progress)
	if progress.Err() != nil {
		t.Fatalf("unexpected error: %v", progress.Err())
	}
	want := []float64{0.25, 0.5, 0.75, 1.0}
	if len(values) != len(want) {
		t.Fatalf("expected %v, got %v", want, values)
	}
	for i := range want {
		if diff := values[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("value %d: expected %v, got %v", i, want[i], values[i])
		}
	}
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			t.Fatalf("sequence not strictly increasing: %v", values)
		}
	}
}

func TestConvertFailureCapturesDiagnostics(t *testing.T) {
	script := `#!/bin/sh
echo "Input #0, ogg, from 'input.ogv':" >&2
echo "Unknown encoder 'libx264'" >&2
exit 1
`
	eng, dir := newTestEngine(t, script)
	input := writeInput(t, dir)

	spec := map[string]any{"format": "ogg"}
	progress, err := eng.Convert(context.Background(), input, []string{filepath.Join(dir, "out.ogg")}, []map[string]any{spec}, false)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	drain(t, progress)
	var failed *ConversionFailedError
	if !errors.As(progress.Err(), &failed) {
		t.Fatalf("expected ConversionFailedError, got %v", progress.Err())
	}
	if !strings.Contains(failed.Detail, "Unknown encoder 'libx264'") {
		t.Fatalf("diagnostic tail missing fatal line: %q", failed.Detail)
	}
}

func TestConvertCancelTerminates(t *testing.T) {
	script := `#!/bin/sh
printf 'frame=  10 fps=25 time=00:00:02.50 bitrate=900k\r' >&2
sleep 2
exit 0
`
	eng, dir := newTestEngine(t, script)
	input := writeInput(t, dir)

	spec := map[string]any{"format": "ogg"}
	progress, err := eng.Convert(context.Background(), input, []string{filepath.Join(dir, "out.ogg")}, []map[string]any{spec}, false)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if frac, ok := progress.Next(); !ok || frac != 0.25 {
		t.Fatalf("expected first fraction 0.25, got %v %v", frac, ok)
	}
	progress.Cancel()
	if _, ok := progress.Next(); ok {
		t.Fatalf("expected no more values after cancel")
	}
	var failed *ConversionFailedError
	if !errors.As(progress.Err(), &failed) {
		t.Fatalf("expected ConversionFailedError after cancel, got %v", progress.Err())
	}
}

func TestConvertTwoPass(t *testing.T) {
	// The stub creates the pass log itself, mirroring what ffmpeg does
	// during pass one, and reports the full input duration each pass.
	script := `#!/bin/sh
logfile=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-passlogfile" ]; then logfile="$arg"; fi
  prev="$arg"
done
if [ -n "$logfile" ]; then : > "$logfile-0.log"; fi
printf 'frame= 100 fps=25 time=00:00:05.00 bitrate=900k\r' >&2
printf 'frame= 250 fps=25 time=00:00:10.00 bitrate=900k\n' >&2
exit 0
`
	eng, dir := newTestEngine(t, script)
	input := writeInput(t, dir)

	spec := map[string]any{"format": "avi", "video": map[string]any{"codec": "divx", "bitrate": 800}}
	progress, err := eng.Convert(context.Background(), input, []string{filepath.Join(dir, "out.avi")}, []map[string]any{spec}, true)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	values := drain(t, progress)
	if progress.Err() != nil {
		t.Fatalf("unexpected error: %v", progress.Err())
	}
	want := []float64{0.25, 0.5, 0.75, 1.0}
	if len(values) != len(want) {
		t.Fatalf("expected %v, got %v", want, values)
	}
	for i := range want {
		if diff := values[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("value %d: expected %v, got %v", i, want[i], values[i])
		}
	}
}

func TestConvertTwoPassMissingLogFails(t *testing.T) {
	script := `#!/bin/sh
printf 'frame= 250 fps=25 time=00:00:10.00 bitrate=900k\n' >&2
exit 0
`
	eng, dir := newTestEngine(t, script)
	input := writeInput(t, dir)

	spec := map[string]any{"format": "avi", "video": map[string]any{"codec": "divx"}}
	progress, err := eng.Convert(context.Background(), input, []string{filepath.Join(dir, "out.avi")}, []map[string]any{spec}, true)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	drain(t, progress)
	var failed *ConversionFailedError
	if !errors.As(progress.Err(), &failed) {
		t.Fatalf("expected ConversionFailedError, got %v", progress.Err())
	}
	if !strings.Contains(failed.Detail, "first pass log") {
		t.Fatalf("unexpected detail: %q", failed.Detail)
	}
}

func TestConvertMultiOutputSingleInvocation(t *testing.T) {
	script := `#!/bin/sh
echo "$@" >> "$0.args"
printf 'frame= 125 fps=25 time=00:00:05.00 bitrate=900k\r' >&2
printf 'frame= 250 fps=25 time=00:00:10.00 bitrate=900k\n' >&2
exit 0
`
	eng, dir := newTestEngine(t, script)
	input := writeInput(t, dir)

	outputs := []string{filepath.Join(dir, "high.ogg"), filepath.Join(dir, "low.ogg")}
	specs := []map[string]any{
		{"format": "ogg", "video": map[string]any{"codec": "theora", "bitrate": 300}},
		{"format": "ogg", "video": map[string]any{"codec": "theora", "bitrate": 100}},
	}
	progress, err := eng.Convert(context.Background(), input, outputs, specs, false)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	values := drain(t, progress)
	if progress.Err() != nil {
		t.Fatalf("Err: %v", progress.Err())
	}
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			t.Fatalf("fractions not strictly increasing: %v", values)
		}
	}
	if len(values) == 0 || values[len(values)-1] != 1.0 {
		t.Fatalf("expected terminal 1.0, got %v", values)
	}

	recorded, err := os.ReadFile(filepath.Join(dir, "ffmpeg") + ".args")
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	invocations := strings.Split(strings.TrimSpace(string(recorded)), "\n")
	if len(invocations) != 1 {
		t.Fatalf("expected a single invocation, got %d", len(invocations))
	}
	args := invocations[0]
	for _, fragment := range []string{"-b:v 300k", outputs[0], "-b:v 100k", outputs[1]} {
		if !strings.Contains(args, fragment) {
			t.Fatalf("arguments missing %q: %s", fragment, args)
		}
	}
	if strings.Index(args, outputs[0]) > strings.Index(args, outputs[1]) {
		t.Fatalf("outputs out of order: %s", args)
	}
}

func TestConvertSurvivesOversizedDiagnosticLine(t *testing.T) {
	script := `#!/bin/sh
head -c 2097152 /dev/zero | tr '\0' 'x' >&2
printf '\n' >&2
printf 'frame= 250 fps=25 time=00:00:10.00 bitrate=900k\n' >&2
exit 0
`
	eng, dir := newTestEngine(t, script)
	input := writeInput(t, dir)

	spec := map[string]any{"format": "ogg"}
	progress, err := eng.Convert(context.Background(), input, []string{filepath.Join(dir, "out.ogg")}, []map[string]any{spec}, false)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	values := drain(t, progress)
	if progress.Err() != nil {
		t.Fatalf("Err: %v", progress.Err())
	}
	if len(values) == 0 || values[len(values)-1] != 1.0 {
		t.Fatalf("expected terminal 1.0, got %v", values)
	}
}

func TestSegmentRecordsArguments(t *testing.T) {
	script := `#!/bin/sh
echo "$@" > "$(dirname "$0")/ffmpeg.args"
printf 'frame= 250 fps=25 time=00:00:10.00 bitrate=900k\n' >&2
exit 0
`
	eng, dir := newTestEngine(t, script)
	input := writeInput(t, dir)
	workDir := filepath.Join(dir, "work")

	spec := map[string]any{"segment_time": 4}
	progress, err := eng.Segment(context.Background(), input, workDir, []string{filepath.Join(workDir, "list.m3u8")}, []string{"hd"}, []map[string]any{spec})
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}

	drain(t, progress)
	if progress.Err() != nil {
		t.Fatalf("unexpected error: %v", progress.Err())
	}
	if info, err := os.Stat(filepath.Join(workDir, "hd")); err != nil || !info.IsDir() {
		t.Fatalf("segment directory was not created: %v", err)
	}

	recorded, err := os.ReadFile(filepath.Join(dir, "ffmpeg.args"))
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	args := string(recorded)
	for _, fragment := range []string{"-f segment", "-segment_time 4", "list.m3u8", filepath.Join(workDir, "hd", "%05d.ts")} {
		if !strings.Contains(args, fragment) {
			t.Fatalf("arguments missing %q: %s", fragment, args)
		}
	}
}

func TestThumbnail(t *testing.T) {
	script := `#!/bin/sh
for arg in "$@"; do last="$arg"; done
echo "jpeg" > "$last"
exit 0
`
	eng, dir := newTestEngine(t, script)
	input := writeInput(t, dir)
	output := filepath.Join(dir, "thumb.jpg")

	if err := eng.Thumbnail(context.Background(), input, output, 12.5, "160x90"); err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("thumbnail missing: %v", err)
	}
}

func TestThumbnailMissingOutputFails(t *testing.T) {
	eng, dir := newTestEngine(t, "#!/bin/sh\nexit 0\n")
	input := writeInput(t, dir)

	err := eng.Thumbnail(context.Background(), input, filepath.Join(dir, "thumb.jpg"), 0, "")
	var failed *ConversionFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected ConversionFailedError, got %v", err)
	}
}

func TestThumbnailsBatch(t *testing.T) {
	script := `#!/bin/sh
for arg in "$@"; do
  case "$arg" in
    *.jpg) echo "jpeg" > "$arg" ;;
  esac
done
exit 0
`
	eng, dir := newTestEngine(t, script)
	input := writeInput(t, dir)

	requests := []ThumbnailRequest{
		{Offset: 5, Output: filepath.Join(dir, "one.jpg")},
		{Offset: 10, Output: filepath.Join(dir, "two.jpg"), Quality: 5},
		{Offset: 5, Output: filepath.Join(dir, "three.jpg"), Size: "320x240"},
	}
	if err := eng.Thumbnails(context.Background(), input, requests); err != nil {
		t.Fatalf("Thumbnails: %v", err)
	}
	for _, req := range requests {
		if _, err := os.Stat(req.Output); err != nil {
			t.Fatalf("thumbnail %s missing: %v", req.Output, err)
		}
	}
}

func TestThumbnailsMissingOneFails(t *testing.T) {
	script := `#!/bin/sh
for arg in "$@"; do
  case "$arg" in
    *one.jpg) echo "jpeg" > "$arg" ;;
  esac
done
exit 0
`
	eng, dir := newTestEngine(t, script)
	input := writeInput(t, dir)

	err := eng.Thumbnails(context.Background(), input, []ThumbnailRequest{
		{Offset: 5, Output: filepath.Join(dir, "one.jpg")},
		{Offset: 99, Output: filepath.Join(dir, "two.jpg")},
	})
	var failed *ConversionFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected ConversionFailedError, got %v", err)
	}
}

func TestProbeViaEngine(t *testing.T) {
	eng, dir := newTestEngine(t, "#!/bin/sh\nexit 0\n")
	input := writeInput(t, dir)

	info, err := eng.Probe(context.Background(), input, true)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info == nil {
		t.Fatalf("expected media info")
	}
	if info.Format.Duration != 10.0 {
		t.Fatalf("unexpected duration: %v", info.Format.Duration)
	}

	missing, err := eng.Probe(context.Background(), filepath.Join(dir, "absent.ogv"), true)
	if err != nil || missing != nil {
		t.Fatalf("expected absent result, got %v %v", missing, err)
	}
}
