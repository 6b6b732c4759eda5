package plan

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"mediaconv/internal/codecs"
)

func mustInvalid(t *testing.T, spec map[string]any) *codecs.InvalidSpecError {
	t.Helper()
	_, err := Compile(spec)
	var specErr *codecs.InvalidSpecError
	if !errors.As(err, &specErr) {
		t.Fatalf("expected InvalidSpecError for %v, got %v", spec, err)
	}
	return specErr
}

func TestCompileRejectsBrokenSpecs(t *testing.T) {
	mustInvalid(t, nil)
	mustInvalid(t, map[string]any{})
	mustInvalid(t, map[string]any{"format": "foo"})
	mustInvalid(t, map[string]any{"format": "ogg", "video": "whatever"})
	mustInvalid(t, map[string]any{"format": "ogg", "audio": map[string]any{}})
	mustInvalid(t, map[string]any{"format": "ogg", "audio": map[string]any{"codec": "bogus"}})
}

func TestCompileRejectsUnknownTopLevelKeys(t *testing.T) {
	specErr := mustInvalid(t, map[string]any{"format": "ogg", "bogus_key": 1})
	if want := `unknown option "bogus_key"`; specErr.Reason != want {
		t.Fatalf("error should name the key: got %q want %q", specErr.Reason, want)
	}
}

func TestCompileOrdering(t *testing.T) {
	got, err := Compile(map[string]any{
		"format": "ogg",
		"video":  map[string]any{"codec": "theora", "fps": 25},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []string{
		"-codec:a", "copy",
		"-codec:v", "libtheora", "-pix_fmt", "yuv420p", "-r", "25.0",
		"-sn",
		"-f", "ogg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", got, want)
	}
}

func TestCompileExplicitCopyAndNull(t *testing.T) {
	got, err := Compile(map[string]any{
		"format":   "ogg",
		"audio":    map[string]any{"codec": "copy"},
		"video":    map[string]any{"codec": "copy"},
		"subtitle": map[string]any{"codec": nil},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []string{"-codec:a", "copy", "-codec:v", "copy", "-sn", "-f", "ogg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", got, want)
	}
}

func TestCompileFormatOnlyDefaults(t *testing.T) {
	got, err := Compile(map[string]any{"format": "ogg"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []string{"-codec:a", "copy", "-codec:v", "copy", "-sn", "-f", "ogg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", got, want)
	}
}

func TestCompileMapsAndChapters(t *testing.T) {
	got, err := Compile(map[string]any{
		"format":       "ogg",
		"maps":         []any{0, "-0:d", "-0:s"},
		"map_chapters": "-1",
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []string{
		"-map", "0", "-map", "-0:d", "-map", "-0:s",
		"-map_chapters", "-1",
		"-codec:a", "copy", "-codec:v", "copy", "-sn",
		"-f", "ogg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", got, want)
	}
}

func TestCompilePassthroughComesFirst(t *testing.T) {
	got, err := Compile(map[string]any{
		"format":      "mp4",
		"faststart":   true,
		"ffmpeg_args": "-i logo.png -filter_complex [1]scale=151:138[wm];[0][wm]overlay=10:10",
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	wantPrefix := []string{"-i", "logo.png", "-filter_complex", "[1]scale=151:138[wm];[0][wm]overlay=10:10"}
	if !reflect.DeepEqual(got[:4], wantPrefix) {
		t.Fatalf("passthrough should lead the argument list, got %v", got[:4])
	}
	last := got[len(got)-2:]
	if !reflect.DeepEqual(last, []string{"-movflags", "faststart"}) {
		t.Fatalf("faststart flags should trail the format selection, got %v", last)
	}
}

func TestCompileFastStartRequiresMp4Family(t *testing.T) {
	mustInvalid(t, map[string]any{"format": "ogg", "faststart": true})

	got, err := Compile(map[string]any{"format": "mp4", "faststart": false})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, token := range got {
		if token == "-movflags" {
			t.Fatalf("disabled faststart should not emit movflags: %v", got)
		}
	}
}

func TestCompileIsPureAndDeterministic(t *testing.T) {
	spec := map[string]any{
		"format": "ogg",
		"audio": map[string]any{
			"codec": "vorbis", "samplerate": 11025, "channels": 1, "bitrate": 16,
		},
		"video": map[string]any{
			"codec": "theora", "bitrate": 128, "width": 360, "height": 200, "fps": 15,
		},
	}
	before := fmt.Sprintf("%#v", spec)

	first, err := Compile(spec)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	second, err := Compile(spec)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("compilation is not deterministic:\n%v\n%v", first, second)
	}
	if after := fmt.Sprintf("%#v", spec); after != before {
		t.Fatalf("compilation mutated its input:\nbefore %s\nafter  %s", before, after)
	}
}

func TestCompileAll(t *testing.T) {
	specs := []map[string]any{
		{"format": "ogg", "video": map[string]any{"codec": "theora", "bitrate": 300}},
		{"format": "ogg", "video": map[string]any{"codec": "theora", "bitrate": 100}},
	}
	compiled, err := CompileAll(specs)
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if len(compiled) != 2 {
		t.Fatalf("expected 2 argument lists, got %d", len(compiled))
	}

	if _, err := CompileAll(nil); err == nil {
		t.Fatal("empty spec list should fail")
	}
	if _, err := CompileAll([]map[string]any{{"format": "nope"}}); err == nil {
		t.Fatal("broken member spec should fail")
	}
}

func TestCompileSegment(t *testing.T) {
	args, output, err := CompileSegment(map[string]any{
		"segment_time": 6,
		"maps":         []any{"0:a:0"},
	}, "out/test.m3u8", "out/test")
	if err != nil {
		t.Fatalf("CompileSegment: %v", err)
	}
	want := []string{
		"-map", "0:a:0",
		"-codec", "copy",
		"-f", "segment",
		"-segment_time", "6",
		"-segment_list", "out/test.m3u8",
		"-segment_format", "mpegts",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", args, want)
	}
	if wantOut := "out/test/%05d.ts"; output != wantOut {
		t.Fatalf("output pattern: got %q want %q", output, wantOut)
	}
}

func TestCompileSegmentValidation(t *testing.T) {
	var specErr *codecs.InvalidSpecError
	if _, _, err := CompileSegment(nil, "m", "d"); !errors.As(err, &specErr) {
		t.Fatalf("nil spec: got %v", err)
	}
	if _, _, err := CompileSegment(map[string]any{"maps": []any{"0:v:0"}}, "m", "d"); !errors.As(err, &specErr) {
		t.Fatalf("missing segment_time: got %v", err)
	}
	if _, _, err := CompileSegment(map[string]any{"segment_time": 0}, "m", "d"); !errors.As(err, &specErr) {
		t.Fatalf("zero segment_time: got %v", err)
	}
	if _, _, err := CompileSegment(map[string]any{"segment_time": 6, "extra": 1}, "m", "d"); !errors.As(err, &specErr) {
		t.Fatalf("unknown key: got %v", err)
	}
}
