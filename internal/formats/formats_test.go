package formats

import (
	"errors"
	"reflect"
	"testing"

	"mediaconv/internal/codecs"
)

func TestFormatSelections(t *testing.T) {
	cases := map[string][]string{
		"ogg":  {"-f", "ogg"},
		"avi":  {"-f", "avi"},
		"mkv":  {"-f", "matroska"},
		"webm": {"-f", "webm"},
		"flv":  {"-f", "flv"},
		"mov":  {"-f", "mov"},
		"mp4":  {"-f", "mp4"},
		"mpg":  {"-f", "mpegts"},
		"mp3":  {"-f", "mp3"},
		"wmv":  {"-f", "msmpeg4"},
	}
	for name, want := range cases {
		f, ok := Lookup(name)
		if !ok {
			t.Fatalf("format %q not registered", name)
		}
		got, err := f.ParseOptions(map[string]any{"format": name})
		if err != nil {
			t.Fatalf("%s: ParseOptions: %v", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: got %v want %v", name, got, want)
		}
	}
}

func TestFormatSelectionErrors(t *testing.T) {
	f, _ := Lookup("ogg")
	var specErr *codecs.InvalidSpecError
	if _, err := f.ParseOptions(map[string]any{}); !errors.As(err, &specErr) {
		t.Fatalf("missing format key should fail, got %v", err)
	}
	if _, err := f.ParseOptions(map[string]any{"format": "mp4"}); !errors.As(err, &specErr) {
		t.Fatalf("mismatched format should fail, got %v", err)
	}
	if _, ok := Lookup("foo"); ok {
		t.Fatal("unknown format should not resolve")
	}
}

func TestFastStartSupport(t *testing.T) {
	for name, want := range map[string]bool{"mp4": true, "mov": true, "ogg": false, "mkv": false} {
		f, _ := Lookup(name)
		if f.FastStart() != want {
			t.Fatalf("%s: FastStart = %v, want %v", name, f.FastStart(), want)
		}
	}
}
