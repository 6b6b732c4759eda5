// Package formats describes the container formats mediaconv can mux into.
//
// Each descriptor maps an external container tag (e.g. "mkv") to the ffmpeg
// muxer name (e.g. "matroska"). The set is closed: an unrecognized tag is an
// InvalidSpecError before anything runs.
package formats

import (
	"sort"

	"mediaconv/internal/codecs"
)

// Format compiles the container selection for one output.
type Format interface {
	// Name is the external container tag, e.g. "mp4".
	Name() string
	// FFmpegName is the muxer name passed to ffmpeg, e.g. "mpegts".
	FFmpegName() string
	// ParseOptions validates the format selection in raw and returns the
	// muxer flag pair.
	ParseOptions(raw map[string]any) ([]string, error)
	// FastStart reports whether the container supports the mp4-family
	// metadata relocation pass.
	FastStart() bool
}

type format struct {
	name       string
	ffmpegName string
	faststart  bool
}

func (f format) Name() string       { return f.name }
func (f format) FFmpegName() string { return f.ffmpegName }
func (f format) FastStart() bool    { return f.faststart }

func (f format) ParseOptions(raw map[string]any) ([]string, error) {
	value, ok := raw["format"]
	if !ok || value == nil {
		return nil, &codecs.InvalidSpecError{Reason: "container format not specified"}
	}
	selected, ok := value.(string)
	if !ok || selected != f.name {
		return nil, &codecs.InvalidSpecError{Reason: "container format does not match " + f.name}
	}
	return []string{"-f", f.ffmpegName}, nil
}

var registry = map[string]Format{
	"avi":  format{name: "avi", ffmpegName: "avi"},
	"flv":  format{name: "flv", ffmpegName: "flv"},
	"mkv":  format{name: "mkv", ffmpegName: "matroska"},
	"mov":  format{name: "mov", ffmpegName: "mov", faststart: true},
	"mp3":  format{name: "mp3", ffmpegName: "mp3"},
	"mp4":  format{name: "mp4", ffmpegName: "mp4", faststart: true},
	"mpg":  format{name: "mpg", ffmpegName: "mpegts"},
	"ogg":  format{name: "ogg", ffmpegName: "ogg"},
	"webm": format{name: "webm", ffmpegName: "webm"},
	"wmv":  format{name: "wmv", ffmpegName: "msmpeg4"},
}

// Lookup resolves a container descriptor by external tag.
func Lookup(name string) (Format, bool) {
	f, ok := registry[name]
	return f, ok
}

// Names lists the registered container tags in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
