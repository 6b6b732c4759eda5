package plan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"mediaconv/internal/codecs"
	"mediaconv/internal/formats"
)

// topLevelKeys is the closed set of keys a conversion spec may carry.
// Anything else is rejected by name before a process starts.
var topLevelKeys = map[string]struct{}{
	"format":       {},
	"audio":        {},
	"video":        {},
	"subtitle":     {},
	"maps":         {},
	"map_chapters": {},
	"faststart":    {},
	"ffmpeg_args":  {},
}

// Compile turns one conversion spec into the per-output ffmpeg argument
// list. Omitted audio or video sub-specs compile to stream copy; an omitted
// subtitle sub-spec disables subtitles.
func Compile(spec map[string]any) ([]string, error) {
	if spec == nil {
		return nil, invalid("no conversion spec given")
	}
	if err := rejectUnknownKeys(spec); err != nil {
		return nil, err
	}

	name, ok := spec["format"].(string)
	if !ok || name == "" {
		return nil, invalid("container format not specified")
	}
	container, ok := formats.Lookup(name)
	if !ok {
		return nil, invalid("unsupported container format %q", name)
	}

	var args []string

	// Passthrough text is opaque to the compiler: it typically carries
	// additional inputs and a filter graph, so it goes first.
	if raw, ok := spec["ffmpeg_args"]; ok {
		text, ok := raw.(string)
		if !ok {
			return nil, invalid("ffmpeg_args must be a string")
		}
		args = append(args, strings.Fields(text)...)
	}

	mapFlags, err := mapDirectives(spec)
	if err != nil {
		return nil, err
	}
	args = append(args, mapFlags...)

	audioFlags, err := streamFlags(spec, "audio", codecs.Audio, codecs.AudioCopy(), codecs.AudioNull(), false)
	if err != nil {
		return nil, err
	}
	args = append(args, audioFlags...)

	videoFlags, err := streamFlags(spec, "video", codecs.Video, codecs.VideoCopy(), codecs.VideoNull(), false)
	if err != nil {
		return nil, err
	}
	args = append(args, videoFlags...)

	subtitleFlags, err := streamFlags(spec, "subtitle", codecs.Subtitle, codecs.SubtitleCopy(), codecs.SubtitleNull(), true)
	if err != nil {
		return nil, err
	}
	args = append(args, subtitleFlags...)

	formatFlags, err := container.ParseOptions(spec)
	if err != nil {
		return nil, err
	}
	args = append(args, formatFlags...)

	if raw, ok := spec["faststart"]; ok {
		enabled, ok := raw.(bool)
		if !ok {
			return nil, invalid("faststart must be a boolean")
		}
		if enabled {
			if !container.FastStart() {
				return nil, invalid("faststart is not supported by the %s container", container.Name())
			}
			args = append(args, "-movflags", "faststart")
		}
	}

	return args, nil
}

// CompileAll compiles one spec per output target for a multi-output job
// sharing a single input.
func CompileAll(specs []map[string]any) ([][]string, error) {
	if len(specs) == 0 {
		return nil, invalid("no conversion specs given")
	}
	compiled := make([][]string, 0, len(specs))
	for i, spec := range specs {
		args, err := Compile(spec)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		compiled = append(compiled, args)
	}
	return compiled, nil
}

// streamFlags compiles one audio/video/subtitle sub-spec. When the sub-spec
// is absent the stream defaults to copy, or to disabled for subtitles.
func streamFlags(spec map[string]any, key string, lookup func(string) (codecs.Codec, bool), copyCodec, nullCodec codecs.Codec, disableWhenAbsent bool) ([]string, error) {
	raw, present := spec[key]
	if !present {
		if disableWhenAbsent {
			return nullCodec.ParseOptions(map[string]any{})
		}
		return copyCodec.ParseOptions(map[string]any{"codec": "copy"})
	}

	sub, ok := raw.(map[string]any)
	if !ok {
		return nil, invalid("%s options must be a mapping", key)
	}
	selection, ok := sub["codec"]
	if !ok {
		return nil, invalid("%s codec not specified", key)
	}
	switch value := selection.(type) {
	case nil:
		return nullCodec.ParseOptions(sub)
	case string:
		if value == "copy" {
			return copyCodec.ParseOptions(sub)
		}
		codec, ok := lookup(value)
		if !ok {
			return nil, invalid("unsupported %s codec %q", key, value)
		}
		return codec.ParseOptions(sub)
	default:
		return nil, invalid("%s codec must be a string or absent, got %v", key, value)
	}
}

// mapDirectives renders the stream-selection flags. Values pass through
// verbatim: ffmpeg's mapping syntax is not interpreted here.
func mapDirectives(spec map[string]any) ([]string, error) {
	var args []string
	if raw, ok := spec["maps"]; ok {
		entries, ok := raw.([]any)
		if !ok {
			return nil, invalid("maps must be a list of stream selectors")
		}
		for _, entry := range entries {
			args = append(args, "-map", mapToken(entry))
		}
	}
	if raw, ok := spec["map_chapters"]; ok {
		args = append(args, "-map_chapters", mapToken(raw))
	}
	return args, nil
}

func mapToken(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func rejectUnknownKeys(spec map[string]any) error {
	keys := make([]string, 0, len(spec))
	for key := range spec {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, ok := topLevelKeys[key]; !ok {
			return invalid("unknown option %q", key)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return &codecs.InvalidSpecError{Reason: fmt.Sprintf(format, args...)}
}
