package codecs

import (
	"fmt"
	"sort"
)

// Codec compiles raw per-stream options into ffmpeg argument tokens.
type Codec interface {
	// Name is the external codec identifier, e.g. "h264" or "vorbis".
	Name() string
	// FFmpegName is the encoder name passed to ffmpeg, e.g. "libx264".
	FFmpegName() string
	// ParseOptions validates the codec selection in raw and returns the
	// ordered argument list for this stream.
	ParseOptions(raw map[string]any) ([]string, error)
}

// InvalidSpecError reports a structurally unusable conversion spec. It is
// raised before any external process starts.
type InvalidSpecError struct {
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return "invalid conversion spec: " + e.Reason
}

func invalidSpec(format string, args ...any) error {
	return &InvalidSpecError{Reason: fmt.Sprintf(format, args...)}
}

// requireCodec checks that raw selects the given codec by name.
func requireCodec(raw map[string]any, name string) error {
	value, ok := raw["codec"]
	if !ok || value == nil {
		return invalidSpec("codec %q not specified", name)
	}
	selected, ok := value.(string)
	if !ok || selected != name {
		return invalidSpec("codec %v does not match %q", value, name)
	}
	return nil
}

// Audio resolves an audio codec descriptor by external name.
func Audio(name string) (Codec, bool) {
	c, ok := audioCodecs[name]
	return c, ok
}

// Video resolves a video codec descriptor by external name.
func Video(name string) (Codec, bool) {
	c, ok := videoCodecs[name]
	return c, ok
}

// Subtitle resolves a subtitle codec descriptor by external name.
func Subtitle(name string) (Codec, bool) {
	c, ok := subtitleCodecs[name]
	return c, ok
}

// AudioNames lists the registered audio codec names in sorted order.
func AudioNames() []string { return sortedNames(audioCodecs) }

// VideoNames lists the registered video codec names in sorted order.
func VideoNames() []string { return sortedNames(videoCodecs) }

// SubtitleNames lists the registered subtitle codec names in sorted order.
func SubtitleNames() []string { return sortedNames(subtitleCodecs) }

func sortedNames(registry map[string]Codec) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// copyCodec passes the source stream through unmodified. It accepts only the
// literal "copy" selection.
type copyCodec struct {
	flags []string
}

func (c copyCodec) Name() string       { return "copy" }
func (c copyCodec) FFmpegName() string { return "copy" }

func (c copyCodec) ParseOptions(raw map[string]any) ([]string, error) {
	if err := requireCodec(raw, "copy"); err != nil {
		return nil, err
	}
	return append([]string(nil), c.flags...), nil
}

// nullCodec disables a stream kind entirely. It accepts only an absent or nil
// codec selection.
type nullCodec struct {
	kind string
	flag string
}

func (c nullCodec) Name() string       { return "" }
func (c nullCodec) FFmpegName() string { return "" }

func (c nullCodec) ParseOptions(raw map[string]any) ([]string, error) {
	if value, ok := raw["codec"]; ok && value != nil {
		return nil, invalidSpec("%s codec must be absent to disable the stream, got %v", c.kind, value)
	}
	return []string{c.flag}, nil
}

// AudioCopy returns the stream-copy descriptor for audio.
func AudioCopy() Codec { return copyCodec{flags: []string{"-codec:a", "copy"}} }

// VideoCopy returns the stream-copy descriptor for video.
func VideoCopy() Codec { return copyCodec{flags: []string{"-codec:v", "copy"}} }

// SubtitleCopy returns the stream-copy descriptor for subtitles.
func SubtitleCopy() Codec { return copyCodec{flags: []string{"-scodec", "copy"}} }

// AudioNull returns the descriptor that disables audio ("-an").
func AudioNull() Codec { return nullCodec{kind: "audio", flag: "-an"} }

// VideoNull returns the descriptor that disables video ("-vn").
func VideoNull() Codec { return nullCodec{kind: "video", flag: "-vn"} }

// SubtitleNull returns the descriptor that disables subtitles ("-sn").
func SubtitleNull() Codec { return nullCodec{kind: "subtitle", flag: "-sn"} }
