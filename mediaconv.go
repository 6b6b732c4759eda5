package mediaconv

import (
	"mediaconv/internal/codecs"
	"mediaconv/internal/engine"
	"mediaconv/internal/formats"
	"mediaconv/internal/media/ffprobe"
	"mediaconv/internal/plan"
)

// Error types surfaced by the converter.
//
// InvalidSpecError is returned synchronously before any process spawns;
// the process lifecycle errors surface while draining a Progress.
type (
	InvalidSpecError       = codecs.InvalidSpecError
	InputNotFoundError     = engine.InputNotFoundError
	EngineUnavailableError = engine.EngineUnavailableError
	ConversionFailedError  = engine.ConversionFailedError
	ProbeFailedError       = ffprobe.ProbeFailedError
)

// Probe result model.
type (
	MediaInfo       = ffprobe.MediaInfo
	MediaFormatInfo = ffprobe.MediaFormatInfo
	MediaStreamInfo = ffprobe.MediaStreamInfo
	StreamKind      = ffprobe.StreamKind
)

// Stream kinds reported by Probe.
const (
	KindVideo    = ffprobe.KindVideo
	KindAudio    = ffprobe.KindAudio
	KindSubtitle = ffprobe.KindSubtitle
)

// Progress is the pull-driven fraction sequence returned by Convert and
// Segment.
type Progress = engine.Progress

// ThumbnailRequest describes one frame extraction for Converter.Thumbnails.
type ThumbnailRequest = engine.ThumbnailRequest

// CompilePlan turns one declarative option tree into an ffmpeg argument
// list without touching the filesystem. The input map is never mutated.
func CompilePlan(spec map[string]any) ([]string, error) {
	return plan.Compile(spec)
}

// CompilePlans compiles one option tree per output, returning each
// output's argument list in order.
func CompilePlans(specs []map[string]any) ([][]string, error) {
	return plan.CompileAll(specs)
}

// AudioCodecs lists the registered audio codec names.
func AudioCodecs() []string { return codecs.AudioNames() }

// VideoCodecs lists the registered video codec names.
func VideoCodecs() []string { return codecs.VideoNames() }

// SubtitleCodecs lists the registered subtitle codec names.
func SubtitleCodecs() []string { return codecs.SubtitleNames() }

// Formats lists the registered container format names.
func Formats() []string { return formats.Names() }
