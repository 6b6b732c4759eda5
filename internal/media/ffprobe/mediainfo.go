package ffprobe

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// StreamKind discriminates the normalized stream records.
type StreamKind string

const (
	KindVideo    StreamKind = "video"
	KindAudio    StreamKind = "audio"
	KindSubtitle StreamKind = "subtitle"
)

// MediaFormatInfo describes the container of a probed resource. Duration is
// in seconds; zero means unknown.
type MediaFormatInfo struct {
	Format   string
	Duration float64
	Size     int64
	BitRate  int64
}

// MediaStreamInfo describes one stream of a probed resource. Which fields
// are meaningful depends on Kind; BitRate is zero when the container does
// not report one.
type MediaStreamInfo struct {
	Index       int
	Kind        StreamKind
	Codec       string
	BitRate     int64
	StartTime   float64
	Width       int
	Height      int
	FrameRate   float64
	PixelFormat string
	AttachedPic bool
	Channels    int
	SampleRate  int
	Tags        map[string]string
}

// Language returns the stream's raw language tag, if any.
func (s *MediaStreamInfo) Language() string {
	return s.Tags["language"]
}

// LanguageName returns a human-readable English name for the stream's
// language tag, falling back to the raw tag when it cannot be parsed.
func (s *MediaStreamInfo) LanguageName() string {
	code := s.Language()
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// MediaInfo aggregates the container description and its streams. It is
// constructed once per probe and read-only afterwards.
type MediaInfo struct {
	Format  MediaFormatInfo
	Streams []MediaStreamInfo

	postersAsVideo bool
}

// NewMediaInfo normalizes a raw probe result. When postersAsVideo is true,
// attached still pictures occupy the ordinary video slot; otherwise they are
// excluded from Video and surfaced through Posters.
func NewMediaInfo(r *Result, postersAsVideo bool) *MediaInfo {
	if r == nil {
		return nil
	}
	info := &MediaInfo{
		Format: MediaFormatInfo{
			Format:   primaryFormatName(r.Format.FormatName),
			Duration: parseSeconds(r.Format.Duration),
			Size:     parseInt64(r.Format.Size),
			BitRate:  parseInt64(r.Format.BitRate),
		},
		postersAsVideo: postersAsVideo,
	}
	for _, raw := range r.Streams {
		if stream, ok := normalizeStream(raw); ok {
			info.Streams = append(info.Streams, stream)
		}
	}
	return info
}

// Video returns the primary video stream: the first video stream, skipping
// attached pictures unless posters were folded in at construction time.
func (m *MediaInfo) Video() *MediaStreamInfo {
	for i := range m.Streams {
		s := &m.Streams[i]
		if s.Kind != KindVideo {
			continue
		}
		if s.AttachedPic && !m.postersAsVideo {
			continue
		}
		return s
	}
	return nil
}

// Audio returns the first audio stream.
func (m *MediaInfo) Audio() *MediaStreamInfo {
	for i := range m.Streams {
		if m.Streams[i].Kind == KindAudio {
			return &m.Streams[i]
		}
	}
	return nil
}

// Posters returns the attached-picture streams. It is empty when posters
// were folded into the video slot.
func (m *MediaInfo) Posters() []*MediaStreamInfo {
	if m.postersAsVideo {
		return nil
	}
	var posters []*MediaStreamInfo
	for i := range m.Streams {
		if m.Streams[i].Kind == KindVideo && m.Streams[i].AttachedPic {
			posters = append(posters, &m.Streams[i])
		}
	}
	return posters
}

func normalizeStream(raw Stream) (MediaStreamInfo, bool) {
	var kind StreamKind
	switch strings.ToLower(raw.CodecType) {
	case "video":
		kind = KindVideo
	case "audio":
		kind = KindAudio
	case "subtitle":
		kind = KindSubtitle
	default:
		return MediaStreamInfo{}, false
	}

	stream := MediaStreamInfo{
		Index:     raw.Index,
		Kind:      kind,
		Codec:     raw.CodecName,
		BitRate:   parseInt64(raw.BitRate),
		StartTime: parseSeconds(raw.StartTime),
		Tags:      raw.Tags,
	}
	switch kind {
	case KindVideo:
		stream.Width = raw.Width
		stream.Height = raw.Height
		stream.PixelFormat = raw.PixFmt
		stream.FrameRate = parseRatio(raw.AvgFrameRate)
		if stream.FrameRate == 0 {
			stream.FrameRate = parseRatio(raw.RFrameRate)
		}
		stream.AttachedPic = raw.Disposition.AttachedPic != 0
	case KindAudio:
		stream.Channels = raw.Channels
		stream.SampleRate = int(parseInt64(raw.SampleRate))
	}
	return stream, true
}

// primaryFormatName picks the first tag from ffprobe's comma-separated
// format_name list (e.g. "mov,mp4,m4a,3gp,3g2,mj2").
func primaryFormatName(name string) string {
	if idx := strings.IndexByte(name, ','); idx >= 0 {
		return name[:idx]
	}
	return name
}

func parseSeconds(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || parsed < 0 {
		return 0
	}
	return parsed
}

func parseInt64(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || parsed < 0 {
		return 0
	}
	return int64(parsed)
}

func parseRatio(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	num, den, found := strings.Cut(value, "/")
	if !found {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
