package codecs

import "strconv"

// audioOptionSpec lists the option keys every audio codec accepts.
var audioOptionSpec = OptionSpec{
	"codec":      TypeString,
	"channels":   TypeInt,
	"bitrate":    TypeInt,
	"samplerate": TypeInt,
	"quality":    TypeInt,
}

type audioCodec struct {
	name       string
	ffmpegName string
	// extra is appended immediately after the encoder selection, e.g.
	// "-strict experimental" for the native aac encoder.
	extra []string
}

func (c audioCodec) Name() string       { return c.name }
func (c audioCodec) FFmpegName() string { return c.ffmpegName }

// ParseOptions emits the encoder selection first, then channel count,
// bitrate, sample rate and quality in that fixed order. A bare bitrate
// number is interpreted as kilobits per second. Zero or negative values are
// treated as absent.
func (c audioCodec) ParseOptions(raw map[string]any) ([]string, error) {
	if err := requireCodec(raw, c.name); err != nil {
		return nil, err
	}
	safe := SafeOptions(raw, audioOptionSpec)

	args := []string{"-codec:a", c.ffmpegName}
	args = append(args, c.extra...)
	if v, ok := intOption(safe, "channels"); ok && v > 0 {
		args = append(args, "-ac", strconv.Itoa(v))
	}
	if v, ok := intOption(safe, "bitrate"); ok && v > 0 {
		args = append(args, "-b:a", strconv.Itoa(v)+"k")
	}
	if v, ok := intOption(safe, "samplerate"); ok && v > 0 {
		args = append(args, "-ar", strconv.Itoa(v))
	}
	if v, ok := intOption(safe, "quality"); ok && v >= 0 {
		args = append(args, "-q:a", strconv.Itoa(v))
	}
	return args, nil
}

var audioCodecs = map[string]Codec{
	"aac":        audioCodec{name: "aac", ffmpegName: "aac", extra: []string{"-strict", "experimental"}},
	"ac3":        audioCodec{name: "ac3", ffmpegName: "ac3"},
	"dts":        audioCodec{name: "dts", ffmpegName: "dts"},
	"flac":       audioCodec{name: "flac", ffmpegName: "flac"},
	"libfdk_aac": audioCodec{name: "libfdk_aac", ffmpegName: "libfdk_aac"},
	"mp2":        audioCodec{name: "mp2", ffmpegName: "mp2"},
	"mp3":        audioCodec{name: "mp3", ffmpegName: "libmp3lame"},
	"vorbis":     audioCodec{name: "vorbis", ffmpegName: "libvorbis"},
	"wma":        audioCodec{name: "wma", ffmpegName: "wmav2"},
}
