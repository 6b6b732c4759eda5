package codecs

import (
	"fmt"
	"math"
	"strconv"
)

const defaultPixelFormat = "yuv420p"

// videoOptionSpec lists the option keys every video codec accepts. Rate
// control and encoder tuning keys are added per codec via features.
var videoOptionSpec = OptionSpec{
	"codec":      TypeString,
	"pix_fmt":    TypeString,
	"fps":        TypeFloat,
	"bitrate":    TypeInt,
	"width":      TypeInt,
	"height":     TypeInt,
	"src_width":  TypeInt,
	"src_height": TypeInt,
	"mode":       TypeString,
}

// videoFeatures declares the tuning options a codec class supports beyond
// the shared geometry and rate keys.
type videoFeatures struct {
	maxBitrate       bool
	quality          bool
	profile          bool
	level            bool
	preset           bool
	keyframeInterval bool
}

var x264Features = videoFeatures{
	maxBitrate:       true,
	quality:          true,
	profile:          true,
	level:            true,
	preset:           true,
	keyframeInterval: true,
}

var vpxFeatures = videoFeatures{
	maxBitrate:       true,
	quality:          true,
	keyframeInterval: true,
}

type videoCodec struct {
	name       string
	ffmpegName string
	features   videoFeatures
}

func (c videoCodec) Name() string       { return c.name }
func (c videoCodec) FFmpegName() string { return c.ffmpegName }

func (c videoCodec) optionSpec() OptionSpec {
	spec := make(OptionSpec, len(videoOptionSpec)+6)
	for k, v := range videoOptionSpec {
		spec[k] = v
	}
	if c.features.maxBitrate {
		spec["max_bitrate"] = TypeInt
	}
	if c.features.quality {
		spec["quality"] = TypeInt
	}
	if c.features.profile {
		spec["profile"] = TypeString
	}
	if c.features.level {
		spec["level"] = TypeString
	}
	if c.features.preset {
		spec["preset"] = TypeString
	}
	if c.features.keyframeInterval {
		spec["keyframe_interval"] = TypeInt
	}
	return spec
}

// ParseOptions emits flags in a fixed order: encoder selection, pixel
// format, frame rate, bitrate, geometry (scale size, display aspect, crop or
// pad filter), then the tuning flags the codec class declares. Zero or
// negative numeric values are treated as absent.
func (c videoCodec) ParseOptions(raw map[string]any) ([]string, error) {
	if err := requireCodec(raw, c.name); err != nil {
		return nil, err
	}
	safe := SafeOptions(raw, c.optionSpec())

	args := []string{"-codec:v", c.ffmpegName}

	pix := defaultPixelFormat
	if v, ok := stringOption(safe, "pix_fmt"); ok && v != "" {
		pix = v
	}
	args = append(args, "-pix_fmt", pix)

	if v, ok := floatOption(safe, "fps"); ok && v > 0 {
		args = append(args, "-r", formatFrameRate(v))
	}
	if v, ok := intOption(safe, "bitrate"); ok && v > 0 {
		args = append(args, "-b:v", strconv.Itoa(v)+"k")
	}

	args = append(args, geometryFlags(safe)...)

	if c.features.maxBitrate {
		if v, ok := intOption(safe, "max_bitrate"); ok && v > 0 {
			args = append(args, "-maxrate", strconv.Itoa(v)+"k", "-bufsize", strconv.Itoa(2*v)+"k")
		}
	}
	if c.features.quality {
		if v, ok := intOption(safe, "quality"); ok && v >= 0 {
			args = append(args, "-crf", strconv.Itoa(v))
		}
	}
	if c.features.profile {
		if v, ok := stringOption(safe, "profile"); ok && v != "" {
			args = append(args, "-profile:v", v)
		}
	}
	if c.features.level {
		if v, ok := stringOption(safe, "level"); ok && v != "" {
			args = append(args, "-level", v)
		}
	}
	if c.features.preset {
		if v, ok := stringOption(safe, "preset"); ok && v != "" {
			args = append(args, "-preset", v)
		}
	}
	if c.features.keyframeInterval {
		if v, ok := intOption(safe, "keyframe_interval"); ok && v > 0 {
			args = append(args, "-g", strconv.Itoa(v))
		}
	}
	return args, nil
}

// geometryFlags derives the scale size, display aspect and crop/pad filter
// from the target and source dimensions.
func geometryFlags(safe map[string]any) []string {
	width := positiveInt(safe, "width")
	height := positiveInt(safe, "height")
	srcWidth := positiveInt(safe, "src_width")
	srcHeight := positiveInt(safe, "src_height")
	mode, _ := stringOption(safe, "mode")

	scaleWidth, scaleHeight, filter := aspectCorrections(srcWidth, srcHeight, width, height, mode)
	if scaleWidth <= 0 || scaleHeight <= 0 {
		return nil
	}

	flags := []string{"-s", fmt.Sprintf("%dx%d", scaleWidth, scaleHeight)}
	if width > 0 && height > 0 {
		flags = append(flags, "-aspect", fmt.Sprintf("%d:%d", width, height))
	}
	if filter != "" {
		flags = append(flags, "-vf", filter)
	}
	return flags
}

func positiveInt(safe map[string]any, key string) int {
	if v, ok := intOption(safe, key); ok && v > 0 {
		return v
	}
	return 0
}

// formatFrameRate renders a frame rate the way the option originated: whole
// rates keep one decimal ("25.0"), fractional rates keep their precision.
func formatFrameRate(fps float64) string {
	if fps == math.Trunc(fps) {
		return strconv.FormatFloat(fps, 'f', 1, 64)
	}
	return strconv.FormatFloat(fps, 'f', -1, 64)
}

var videoCodecs = map[string]Codec{
	"theora": videoCodec{name: "theora", ffmpegName: "libtheora"},
	"divx":   videoCodec{name: "divx", ffmpegName: "mpeg4"},
	"flv":    videoCodec{name: "flv", ffmpegName: "flv"},
	"h263":   videoCodec{name: "h263", ffmpegName: "h263"},
	"h264":   videoCodec{name: "h264", ffmpegName: "libx264", features: x264Features},
	"hevc":   videoCodec{name: "hevc", ffmpegName: "libx265", features: x264Features},
	"mpeg1":  videoCodec{name: "mpeg1", ffmpegName: "mpeg1video"},
	"mpeg2":  videoCodec{name: "mpeg2", ffmpegName: "mpeg2video"},
	"vp8":    videoCodec{name: "vp8", ffmpegName: "libvpx", features: vpxFeatures},
	"vp9":    videoCodec{name: "vp9", ffmpegName: "libvpx-vp9", features: vpxFeatures},
	"wmv":    videoCodec{name: "wmv", ffmpegName: "msmpeg4"},
}
