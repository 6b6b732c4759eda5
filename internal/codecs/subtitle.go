package codecs

// Subtitle encoders take no tuning parameters beyond the selection itself.
type subtitleCodec struct {
	name       string
	ffmpegName string
}

func (c subtitleCodec) Name() string       { return c.name }
func (c subtitleCodec) FFmpegName() string { return c.ffmpegName }

func (c subtitleCodec) ParseOptions(raw map[string]any) ([]string, error) {
	if err := requireCodec(raw, c.name); err != nil {
		return nil, err
	}
	return []string{"-scodec", c.ffmpegName}, nil
}

var subtitleCodecs = map[string]Codec{
	"ass":      subtitleCodec{name: "ass", ffmpegName: "ass"},
	"dvbsub":   subtitleCodec{name: "dvbsub", ffmpegName: "dvbsub"},
	"dvdsub":   subtitleCodec{name: "dvdsub", ffmpegName: "dvdsub"},
	"mov_text": subtitleCodec{name: "mov_text", ffmpegName: "mov_text"},
	"subrip":   subtitleCodec{name: "subrip", ffmpegName: "subrip"},
}
