package plan

import "path/filepath"

// segmentKeys is the closed set of keys a segmenting spec may carry.
var segmentKeys = map[string]struct{}{
	"segment_time": {},
	"maps":         {},
}

// CompileSegment compiles a time-sliced output plan for one track. The
// returned arguments select the requested streams, copy them, and drive the
// segment muxer with a fixed chunk duration and a manifest listing; the
// returned output token is the chunk filename pattern inside segmentDir.
func CompileSegment(spec map[string]any, manifest, segmentDir string) ([]string, string, error) {
	if spec == nil {
		return nil, "", invalid("no segment spec given")
	}
	for key := range spec {
		if _, ok := segmentKeys[key]; !ok {
			return nil, "", invalid("unknown segment option %q", key)
		}
	}

	seconds := 0
	if raw, ok := spec["segment_time"]; ok {
		switch v := raw.(type) {
		case int:
			seconds = v
		case float64:
			seconds = int(v)
		default:
			return nil, "", invalid("segment_time must be a number of seconds")
		}
	}
	if seconds <= 0 {
		return nil, "", invalid("segment_time must be a positive number of seconds")
	}

	args, err := mapDirectives(spec)
	if err != nil {
		return nil, "", err
	}
	args = append(args,
		"-codec", "copy",
		"-f", "segment",
		"-segment_time", mapToken(seconds),
		"-segment_list", manifest,
		"-segment_format", "mpegts",
	)
	return args, filepath.Join(segmentDir, "%05d.ts"), nil
}
