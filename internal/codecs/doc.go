// Package codecs describes the encoders mediaconv knows how to drive.
//
// Each codec is a declarative descriptor: it knows its external name, the
// ffmpeg-facing encoder name, and the option keys it accepts. ParseOptions
// compiles a loosely typed option map into an ordered ffmpeg argument list.
// Flag order is fixed per stream kind because ffmpeg resolves conflicting
// specifications by position in some releases.
//
// Key types:
//   - Codec: the compile capability shared by every descriptor
//   - OptionSpec: per-codec mapping from option key to expected type
//   - InvalidSpecError: structural option errors (missing or unknown codec)
//
// Option values that fail type coercion are dropped, never reported; only a
// missing or mismatched codec selection is an error.
package codecs
