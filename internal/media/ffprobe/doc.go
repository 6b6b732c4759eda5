// Package ffprobe provides a typed wrapper around ffprobe JSON output and
// the normalized media description model built from it.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream / Format: raw per-stream and container-level properties
//   - MediaInfo: normalized view with typed per-kind stream records and
//     convenience accessors for the primary video/audio streams and
//     attached-picture posters
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns the parsed Result
//   - Parse: decodes a captured ffprobe report
//   - NewMediaInfo: normalizes a Result into a MediaInfo
//
// Inspect treats an unreadable or non-media path as "no result" rather than
// an error; only a report that cannot be decoded raises ProbeFailedError.
package ffprobe
