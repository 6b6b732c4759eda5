// Package mediaconv converts media files with ffmpeg from declarative
// option trees. It compiles option maps into argument lists, drives the
// ffmpeg process while reporting progress as a pull-driven sequence of
// fractions, and probes files with ffprobe into a normalized stream model.
//
// The cmd/mediaconv command wraps this package for shell use.
package mediaconv
