// Package plan compiles declarative conversion specs into ffmpeg argument
// lists.
//
// A spec is a nested option map: container format, optional audio/video/
// subtitle sub-specs, stream mapping directives and passthrough argument
// text. Compilation is pure: the input map is never mutated and compiling
// the same spec twice yields an identical argument list.
//
// Top-level validation fails fast with codecs.InvalidSpecError (unknown keys
// are rejected by name); per-option validation inside a sub-spec is
// permissive and silently drops unusable values.
package plan
