// Package engine spawns ffmpeg processes and exposes their progress as a
// pull-driven sequence of fractions. Conversion, segmenting, and thumbnail
// extraction all run through it; argument lists come from the plan package.
package engine
