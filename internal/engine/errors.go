package engine

import "fmt"

// EngineUnavailableError indicates the ffmpeg or ffprobe binary is missing
// or could not be started.
type EngineUnavailableError struct {
	Detail string
}

func (e *EngineUnavailableError) Error() string {
	return fmt.Sprintf("conversion engine unavailable: %s", e.Detail)
}

// InputNotFoundError indicates the input path is missing or unreadable at
// spawn time.
type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// ConversionFailedError indicates the external process ran and exited
// abnormally or was terminated. Detail carries the captured diagnostic tail.
type ConversionFailedError struct {
	Detail string
}

func (e *ConversionFailedError) Error() string {
	if e.Detail == "" {
		return "conversion failed"
	}
	return fmt.Sprintf("conversion failed: %s", e.Detail)
}
