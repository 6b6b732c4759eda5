package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteMediaFile drops a fake media input at dir/name and returns its path.
// The payload is junk; tests always pair it with stubbed ffmpeg/ffprobe
// binaries that never decode it.
func WriteMediaFile(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("not a real media stream"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
