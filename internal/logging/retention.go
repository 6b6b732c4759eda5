package logging

import (
	"os"
	"path/filepath"
	"time"
)

// CleanupOldLogs removes *.log files under dir whose modification time is
// older than retentionDays, keeping the file named keep. A retentionDays
// value of 0 or less disables pruning. Removal failures are ignored; the
// next sweep retries.
func CleanupOldLogs(dir string, retentionDays int, keep string) {
	if retentionDays <= 0 || dir == "" {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == keep || filepath.Ext(name) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}
