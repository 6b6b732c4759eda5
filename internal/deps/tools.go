package deps

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ResolveTool locates an FFmpeg family binary. An explicit command wins;
// otherwise the fallback name is resolved from PATH.
func ResolveTool(command, fallback string) (string, error) {
	name := strings.TrimSpace(command)
	if name == "" {
		name = fallback
	}
	if strings.ContainsRune(name, os.PathSeparator) {
		info, err := os.Stat(name)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", fallback, err)
		}
		if !isExecutable(info) {
			return "", fmt.Errorf("resolve %s: %s is not executable", fallback, name)
		}
		return name, nil
	}
	resolved, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", fallback, err)
	}
	return resolved, nil
}

// ToolVersion runs the binary with -version and returns the first line of
// output, or an empty string when the probe fails.
func ToolVersion(binary string) string {
	cmd := exec.Command(binary, "-version")
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	line, _, _ := bytes.Cut(out, []byte("\n"))
	return strings.TrimSpace(string(line))
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
