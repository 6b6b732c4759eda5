package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Path != present {
		t.Fatalf("expected resolved path %s, got %s", present, results[0].Path)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestResolveToolExplicitPath(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, executableName("ffmpeg"))
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	resolved, err := ResolveTool(stub, "ffmpeg")
	if err != nil {
		t.Fatalf("ResolveTool: %v", err)
	}
	if resolved != stub {
		t.Fatalf("expected %s, got %s", stub, resolved)
	}
}

func TestResolveToolMissing(t *testing.T) {
	if _, err := ResolveTool("clearly-not-present-binary", "ffmpeg"); err == nil {
		t.Fatalf("expected error for missing binary")
	}
	if _, err := ResolveTool(filepath.Join(t.TempDir(), "nope"), "ffprobe"); err == nil {
		t.Fatalf("expected error for missing explicit path")
	}
}

func TestResolveToolFallbackFromPath(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, executableName("ffprobe"))
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	resolved, err := ResolveTool("", "ffprobe")
	if err != nil {
		t.Fatalf("ResolveTool: %v", err)
	}
	if resolved != stub {
		t.Fatalf("expected %s, got %s", stub, resolved)
	}
}

func TestToolVersion(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "ffmpeg")
	script := "#!/bin/sh\necho 'ffmpeg version 7.1 Copyright (c) 2000-2024'\necho 'built with gcc'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	version := ToolVersion(stub)
	if version != "ffmpeg version 7.1 Copyright (c) 2000-2024" {
		t.Fatalf("unexpected version line: %q", version)
	}

	if got := ToolVersion(filepath.Join(binDir, "missing")); got != "" {
		t.Fatalf("expected empty version for missing binary, got %q", got)
	}
}
