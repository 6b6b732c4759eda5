package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseSpecs decodes the conversion specs from inline JSON strings or a
// file. A file may hold a single object or an array of objects.
func parseSpecs(inline []string, file string) ([]map[string]any, error) {
	var specs []map[string]any
	for i, raw := range inline {
		var spec map[string]any
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			return nil, fmt.Errorf("parse spec %d: %w", i, err)
		}
		specs = append(specs, spec)
	}
	if strings.TrimSpace(file) != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read spec file: %w", err)
		}
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "[") {
			var list []map[string]any
			if err := json.Unmarshal(data, &list); err != nil {
				return nil, fmt.Errorf("parse spec file: %w", err)
			}
			specs = append(specs, list...)
		} else {
			var spec map[string]any
			if err := json.Unmarshal(data, &spec); err != nil {
				return nil, fmt.Errorf("parse spec file: %w", err)
			}
			specs = append(specs, spec)
		}
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no conversion spec given; use --spec or --spec-file")
	}
	return specs, nil
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds * float64(time.Second)).Round(10 * time.Millisecond)
	return d.String()
}

func formatBitrate(bitsPerSecond int64) string {
	if bitsPerSecond <= 0 {
		return "-"
	}
	return strconv.FormatInt(bitsPerSecond/1000, 10) + "k"
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
