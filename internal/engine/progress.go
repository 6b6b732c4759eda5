package engine

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"mediaconv/internal/logging"
)

const diagnosticTailLines = 20

var timeToken = regexp.MustCompile(`time=(\d+):(\d{2}):(\d{2})(?:\.(\d+))?`)

// fatalPatterns mark stderr lines worth keeping verbatim for the failure
// detail, ahead of the generic tail.
var fatalPatterns = []string{
	"Unknown encoder",
	"Unknown decoder",
	"Unrecognized option",
	"No such filter",
	"No such file or directory",
	"Invalid argument",
	"Unable to find a suitable output format",
	"Conversion failed",
	"Error while",
}

type progressRun struct {
	args   []string
	lo, hi float64
	before func() error
}

// Progress is a pull-driven view of one conversion. Next blocks on the
// process's diagnostic stream and returns each new, strictly larger
// fraction. After Next returns false, Err reports how the run ended.
type Progress struct {
	ctx    context.Context
	cancel context.CancelFunc
	binary string
	logger *slog.Logger

	runs   []progressRun
	runIdx int
	total  float64

	cmd     *exec.Cmd
	stderr  io.ReadCloser
	scanner *bufio.Scanner

	last    float64
	tail    []string
	fatal   []string
	cleanup []string

	done      bool
	finalEmit bool
	runErr    error
}

func (e *Engine) newProgress(ctx context.Context, runs []progressRun, total float64, cleanup []string) *Progress {
	runCtx, cancel := context.WithCancel(ctx)
	return &Progress{
		ctx:     runCtx,
		cancel:  cancel,
		binary:  e.ffmpeg,
		logger:  e.logger,
		runs:    runs,
		total:   total,
		last:    -1,
		cleanup: cleanup,
	}
}

// Next returns the next progress fraction. It returns false once the
// conversion has finished, successfully or not; consult Err afterwards.
func (p *Progress) Next() (float64, bool) {
	if p.done {
		return 0, false
	}
	for {
		if p.cmd == nil {
			if p.runIdx >= len(p.runs) {
				if !p.finalEmit && p.last < 1 {
					p.finalEmit = true
					p.last = 1
					return 1, true
				}
				p.finish(nil)
				return 0, false
			}
			run := p.runs[p.runIdx]
			if run.before != nil {
				if err := run.before(); err != nil {
					p.finish(err)
					return 0, false
				}
			}
			if err := p.start(run); err != nil {
				p.finish(err)
				return 0, false
			}
		}

		run := p.runs[p.runIdx]
		for p.scanner.Scan() {
			line := strings.TrimSpace(p.scanner.Text())
			if line == "" {
				continue
			}
			p.observe(line)
			frac, ok := p.fraction(line)
			if !ok {
				continue
			}
			overall := run.lo + frac*(run.hi-run.lo)
			if overall > 1 {
				overall = 1
			}
			if overall > p.last {
				p.last = overall
				return overall, true
			}
		}

		// A scan error (such as a diagnostic line beyond the buffer
		// cap) leaves unread stderr behind; drain it or Wait can block
		// on the full pipe.
		if serr := p.scanner.Err(); serr != nil {
			p.observe("diagnostic stream truncated: " + serr.Error())
			_, _ = io.Copy(io.Discard, p.stderr)
		}
		werr := p.cmd.Wait()
		p.cmd = nil
		p.scanner = nil
		p.stderr = nil
		if werr != nil {
			p.finish(&ConversionFailedError{Detail: p.diagnostic(werr)})
			return 0, false
		}
		p.runIdx++
		if run.hi < 1 && run.hi > p.last {
			p.last = run.hi
			return run.hi, true
		}
	}
}

// Err reports the terminal error, nil on success. Valid once Next has
// returned false.
func (p *Progress) Err() error { return p.runErr }

// Cancel terminates the underlying process and marks the conversion failed.
// Safe to call at any point, including after completion.
func (p *Progress) Cancel() {
	if p.done {
		return
	}
	p.cancel()
	if p.cmd != nil {
		if p.stderr != nil {
			_, _ = io.Copy(io.Discard, p.stderr)
		}
		_ = p.cmd.Wait()
		p.cmd = nil
		p.scanner = nil
		p.stderr = nil
	}
	p.finish(&ConversionFailedError{Detail: "conversion terminated"})
}

func (p *Progress) start(run progressRun) error {
	p.logger.Debug("starting ffmpeg",
		logging.String("binary", p.binary),
		logging.String("args", strings.Join(run.args, " ")))

	cmd := exec.CommandContext(p.ctx, p.binary, run.args...)
	cmd.Stdout = io.Discard
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &EngineUnavailableError{Detail: err.Error()}
	}
	if err := cmd.Start(); err != nil {
		return &EngineUnavailableError{Detail: err.Error()}
	}
	p.cmd = cmd
	p.stderr = stderr

	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanStatusLines)
	p.scanner = scanner
	return nil
}

func (p *Progress) finish(err error) {
	if p.done {
		return
	}
	p.done = true
	p.runErr = err
	p.cancel()
	for _, base := range p.cleanup {
		if matches, globErr := filepath.Glob(base + "*"); globErr == nil {
			for _, m := range matches {
				_ = os.Remove(m)
			}
		}
	}
	if err != nil {
		p.logger.Debug("conversion finished with error", logging.Error(err))
	}
}

// observe records the line in the bounded diagnostic tail and captures it
// separately when it matches a known fatal pattern.
func (p *Progress) observe(line string) {
	p.tail = append(p.tail, line)
	if len(p.tail) > diagnosticTailLines {
		p.tail = p.tail[1:]
	}
	for _, pattern := range fatalPatterns {
		if strings.Contains(line, pattern) {
			p.fatal = append(p.fatal, line)
			return
		}
	}
}

// fraction extracts the processed timestamp from a status line and
// normalizes it against the probed input duration. With an unknown
// duration no fractions are emitted.
func (p *Progress) fraction(line string) (float64, bool) {
	match := timeToken.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}
	if p.total <= 0 {
		return 0, false
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])
	processed := float64(hours*3600 + minutes*60 + seconds)
	if match[4] != "" {
		if sub, err := strconv.ParseFloat("0."+match[4], 64); err == nil {
			processed += sub
		}
	}
	return processed / p.total, true
}

func (p *Progress) diagnostic(werr error) string {
	var lines []string
	if len(p.fatal) > 0 {
		lines = p.fatal
	} else {
		lines = p.tail
	}
	detail := strings.Join(lines, "\n")
	if detail == "" {
		return werr.Error()
	}
	return fmt.Sprintf("%v\n%s", werr, detail)
}

// scanStatusLines splits on \n and \r so ffmpeg's in-place status updates
// arrive as individual lines.
func scanStatusLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
