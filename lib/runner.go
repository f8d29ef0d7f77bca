package lib

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ffmpeg reports encode position on stderr as CR-separated status lines:
// frame= 1234 fps=240 ... time=00:00:51.48 bitrate= ...
var progressTimeRegex = regexp.MustCompile(`time=(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)

// RunPlan executes the synthesized command and streams progress to the
// terminal. expectSeconds is the planned cut length in seconds; 0 means
// unknown, which downgrades the display to a spinner. A non-zero engine
// exit is reported with its exit code.
func RunPlan(ctx context.Context, plan *TranscodePlan, expectSeconds float64) error {
	cmd := exec.CommandContext(ctx, plan.Args[0], plan.Args[1:]...)

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	watchProgress(stderrPipe, expectSeconds)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("ffmpeg exited with code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// watchProgress consumes ffmpeg's stderr until EOF, rendering a progress
// bar on terminals and falling back to debug logging otherwise.
func watchProgress(pipe io.ReadCloser, expectSeconds float64) {
	defer pipe.Close()

	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	var bar *progressbar.ProgressBar
	if interactive {
		bar = newCutProgressBar(expectSeconds)
	}

	scanner := bufio.NewScanner(pipe)
	scanner.Split(scanStatusLines)
	for scanner.Scan() {
		line := scanner.Text()
		seconds, ok := parseProgressTime(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				slog.Debug("ffmpeg", "line", strings.TrimSpace(line))
			}
			continue
		}
		if bar == nil {
			continue
		}
		if expectSeconds > 0 {
			percent := int(seconds / expectSeconds * 100)
			if percent > 100 {
				percent = 100
			}
			_ = bar.Set(percent)
		} else {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
}

func newCutProgressBar(expectSeconds float64) *progressbar.ProgressBar {
	steps := -1
	if expectSeconds > 0 {
		steps = 100
	}
	return progressbar.NewOptions(steps,
		progressbar.OptionSetDescription("Cutting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSpinnerType(14),
	)
}

// scanStatusLines splits on both \n and \r, since ffmpeg overwrites its
// status line with carriage returns.
func scanStatusLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
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

// parseProgressTime extracts the "time=HH:MM:SS.cc" position from an
// ffmpeg status line as seconds.
func parseProgressTime(line string) (float64, bool) {
	m := progressTimeRegex.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.ParseFloat(m[3], 64)
	return float64(hours*3600+minutes*60) + seconds, true
}

// ParseClockSeconds interprets a user-supplied time value ("90", "1:30",
// "00:01:30.5") as seconds. Returns 0 for anything unparsable; the value
// only drives progress display, never the cut itself.
func ParseClockSeconds(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(value, 64); err == nil {
		if v < 0 {
			return 0
		}
		return v
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	var total float64
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 {
			return 0
		}
		total = total*60 + v
	}
	return total
}
