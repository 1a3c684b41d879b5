package process

import (
	"strings"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process was killed or never started.
	ExitCode int
	Duration time.Duration
}

// StderrTail returns at most the last n lines of stderr, trimmed. Tools
// like ffmpeg print a banner first and the actual failure last.
func (r *Result) StderrTail(n int) string {
	if r == nil {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(string(r.Stderr)), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
