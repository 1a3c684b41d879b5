package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/kbukum/audiovault/logger"
)

// ErrNotFound is returned when the binary cannot be resolved.
var ErrNotFound = errors.New("process: binary not found")

// Run starts cmd and waits for it. A non-zero exit is an error; the Result
// is still returned so callers can read stderr.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, errors.New("process: binary is required")
	}
	path, err := LookPath(cmd.Binary)
	if err != nil {
		return &Result{ExitCode: -1}, err
	}

	c := exec.CommandContext(ctx, path, cmd.Args...)
	var stdout, stderr bytes.Buffer
	c.Stdout, c.Stderr = &stdout, &stderr

	// Signal the whole group: ffmpeg may fork helpers.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = cmd.grace()

	log := logger.Get("process")
	log.Debug("exec", logger.Fields("cmd", cmd.String()))

	start := time.Now()
	runErr := c.Run()
	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}
	if runErr == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Warn("process canceled", logger.MergeWithDuration(logger.Fields("binary", cmd.Binary), result.Duration))
		return result, fmt.Errorf("process: %s canceled: %w", cmd.Binary, ctxErr)
	}
	return result, fmt.Errorf("process: %s exited with %d: %w", cmd.Binary, result.ExitCode, runErr)
}

// LookPath resolves binary through PATH, wrapping failures in ErrNotFound.
func LookPath(binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotFound, binary, err)
	}
	return path, nil
}
