// Package e2e runs the unite-bookmark-sync CLI in-process against an
// isolated HOME with real local and shared bookmark repositories.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/klauern/unite-bookmark-sync/internal/cli"
	"github.com/klauern/unite-bookmark-sync/internal/config"
)

const programName = "unite-bookmark-sync"

// Result is what one CLI invocation produced.
type Result struct {
	// Stdout is everything printed to standard output.
	Stdout string
	// Err is the error cli.Run returned.
	Err error
	// ExitCode is the status main would exit with.
	ExitCode int
}

// Success reports whether cli.Run returned no error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness owns the temporary HOME of one test.
type Harness struct {
	t       *testing.T
	homeDir string
}

// NewHarness points HOME at a fresh temp dir, clears the config path
// override and disables colors so output can be compared as text.
func NewHarness(t *testing.T) *Harness {
	t.Helper()
	h := &Harness{t: t, homeDir: t.TempDir()}
	h.SetEnv("HOME", h.homeDir)
	h.SetEnv(config.EnvConfigPath, "")
	h.SetEnv("NO_COLOR", "1")
	return h
}

// SetEnv sets an environment variable until the test ends.
func (h *Harness) SetEnv(key, value string) {
	h.t.Helper()
	h.t.Setenv(key, value)
}

// HomeDir returns the temporary HOME.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// Run invokes the CLI with args, as if typed after the program name.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	var err error
	stdout := h.captureStdout(func() {
		err = cli.Run(context.Background(), append([]string{programName}, args...))
	})

	r := &Result{Stdout: stdout, Err: err}
	if err != nil {
		r.ExitCode = 1
	}
	return r
}

// captureStdout redirects os.Stdout while fn runs. The pipe is drained
// concurrently so large reports cannot block the writer.
func (h *Harness) captureStdout(fn func()) string {
	h.t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stdout pipe: %v", err)
	}
	saved := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = saved }()

	var buf bytes.Buffer
	drained := make(chan error, 1)
	go func() {
		_, copyErr := io.Copy(&buf, r)
		drained <- copyErr
	}()

	fn()

	if err := w.Close(); err != nil {
		h.t.Fatalf("failed to close stdout pipe: %v", err)
	}
	if err := <-drained; err != nil {
		h.t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}
