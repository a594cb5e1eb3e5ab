package e2e

import (
	"os"
	"strings"
	"testing"

	"github.com/klauern/unite-bookmark-sync/internal/bookmark"
)

// AssertSuccess stops the test when the command returned an error.
func AssertSuccess(t *testing.T, r *Result) {
	t.Helper()
	if r.Err != nil {
		t.Fatalf("command failed: %v\nstdout:\n%s", r.Err, r.Stdout)
	}
}

// AssertExitCode checks the exit status main would use for r.
func AssertExitCode(t *testing.T, r *Result, want int) {
	t.Helper()
	if r.ExitCode != want {
		t.Errorf("exit code = %d, want %d (err: %v)\nstdout:\n%s", r.ExitCode, want, r.Err, r.Stdout)
	}
}

// AssertErrorContains stops the test unless the command failed with an
// error mentioning substr.
func AssertErrorContains(t *testing.T, r *Result, substr string) {
	t.Helper()
	if r.Err == nil {
		t.Fatalf("command succeeded, want an error containing %q\nstdout:\n%s", substr, r.Stdout)
	}
	if !strings.Contains(r.Err.Error(), substr) {
		t.Errorf("error = %q, want it to contain %q", r.Err, substr)
	}
}

// AssertOutputContains checks that stdout mentions substr.
func AssertOutputContains(t *testing.T, r *Result, substr string) {
	t.Helper()
	if !strings.Contains(r.Stdout, substr) {
		t.Errorf("stdout does not contain %q:\n%s", substr, r.Stdout)
	}
}

// AssertOutputEquals checks stdout byte for byte.
func AssertOutputEquals(t *testing.T, r *Result, want string) {
	t.Helper()
	if r.Stdout != want {
		t.Errorf("stdout = %q, want %q", r.Stdout, want)
	}
}

// AssertFileExists checks that a shared bookmark file was created.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

// AssertFileNotExists checks that nothing was written at path.
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected %s not to exist", path)
	}
}

// AssertFileEquals compares a file with want byte for byte.
func AssertFileEquals(t *testing.T, path, want string) {
	t.Helper()
	// #nosec G304 - path is built by the test
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("%s = %q, want %q", path, data, want)
	}
}

// AssertSharedBookmarks checks that path holds the format header followed by
// exactly the given record lines.
func AssertSharedBookmarks(t *testing.T, path string, records ...string) {
	t.Helper()
	want := bookmark.FormatVersion + "\n"
	for _, rec := range records {
		want += rec + "\n"
	}
	AssertFileEquals(t, path, want)
}
