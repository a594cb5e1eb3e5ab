// Package util holds test helpers shared by the bookmark packages.
//
//nolint:revive // var-naming - package name is meaningful
package util

import (
	"os"
	"path/filepath"
	"testing"
)

// updateGolden makes GoldenFile rewrite golden files instead of comparing.
var updateGolden bool

// SetUpdateGolden switches golden-file rewriting on or off. Tests wire it to
// an -update flag.
func SetUpdateGolden(update bool) {
	updateGolden = update
}

// UpdateGolden reports whether golden files are being rewritten.
func UpdateGolden() bool {
	return updateGolden
}

// AssertNoError stops the test when err is set.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertEqual reports a mismatch between got and want.
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

// GoldenFile compares got with testdataDir/name.golden. Bookmark output is
// compared byte for byte, tabs and trailing newline included.
func GoldenFile(t *testing.T, testdataDir, name, got string) {
	t.Helper()
	path := filepath.Join(testdataDir, name+".golden")

	if updateGolden {
		if err := os.MkdirAll(testdataDir, 0o750); err != nil {
			t.Fatalf("failed to create %s: %v", testdataDir, err)
		}
		if err := os.WriteFile(path, []byte(got), 0o600); err != nil {
			t.Fatalf("failed to update %s: %v", path, err)
		}
		return
	}

	// #nosec G304 - golden files live under the package testdata directory
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v (run with -update to create it)", path, err)
	}
	if got != string(want) {
		t.Errorf("%s mismatch\n--- got ---\n%q\n--- want ---\n%q", name, got, string(want))
	}
}
