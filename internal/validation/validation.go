// Package validation checks a bookmark sync configuration before it is run.
//
// Shared repository problems are errors because every project would fail.
// Everything else is a warning: the run still behaves predictably, it just
// probably does not do what the user meant.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/unite-bookmark-sync/internal/config"
)

const (
	fieldLocal  = "local_bookmark_repository"
	fieldShared = "shared_bookmark_repository"
)

// Error is a problem with one repository path of the config file.
type Error struct {
	// Field is the config key, e.g. "shared_bookmark_repository".
	Field string
	// Path is the configured value.
	Path string
	// Reason says what is wrong with Path.
	Reason string
	// Err is the underlying filesystem error, if any.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %q: %s", e.Field, e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options configures ValidateModel.
type Options struct {
	// RequireWritePermission creates and removes a temporary file in the
	// shared repository to prove it is writable.
	RequireWritePermission bool
}

// DefaultOptions enables every check.
func DefaultOptions() Options {
	return Options{RequireWritePermission: true}
}

// Result lists the findings of ValidateModel.
type Result struct {
	// Errors would make every project fail.
	Errors []error
	// Warnings describe likely misconfiguration.
	Warnings []string
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Valid reports whether there are no errors. Warnings do not count.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err joins all errors, or returns nil when the result is valid.
func (r *Result) Err() error {
	switch len(r.Errors) {
	case 0:
		return nil
	case 1:
		return r.Errors[0]
	default:
		return fmt.Errorf("%d configuration errors: %w", len(r.Errors), errors.Join(r.Errors...))
	}
}

// Summary is a one-line verdict for the report header.
func (r *Result) Summary() string {
	var verdict string
	switch {
	case !r.Valid():
		verdict = "Validation failed"
	case len(r.Warnings) > 0:
		verdict = "Validation passed with warnings"
	default:
		return "All validations passed"
	}
	if n := len(r.Warnings); n > 0 {
		verdict += fmt.Sprintf(" (%d warning(s))", n)
	}
	return verdict
}

// ValidateModel inspects the repositories and projects of m without
// changing anything, apart from the optional write check.
func ValidateModel(m *config.Model, opts Options) *Result {
	r := &Result{}

	if err := CheckDirectory(fieldShared, m.SharedRepository); err != nil {
		r.Errors = append(r.Errors, err)
	} else if opts.RequireWritePermission {
		if err := checkWritable(m.SharedRepository); err != nil {
			r.Errors = append(r.Errors, err)
		}
	}

	if err := CheckDirectory(fieldLocal, m.LocalRepository); err != nil {
		r.warnf("local repository unavailable, every project will be skipped: %v", err)
	}
	for _, field := range m.Defaulted {
		r.warnf("%s is missing, using %q", field, config.DefaultDirectory)
	}

	seen := make(map[string]bool, len(m.Projects))
	for i, p := range m.Projects {
		for _, w := range projectWarnings(p) {
			r.warnf("projects[%d] (%s): %s", i, p.Name, w)
		}
		if seen[p.Name] {
			r.warnf("projects[%d] (%s): duplicate name, the last entry overwrites earlier ones", i, p.Name)
		}
		seen[p.Name] = true
	}
	if len(m.Projects) == 0 {
		r.warnf("No projects configured")
	}

	return r
}

func projectWarnings(p config.Project) []string {
	var warnings []string
	for _, field := range p.Defaulted {
		warnings = append(warnings, field+" is missing or not a string, using default")
	}
	switch {
	case p.Name == "":
		warnings = append(warnings, "name is empty")
	case strings.ContainsRune(p.Name, filepath.Separator) || p.Name == "." || p.Name == "..":
		warnings = append(warnings, "name is not a plain file name")
	}
	switch {
	case p.Directory == config.DefaultDirectory:
		warnings = append(warnings, "directory is the filesystem root, only the leading slash will be removed")
	case !filepath.IsAbs(p.Directory):
		warnings = append(warnings, fmt.Sprintf("directory %q is not absolute", p.Directory))
	}
	return warnings
}

// CheckDirectory returns an *Error unless path names an existing directory.
func CheckDirectory(field, path string) error {
	if path == "" {
		return &Error{Field: field, Path: path, Reason: "path is empty"}
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &Error{Field: field, Path: path, Reason: "does not exist", Err: err}
	case err != nil:
		return &Error{Field: field, Path: path, Reason: "cannot be accessed", Err: err}
	case !info.IsDir():
		return &Error{Field: field, Path: path, Reason: "is not a directory"}
	}
	return nil
}

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".unite-bookmark-sync-write-check-*")
	if err != nil {
		return &Error{Field: fieldShared, Path: dir, Reason: "is not writable", Err: err}
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return nil
}
