package cli

import (
	"errors"
	"fmt"
)

// reportedError wraps an error whose message Run already printed to stdout.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// Reported reports whether err was already printed by Run, so callers only
// need to set the exit status.
func Reported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// reportConfigError prints a configuration loading failure (no home
// directory, unreadable file, invalid YAML) to stdout and marks it reported.
func reportConfigError(err error) error {
	fmt.Println(err)
	return &reportedError{err: err}
}
