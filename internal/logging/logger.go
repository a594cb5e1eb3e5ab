// Package logging configures log/slog for unite-bookmark-sync and provides
// the attribute helpers used for project, path and line context.
//
// Diagnostics go to stderr; stdout is reserved for the sync report.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Levels re-exported so callers need not import slog for them.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Options selects the handler built by New.
type Options struct {
	// Level is the minimum level written.
	Level slog.Level
	// Output receives log records; nil means os.Stderr.
	Output io.Writer
	// JSON switches from the text handler to the JSON handler.
	JSON bool
	// AddSource annotates records with file:line (--debug).
	AddSource bool
}

// DefaultOptions is info-level text on stderr.
func DefaultOptions() Options {
	return Options{Level: LevelInfo, Output: os.Stderr}
}

// New builds a logger from opts.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(out, ho))
	}
	return slog.New(slog.NewTextHandler(out, ho))
}

var (
	mu       sync.RWMutex
	fallback *slog.Logger
)

// Default returns the logger installed by SetDefault, or a DefaultOptions
// logger when none was installed.
func Default() *slog.Logger {
	mu.RLock()
	l := fallback
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if fallback == nil {
		fallback = New(DefaultOptions())
	}
	return fallback
}

// SetDefault installs logger for this package and for slog.
func SetDefault(logger *slog.Logger) {
	mu.Lock()
	fallback = logger
	mu.Unlock()
	slog.SetDefault(logger)
}

// Debug logs through Default.
func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

// Warn logs through Default.
func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

// Timer logs the elapsed time of operation at debug level when the
// returned function is called.
//
//	defer logging.Timer("sync")()
func Timer(operation string) func() {
	start := time.Now()
	return func() {
		Debug("operation finished",
			Operation(operation),
			slog.Duration(KeyDuration, time.Since(start)),
		)
	}
}

type ctxKey struct{}

// NewContext returns a context carrying logger. The CLI attaches the
// configured logger so the sync engine logs through it.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger carried by ctx, or nil.
func FromContext(ctx context.Context) *slog.Logger {
	l, _ := ctx.Value(ctxKey{}).(*slog.Logger)
	return l
}

// WithContext returns FromContext(ctx), falling back to Default.
func WithContext(ctx context.Context) *slog.Logger {
	if l := FromContext(ctx); l != nil {
		return l
	}
	return Default()
}

// Attribute keys.
const (
	KeyProject   = "project"
	KeyPath      = "path"
	KeyLine      = "line" // 1-based line in a bookmark file
	KeyOperation = "operation"
	KeyState     = "state" // terminal state of a project pass
	KeyCount     = "count"
	KeyError     = "error"
	KeyDuration  = "duration"
)

// Project names the configured project a record is about.
func Project(name string) slog.Attr { return slog.String(KeyProject, name) }

// Path is a local or shared bookmark file, or a repository.
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

// Line is a line number inside a bookmark file.
func Line(n int) slog.Attr { return slog.Int(KeyLine, n) }

// Operation names the step being logged ("sync", "validate").
func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }

// State is a project state such as "done" or "skipped".
func State(s string) slog.Attr { return slog.String(KeyState, s) }

// Count is a number of projects or records.
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }

// Err attaches err; a nil error yields an empty attribute, which slog drops.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}
