package sync

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauern/unite-bookmark-sync/internal/bookmark"
	"github.com/klauern/unite-bookmark-sync/internal/config"
	"github.com/klauern/unite-bookmark-sync/internal/logging"
)

// ProgressFunc is called after each project finishes.
type ProgressFunc func(ProjectResult)

// Options configures synchronization behavior.
type Options struct {
	// DryRun reads local files and counts records without creating or
	// writing any shared file.
	DryRun bool

	// Progress, when set, is called once per project in order.
	Progress ProgressFunc
}

// DefaultOptions returns the default sync options.
func DefaultOptions() Options {
	return Options{}
}

// Syncer defines the interface for bookmark synchronization.
type Syncer interface {
	// Run syncs every project of m and reports per-project outcomes.
	Run(ctx context.Context, m *config.Model) *Result
}

// Engine implements the Syncer interface.
type Engine struct {
	opts Options
}

var _ Syncer = (*Engine)(nil)

// New creates a new Engine.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Run syncs the projects of m one at a time, in declared order. It never
// fails as a whole: each project's outcome is recorded in the Result. When
// ctx is canceled, projects not yet started are marked StateCanceled.
func (e *Engine) Run(ctx context.Context, m *config.Model) *Result {
	defer logging.Timer("sync")()

	logger := logging.WithContext(ctx)
	logger.Debug("starting sync operation",
		logging.Operation("sync"),
		slog.String("local", m.LocalRepository),
		slog.String("shared", m.SharedRepository),
		logging.Count(len(m.Projects)),
		slog.Bool("dry_run", e.opts.DryRun),
	)

	result := &Result{
		LocalRepository:  m.LocalRepository,
		SharedRepository: m.SharedRepository,
		DryRun:           e.opts.DryRun,
		Projects:         make([]ProjectResult, 0, len(m.Projects)),
	}

	for _, p := range m.Projects {
		var pr ProjectResult
		if err := ctx.Err(); err != nil {
			pr = ProjectResult{
				Project:    p,
				State:      StateCanceled,
				LocalPath:  m.LocalFile(p),
				SharedPath: m.SharedFile(p),
				Err:        err,
			}
		} else {
			pr = e.syncProject(logger.With(logging.Project(p.Name)), m, p)
		}

		result.Projects = append(result.Projects, pr)
		if e.opts.Progress != nil {
			e.opts.Progress(pr)
		}
	}

	logger.Debug("sync operation completed",
		logging.Count(len(result.Projects)),
		slog.Int("records", result.TotalRecords()),
	)

	return result
}

// syncProject runs the per-project pipeline:
// create shared -> open local -> header -> records.
func (e *Engine) syncProject(logger *slog.Logger, m *config.Model, p config.Project) (res ProjectResult) {
	res = ProjectResult{
		Project:    p,
		LocalPath:  m.LocalFile(p),
		SharedPath: m.SharedFile(p),
	}
	defer func() {
		logger.Debug("project processed",
			logging.State(res.State.String()),
			logging.Count(res.Records),
		)
	}()

	if len(p.Defaulted) > 0 {
		logger.Warn("project uses default values, check the configuration",
			logging.Path(p.Directory),
		)
	}

	if e.opts.DryRun {
		return e.planProject(logger, res)
	}

	// #nosec G304 - path comes from the user's configuration
	shared, err := os.Create(res.SharedPath)
	if err != nil {
		res.State = StateFailed
		res.Err = fmt.Errorf("failed to create shared bookmark file: %w", err)
		logger.Error("cannot create shared bookmark file",
			logging.Path(res.SharedPath),
			logging.Err(err),
		)
		return res
	}
	defer func() {
		if cerr := shared.Close(); cerr != nil && res.Err == nil {
			res.State = StateFailed
			res.Err = fmt.Errorf("failed to close shared bookmark file: %w", cerr)
			logger.Error("cannot close shared bookmark file",
				logging.Path(res.SharedPath),
				logging.Err(cerr),
			)
		}
	}()

	// #nosec G304 - path comes from the user's configuration
	local, err := os.Open(res.LocalPath)
	if err != nil {
		res.State = StateSkipped
		logger.Debug("local bookmark file unavailable, nothing to sync",
			logging.Path(res.LocalPath),
			logging.Err(err),
		)
		return res
	}
	defer func() { _ = local.Close() }()

	w := bufio.NewWriter(shared)
	stats, err := Transform(local, w, p.Directory)
	if err == nil {
		err = w.Flush()
	}
	e.record(logger, &res, stats)
	if err != nil {
		res.State = StateFailed
		res.Err = fmt.Errorf("failed to sync bookmarks: %w", err)
		logger.Error("bookmark sync failed",
			logging.Path(res.SharedPath),
			logging.Err(err),
		)
		return res
	}

	res.State = StateDone
	return res
}

// planProject reads the local file without writing anything.
func (e *Engine) planProject(logger *slog.Logger, res ProjectResult) ProjectResult {
	// #nosec G304 - path comes from the user's configuration
	local, err := os.Open(res.LocalPath)
	if err != nil {
		res.State = StateSkipped
		logger.Debug("local bookmark file unavailable, nothing to sync",
			logging.Path(res.LocalPath),
			logging.Err(err),
		)
		return res
	}
	defer func() { _ = local.Close() }()

	stats, err := Transform(local, io.Discard, res.Project.Directory)
	e.record(logger, &res, stats)
	if err != nil {
		res.State = StateFailed
		res.Err = fmt.Errorf("failed to read bookmarks: %w", err)
		return res
	}
	res.State = StatePlanned
	return res
}

// record copies Transform statistics into res and reports skipped lines.
func (e *Engine) record(logger *slog.Logger, res *ProjectResult, stats Stats) {
	res.Records = stats.Records
	res.Malformed = stats.Malformed
	res.Dropped = stats.Dropped

	if bookmark.NewerHeader(stats.Header) {
		logger.Warn("local bookmark file has a newer format version",
			logging.Path(res.LocalPath),
			slog.String("header", stats.Header),
			slog.String("supported", bookmark.FormatVersion),
		)
	}
	for _, ml := range stats.Malformed {
		logger.Warn("skipping malformed bookmark line",
			logging.Path(res.LocalPath),
			logging.Line(ml.Line),
			logging.Err(ml.Err),
		)
	}
	if stats.Dropped > 0 {
		logger.Debug("dropped lines that are not valid UTF-8",
			logging.Path(res.LocalPath),
			logging.Count(stats.Dropped),
		)
	}
}
