package sync

import (
	"fmt"
	"strings"

	"github.com/klauern/unite-bookmark-sync/internal/config"
)

// MalformedLine is a skipped input line.
type MalformedLine struct {
	// Line is the 1-based line number in the local file.
	Line int
	// Err describes why the line was rejected.
	Err error
}

// ProjectResult represents the outcome of syncing a single project.
type ProjectResult struct {
	// Project is the project that was processed.
	Project config.Project

	// State is the terminal state of the pass.
	State State

	// LocalPath is the local bookmark file that was read.
	LocalPath string

	// SharedPath is the shared bookmark file that was written.
	SharedPath string

	// Records is the number of record lines written.
	Records int

	// Malformed lists lines skipped for having too few fields.
	Malformed []MalformedLine

	// Dropped counts lines discarded because they were not valid UTF-8.
	Dropped int

	// Err contains the error for StateFailed and StateCanceled.
	Err error
}

// Success returns true if the project did not fail.
func (pr *ProjectResult) Success() bool {
	return pr.State != StateFailed
}

// Result contains the complete outcome of a sync run.
type Result struct {
	// LocalRepository is the root bookmark files were read from.
	LocalRepository string

	// SharedRepository is the root bookmark files were written to.
	SharedRepository string

	// Projects contains the result for each project, in declared order.
	Projects []ProjectResult

	// DryRun indicates if this was a dry run (no files touched).
	DryRun bool
}

// Done returns projects that were fully written.
func (r *Result) Done() []ProjectResult {
	return r.filterByState(StateDone)
}

// Skipped returns projects without a readable local file.
func (r *Result) Skipped() []ProjectResult {
	return r.filterByState(StateSkipped)
}

// Failed returns projects whose shared file could not be written.
func (r *Result) Failed() []ProjectResult {
	return r.filterByState(StateFailed)
}

// Planned returns projects inspected during a dry run.
func (r *Result) Planned() []ProjectResult {
	return r.filterByState(StatePlanned)
}

// Canceled returns projects not attempted because the run was canceled.
func (r *Result) Canceled() []ProjectResult {
	return r.filterByState(StateCanceled)
}

func (r *Result) filterByState(state State) []ProjectResult {
	var filtered []ProjectResult
	for _, pr := range r.Projects {
		if pr.State == state {
			filtered = append(filtered, pr)
		}
	}
	return filtered
}

// Success returns true if no project failed.
func (r *Result) Success() bool {
	return len(r.Failed()) == 0
}

// TotalRecords returns the number of record lines written across projects.
func (r *Result) TotalRecords() int {
	n := 0
	for _, pr := range r.Projects {
		n += pr.Records
	}
	return n
}

// TotalMalformed returns the number of skipped malformed lines.
func (r *Result) TotalMalformed() int {
	n := 0
	for _, pr := range r.Projects {
		n += len(pr.Malformed)
	}
	return n
}

// Summary returns a human-readable summary of the sync result.
func (r *Result) Summary() string {
	var sb strings.Builder

	if r.DryRun {
		sb.WriteString("Dry run - no changes made\n")
	}

	sb.WriteString(fmt.Sprintf("Synced bookmarks %s -> %s\n", r.LocalRepository, r.SharedRepository))
	if r.DryRun {
		sb.WriteString(fmt.Sprintf("  Planned:   %d\n", len(r.Planned())))
	} else {
		sb.WriteString(fmt.Sprintf("  Done:      %d\n", len(r.Done())))
		sb.WriteString(fmt.Sprintf("  Skipped:   %d\n", len(r.Skipped())))
		sb.WriteString(fmt.Sprintf("  Failed:    %d\n", len(r.Failed())))
	}
	if n := len(r.Canceled()); n > 0 {
		sb.WriteString(fmt.Sprintf("  Canceled:  %d\n", n))
	}
	sb.WriteString(fmt.Sprintf("  Records:   %d\n", r.TotalRecords()))
	sb.WriteString(fmt.Sprintf("  Malformed: %d\n", r.TotalMalformed()))

	if !r.Success() {
		sb.WriteString("\nErrors:\n")
		for _, f := range r.Failed() {
			sb.WriteString(fmt.Sprintf("  - %s: %v\n", f.Project.Name, f.Err))
		}
	}

	return sb.String()
}
