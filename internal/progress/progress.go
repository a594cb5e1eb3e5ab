// Package progress draws a bar that advances once per synced project.
package progress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/klauern/unite-bookmark-sync/internal/logging"
	"github.com/klauern/unite-bookmark-sync/internal/ui"
)

// Tracker follows a sync run over a fixed number of projects. When the bar
// is hidden it only counts steps and logs them at debug level.
type Tracker struct {
	bar   *progressbar.ProgressBar
	total int
	steps int
}

// NewTracker returns a tracker for total projects writing to w (stderr when
// nil). The bar is drawn only for a colored terminal without debug logging,
// whose output would interleave with it.
func NewTracker(total int, w io.Writer) *Tracker {
	if w == nil {
		w = os.Stderr
	}

	t := &Tracker{total: total}
	if !visible(w) {
		return t
	}

	t.bar = progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription("Syncing bookmarks"),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.ColorsEnabled()),
	)
	return t
}

// Visible reports whether the bar is drawn.
func (t *Tracker) Visible() bool {
	return t.bar != nil
}

// Steps returns the number of projects seen so far.
func (t *Tracker) Steps() int {
	return t.steps
}

// Step records that project finished.
func (t *Tracker) Step(project string) {
	t.steps++
	if t.bar == nil {
		logging.Debug("project finished",
			logging.Project(project),
			slog.String("progress", fmt.Sprintf("%d/%d", t.steps, t.total)),
		)
		return
	}
	t.bar.Describe(project)
	_ = t.bar.Add(1)
}

// Done completes the bar.
func (t *Tracker) Done() {
	if t.bar != nil {
		_ = t.bar.Finish()
	}
}

func visible(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || !ui.ColorsEnabled() || !ui.IsTerminal(f) {
		return false
	}
	return !logging.Default().Enabled(context.Background(), logging.LevelDebug)
}
