package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/unite-bookmark-sync/internal/bookmark"
	"github.com/klauern/unite-bookmark-sync/internal/config"
)

// Repository is a bookmark repository directory used by a test: either the
// local one the CLI reads from or the shared one it writes to.
type Repository struct {
	t   *testing.T
	dir string
}

// NewRepository returns a Repository rooted at dir, creating it.
func NewRepository(t *testing.T, dir string) *Repository {
	t.Helper()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create repository %s: %v", dir, err)
	}
	return &Repository{t: t, dir: dir}
}

// Path returns the path of name inside the repository. Path("") is the
// repository itself.
func (r *Repository) Path(name string) string {
	return filepath.Join(r.dir, name)
}

// WriteFile stores content under name, creating parent directories.
func (r *Repository) WriteFile(name, content string) string {
	r.t.Helper()
	path := r.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		r.t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		r.t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteBookmarks writes the bookmark file of a project: header, then one
// line per record.
func (r *Repository) WriteBookmarks(project, header string, records ...string) string {
	r.t.Helper()
	return r.WriteFile(project, header+"\n"+joinLines(records))
}

// ReadFile returns the content of name.
func (r *Repository) ReadFile(name string) string {
	r.t.Helper()
	// #nosec G304 - path is inside the test's repository
	data, err := os.ReadFile(r.Path(name))
	if err != nil {
		r.t.Fatalf("failed to read %s: %v", r.Path(name), err)
	}
	return string(data)
}

// Record joins fields into a tab-separated bookmark line.
func Record(fields ...string) string {
	return strings.Join(fields, bookmark.Separator)
}

func joinLines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// Local returns the local bookmark repository under HOME.
func (h *Harness) Local() *Repository {
	h.t.Helper()
	return NewRepository(h.t, filepath.Join(h.homeDir, "bookmarks", "local"))
}

// Shared returns the shared bookmark repository under HOME.
func (h *Harness) Shared() *Repository {
	h.t.Helper()
	return NewRepository(h.t, filepath.Join(h.homeDir, "bookmarks", "shared"))
}

// Scratch returns a repository in a fresh temp dir outside HOME.
func (h *Harness) Scratch() *Repository {
	h.t.Helper()
	return NewRepository(h.t, h.t.TempDir())
}

// WriteConfig writes HOME/.unite_bookmark_sync.yml pointing at Local and
// Shared, followed by projects (a YAML "projects:" section).
func (h *Harness) WriteConfig(projects string) string {
	h.t.Helper()
	return h.WriteRawConfig(RepositoriesYAML(h.Local(), h.Shared()) + projects)
}

// WriteRawConfig writes content verbatim as the config file under HOME.
func (h *Harness) WriteRawConfig(content string) string {
	h.t.Helper()
	return NewRepository(h.t, h.homeDir).WriteFile(config.FileName, content)
}

// RepositoriesYAML renders the two repository keys of a config file.
func RepositoriesYAML(local, shared *Repository) string {
	return "local_bookmark_repository: " + local.dir + "\n" +
		"shared_bookmark_repository: " + shared.dir + "\n"
}
