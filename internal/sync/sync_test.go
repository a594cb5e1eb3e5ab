package sync

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/unite-bookmark-sync/internal/config"
)

type repos struct {
	local  string
	shared string
}

func newRepos(t *testing.T) repos {
	t.Helper()
	root := t.TempDir()
	r := repos{
		local:  filepath.Join(root, "local"),
		shared: filepath.Join(root, "shared"),
	}
	for _, dir := range []string{r.local, r.shared} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return r
}

func (r repos) model(projects ...config.Project) *config.Model {
	return &config.Model{
		LocalRepository:  r.local,
		SharedRepository: r.shared,
		Projects:         projects,
	}
}

func (r repos) writeLocal(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(r.local, name), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write local bookmark file: %v", err)
	}
}

func (r repos) readShared(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(r.shared, name))
	if err != nil {
		t.Fatalf("failed to read shared bookmark file: %v", err)
	}
	return string(data)
}

func TestEngineRun_RoundTrip(t *testing.T) {
	r := newRepos(t)
	r.writeLocal(t, "proj", "0.0.9\n"+
		"t1\t/home/u/proj/src/a.rs\tM\t100\n"+
		"t2\t/home/u/proj/README.md\t\t7\n"+
		"t3\t/home/u/proj/docs/x/y.md\tZ\t0\n")

	m := r.model(config.Project{Name: "proj", Directory: "/home/u/proj/"})
	result := New(DefaultOptions()).Run(context.Background(), m)

	want := "0.1.0\n" +
		"t1\tsrc/a.rs\tM\t100\n" +
		"t2\tREADME.md\t\t7\n" +
		"t3\tdocs/x/y.md\tZ\t0\n"
	if got := r.readShared(t, "proj"); got != want {
		t.Errorf("shared file = %q, want %q", got, want)
	}

	if len(result.Projects) != 1 {
		t.Fatalf("got %d project results, want 1", len(result.Projects))
	}
	pr := result.Projects[0]
	if pr.State != StateDone {
		t.Errorf("State = %s, want %s (err %v)", pr.State, StateDone, pr.Err)
	}
	if pr.Records != 3 {
		t.Errorf("Records = %d, want 3", pr.Records)
	}
	if !result.Success() {
		t.Error("expected result to be successful")
	}
}

func TestEngineRun_MissingLocalLeavesEmptySharedFile(t *testing.T) {
	r := newRepos(t)
	m := r.model(config.Project{Name: "ghost", Directory: "/g"})

	// stale content must be truncated
	if err := os.WriteFile(filepath.Join(r.shared, "ghost"), []byte("old\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	result := New(DefaultOptions()).Run(context.Background(), m)

	if got := r.readShared(t, "ghost"); got != "" {
		t.Errorf("shared file = %q, want empty", got)
	}
	if got := result.Projects[0].State; got != StateSkipped {
		t.Errorf("State = %s, want %s", got, StateSkipped)
	}
	if !result.Success() {
		t.Error("a skipped project is not a failure")
	}
}

func TestEngineRun_EveryProjectInOrder(t *testing.T) {
	r := newRepos(t)
	r.writeLocal(t, "a", "h\nt\t/a/x\t1\t2\n")
	r.writeLocal(t, "c", "h\nt\t/c/z\t1\t2\n")

	m := r.model(
		config.Project{Name: "a", Directory: "/a/"},
		config.Project{Name: "b", Directory: "/b/"},
		config.Project{Name: "c", Directory: "/c/"},
	)

	var order []string
	opts := DefaultOptions()
	opts.Progress = func(pr ProjectResult) {
		order = append(order, pr.Project.Name)
	}
	result := New(opts).Run(context.Background(), m)

	if got := strings.Join(order, ","); got != "a,b,c" {
		t.Errorf("progress order = %q, want a,b,c", got)
	}
	for _, name := range []string{"a", "b", "c"} {
		if _, err := os.Stat(filepath.Join(r.shared, name)); err != nil {
			t.Errorf("shared file %s not created: %v", name, err)
		}
	}
	if len(result.Done()) != 2 || len(result.Skipped()) != 1 {
		t.Errorf("done=%d skipped=%d, want 2 and 1", len(result.Done()), len(result.Skipped()))
	}
}

func TestEngineRun_Idempotent(t *testing.T) {
	r := newRepos(t)
	r.writeLocal(t, "proj", "h\nt1\t/p/a\tM\t1\nbad\nt2\t/p/b\tN\t2\n")
	m := r.model(config.Project{Name: "proj", Directory: "/p/"})
	engine := New(DefaultOptions())

	engine.Run(context.Background(), m)
	first := r.readShared(t, "proj")
	engine.Run(context.Background(), m)
	second := r.readShared(t, "proj")

	if first != second {
		t.Errorf("runs differ:\nfirst  %q\nsecond %q", first, second)
	}
}

func TestEngineRun_MalformedLineReported(t *testing.T) {
	r := newRepos(t)
	r.writeLocal(t, "proj", "h\nonlyonefield\nt\t/p/a\tM\t1\n")
	m := r.model(config.Project{Name: "proj", Directory: "/p/"})

	result := New(DefaultOptions()).Run(context.Background(), m)

	pr := result.Projects[0]
	if pr.State != StateDone {
		t.Fatalf("State = %s, want %s", pr.State, StateDone)
	}
	if len(pr.Malformed) != 1 || pr.Malformed[0].Line != 2 {
		t.Errorf("Malformed = %+v, want line 2", pr.Malformed)
	}
	if got := r.readShared(t, "proj"); got != "0.1.0\nt\ta\tM\t1\n" {
		t.Errorf("shared file = %q", got)
	}
	if result.TotalMalformed() != 1 {
		t.Errorf("TotalMalformed() = %d, want 1", result.TotalMalformed())
	}
}

func TestEngineRun_SharedCreateFailureIsolated(t *testing.T) {
	r := newRepos(t)
	r.writeLocal(t, "ok", "h\nt\t/p/a\tM\t1\n")

	m := r.model(
		config.Project{Name: filepath.Join("missing-dir", "broken"), Directory: "/p/"},
		config.Project{Name: "ok", Directory: "/p/"},
	)
	result := New(DefaultOptions()).Run(context.Background(), m)

	if got := result.Projects[0].State; got != StateFailed {
		t.Errorf("first project State = %s, want %s", got, StateFailed)
	}
	if result.Projects[0].Err == nil {
		t.Error("expected error on failed project")
	}
	if got := result.Projects[1].State; got != StateDone {
		t.Errorf("second project State = %s, want %s", got, StateDone)
	}
	if got := r.readShared(t, "ok"); got != "0.1.0\nt\ta\tM\t1\n" {
		t.Errorf("shared file = %q", got)
	}
	if result.Success() {
		t.Error("expected result to report failure")
	}
}

func TestEngineRun_DuplicateNamesLastWins(t *testing.T) {
	r := newRepos(t)
	r.writeLocal(t, "proj", "h\nt\t/first/a\tM\t1\n")

	m := r.model(
		config.Project{Name: "proj", Directory: "/first/"},
		config.Project{Name: "proj", Directory: "/other/"},
	)
	result := New(DefaultOptions()).Run(context.Background(), m)

	if len(result.Projects) != 2 {
		t.Fatalf("got %d results, want 2", len(result.Projects))
	}
	if got := r.readShared(t, "proj"); got != "0.1.0\nt\t/first/a\tM\t1\n" {
		t.Errorf("shared file = %q, want the second pass output", got)
	}
}

func TestEngineRun_DryRun(t *testing.T) {
	r := newRepos(t)
	r.writeLocal(t, "proj", "h\nt\t/p/a\tM\t1\nbad\n")

	m := r.model(
		config.Project{Name: "proj", Directory: "/p/"},
		config.Project{Name: "ghost", Directory: "/g/"},
	)
	result := New(Options{DryRun: true}).Run(context.Background(), m)

	entries, err := os.ReadDir(r.shared)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run created %d shared files", len(entries))
	}
	if !result.DryRun {
		t.Error("expected DryRun flag on result")
	}
	if got := result.Projects[0]; got.State != StatePlanned || got.Records != 1 || len(got.Malformed) != 1 {
		t.Errorf("planned project = %+v", got)
	}
	if got := result.Projects[1].State; got != StateSkipped {
		t.Errorf("ghost State = %s, want %s", got, StateSkipped)
	}
}

func TestEngineRun_Canceled(t *testing.T) {
	r := newRepos(t)
	m := r.model(config.Project{Name: "a", Directory: "/"}, config.Project{Name: "b", Directory: "/"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := New(DefaultOptions()).Run(ctx, m)

	if len(result.Canceled()) != 2 {
		t.Errorf("Canceled() = %d, want 2", len(result.Canceled()))
	}
	entries, err := os.ReadDir(r.shared)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("canceled run created %d shared files", len(entries))
	}
}

func TestEngineRun_NoProjects(t *testing.T) {
	r := newRepos(t)
	result := New(DefaultOptions()).Run(context.Background(), r.model())

	if len(result.Projects) != 0 {
		t.Errorf("got %d results, want 0", len(result.Projects))
	}
	entries, err := os.ReadDir(r.shared)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("created %d shared files", len(entries))
	}
}
