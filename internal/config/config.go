// Package config provides configuration management for unite-bookmark-sync.
// It locates the YAML configuration file, parses it into a generic document
// tree and builds the typed project model the sync engine consumes.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klauern/unite-bookmark-sync/internal/logging"
)

const (
	// DefaultProjectName is used when a project has no string name.
	DefaultProjectName = "default"
	// DefaultDirectory is used for any path field that is missing or not a string.
	DefaultDirectory = "/"
)

// ErrNoProjects is returned by Build when the document has no projects sequence.
var ErrNoProjects = errors.New("there is no project")

// Model is the validated, read-only configuration of a run.
type Model struct {
	// LocalRepository is the root holding per-machine bookmark files.
	LocalRepository string `yaml:"local_bookmark_repository" toml:"local_bookmark_repository"`
	// SharedRepository is the root receiving the directory-relative copies.
	SharedRepository string `yaml:"shared_bookmark_repository" toml:"shared_bookmark_repository"`
	// Projects in document order. Names may repeat.
	Projects []Project `yaml:"projects" toml:"projects"`

	// Defaulted lists top-level fields that fell back to DefaultDirectory.
	Defaulted []string `yaml:"-" toml:"-"`
}

// Project is a named directory whose bookmarks are synced independently.
type Project struct {
	Name      string `yaml:"name" toml:"name"`
	Directory string `yaml:"directory" toml:"directory"`

	// Defaulted lists fields ("name", "directory") that fell back to defaults.
	Defaulted []string `yaml:"-" toml:"-"`
}

// LocalFile returns the path of the project's local bookmark file.
func (m *Model) LocalFile(p Project) string {
	return filepath.Join(m.LocalRepository, p.Name)
}

// SharedFile returns the path of the project's shared bookmark file.
func (m *Model) SharedFile(p Project) string {
	return filepath.Join(m.SharedRepository, p.Name)
}

// Encode writes the model in the given format ("yaml" or "toml").
func (m *Model) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("failed to encode config as yaml: %w", err)
		}
		return enc.Close()
	case "toml":
		if err := toml.NewEncoder(w).Encode(m); err != nil {
			return fmt.Errorf("failed to encode config as toml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (use yaml or toml)", format)
	}
}

// rawProject holds the optional fields of a projects entry as found in the
// document. A nil field was missing or not a string.
type rawProject struct {
	Name      *string
	Directory *string
}

type rawDocument struct {
	LocalRepository  *string
	SharedRepository *string
	Projects         []rawProject
}

// Build constructs a Model from a parsed document. It fails only when the
// document has no "projects" sequence, returning ErrNoProjects; every other
// missing or non-string field takes its default.
func Build(doc *yaml.Node) (*Model, error) {
	raw, err := decodeDocument(doc)
	if err != nil {
		return nil, err
	}
	return raw.resolve(), nil
}

func decodeDocument(doc *yaml.Node) (*rawDocument, error) {
	root := documentRoot(doc)
	if root == nil {
		return nil, ErrNoProjects
	}

	projects := lookup(root, "projects")
	if projects == nil || projects.Kind != yaml.SequenceNode {
		return nil, ErrNoProjects
	}

	raw := &rawDocument{
		LocalRepository:  stringValue(lookup(root, "local_bookmark_repository")),
		SharedRepository: stringValue(lookup(root, "shared_bookmark_repository")),
		Projects:         make([]rawProject, 0, len(projects.Content)),
	}
	for _, item := range projects.Content {
		item = deref(item)
		raw.Projects = append(raw.Projects, rawProject{
			Name:      stringValue(lookup(item, "name")),
			Directory: stringValue(lookup(item, "directory")),
		})
	}
	return raw, nil
}

// resolve applies defaults. It is the only place where missing fields are
// turned into concrete values.
func (r *rawDocument) resolve() *Model {
	m := &Model{
		LocalRepository:  DefaultDirectory,
		SharedRepository: DefaultDirectory,
		Projects:         make([]Project, 0, len(r.Projects)),
	}

	if r.LocalRepository != nil {
		m.LocalRepository = *r.LocalRepository
	} else {
		m.Defaulted = append(m.Defaulted, "local_bookmark_repository")
	}
	if r.SharedRepository != nil {
		m.SharedRepository = *r.SharedRepository
	} else {
		m.Defaulted = append(m.Defaulted, "shared_bookmark_repository")
	}
	for _, field := range m.Defaulted {
		logging.Warn("repository path missing or not a string, using default",
			slog.String("field", field),
			logging.Path(DefaultDirectory),
		)
	}

	seen := make(map[string]int, len(r.Projects))
	for i, rp := range r.Projects {
		p := Project{Name: DefaultProjectName, Directory: DefaultDirectory}
		if rp.Name != nil {
			p.Name = *rp.Name
		} else {
			p.Defaulted = append(p.Defaulted, "name")
		}
		if rp.Directory != nil {
			p.Directory = *rp.Directory
		} else {
			p.Defaulted = append(p.Defaulted, "directory")
		}

		if len(p.Defaulted) > 0 {
			logging.Warn("project field missing or not a string, using default",
				logging.Project(p.Name),
				slog.Int("index", i),
				slog.String("fields", strings.Join(p.Defaulted, ",")),
			)
		}
		if prev, ok := seen[p.Name]; ok {
			logging.Warn("duplicate project name, last entry wins",
				logging.Project(p.Name),
				slog.Int("first_index", prev),
				slog.Int("index", i),
			)
		}
		seen[p.Name] = i
		m.Projects = append(m.Projects, p)
	}

	return m
}

// documentRoot unwraps a DocumentNode to its content.
func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc == nil {
		return nil
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return deref(doc.Content[0])
	}
	return deref(doc)
}

// lookup returns the value for key in a mapping node, or nil. When a key
// repeats, the last value wins.
func lookup(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	var found *yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := deref(n.Content[i])
		if k.Kind == yaml.ScalarNode && k.Value == key {
			found = n.Content[i+1]
		}
	}
	return deref(found)
}

// stringValue returns the scalar's value if it is a YAML string. Integers,
// booleans, nulls and collections are not strings.
func stringValue(n *yaml.Node) *string {
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return nil
	}
	v := n.Value
	return &v
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
