package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the configuration file name inside the home directory.
	FileName = ".unite_bookmark_sync.yml"
	// EnvConfigPath overrides the configuration file location.
	EnvConfigPath = "UNITE_BOOKMARK_SYNC_CONFIG"
)

// ErrNoHomeDirectory is returned when the home directory cannot be determined.
var ErrNoHomeDirectory = errors.New("no home directory")

// Kind classifies a configuration loading failure.
type Kind int

const (
	// KindIO means the file could not be opened or read.
	KindIO Kind = iota
	// KindParse means the file is not valid YAML.
	KindParse
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is a configuration loading failure with context.
type Error struct {
	// Kind tells whether reading or parsing failed.
	Kind Kind
	// Path is the configuration file path.
	Path string
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
func (e *Error) Error() string {
	switch e.Kind {
	case KindParse:
		return fmt.Sprintf("failed to parse config %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("failed to read config %s: %v", e.Path, e.Err)
	}
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// FilePath returns the path to the config file: $UNITE_BOOKMARK_SYNC_CONFIG
// when set, otherwise ~/.unite_bookmark_sync.yml.
func FilePath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoHomeDirectory
	}
	return filepath.Join(home, FileName), nil
}

// Load reads and parses the config file at FilePath.
func Load() (*yaml.Node, error) {
	path, err := FilePath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and parses the config file at path into a document tree.
func LoadFromPath(path string) (*yaml.Node, error) {
	// #nosec G304 - path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindIO, Path: path, Err: err}
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, &Error{Kind: KindParse, Path: path, Err: err}
	}
	return doc, nil
}

// Parse decodes the first YAML document in data. Empty input yields an
// empty DocumentNode rather than an error. Later documents are not used, but
// they must still be valid YAML.
func Parse(data []byte) (*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &yaml.Node{Kind: yaml.DocumentNode}, nil
		}
		return nil, err
	}

	for n := 2; ; n++ {
		var rest yaml.Node
		err := dec.Decode(&rest)
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", n, err)
		}
	}
}
