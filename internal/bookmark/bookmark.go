// Package bookmark parses and formats the line-oriented bookmark file format.
//
// A bookmark file starts with a version header line followed by one record
// per line. Each record has four tab-separated fields: a tag, the bookmarked
// path, and two opaque trailing fields.
package bookmark

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// FormatVersion is the header written to every shared bookmark file.
const FormatVersion = "0.1.0"

// Separator delimits record fields.
const Separator = "\t"

// ErrTooFewFields is returned for a line without a path field.
var ErrTooFewFields = errors.New("bookmark line has fewer than 2 fields")

var formatVersion = semver.MustParse(FormatVersion)

// Record is one parsed bookmark line.
type Record struct {
	Tag    string
	Path   string
	ExtraA string
	ExtraB string
}

// Parse splits a line (without its newline) into a Record. Lines with two or
// three fields leave the missing extras empty; fields past the fourth are
// ignored.
func Parse(line string) (Record, error) {
	fields := strings.Split(line, Separator)
	if len(fields) < 2 {
		return Record{}, fmt.Errorf("%w: %q", ErrTooFewFields, line)
	}

	r := Record{Tag: fields[0], Path: fields[1]}
	if len(fields) > 2 {
		r.ExtraA = fields[2]
	}
	if len(fields) > 3 {
		r.ExtraB = fields[3]
	}
	return r, nil
}

// String formats the record as a line without the trailing newline.
func (r Record) String() string {
	return r.Tag + Separator + r.Path + Separator + r.ExtraA + Separator + r.ExtraB
}

// Relativize returns a copy of r with the first occurrence of dir removed
// from Path. The match is a literal substring, not a path-prefix check.
func (r Record) Relativize(dir string) Record {
	r.Path = strings.Replace(r.Path, dir, "", 1)
	return r
}

// NewerHeader reports whether header is a semantic version newer than
// FormatVersion. Headers that are not versions are never newer.
func NewerHeader(header string) bool {
	v, err := semver.NewVersion(strings.TrimSpace(header))
	if err != nil {
		return false
	}
	return v.GreaterThan(formatVersion)
}
