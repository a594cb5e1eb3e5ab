package sync

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/klauern/unite-bookmark-sync/internal/bookmark"
)

// Stats describes one Transform pass.
type Stats struct {
	// Header is the discarded first line of the input.
	Header string
	// Records is the number of record lines written.
	Records int
	// Malformed lists lines with fewer than two fields.
	Malformed []MalformedLine
	// Dropped counts lines that were not valid UTF-8.
	Dropped int
}

// Transform copies a bookmark file from r to w. The first input line is
// discarded and replaced by bookmark.FormatVersion; every following record has
// the first occurrence of dir removed from its path. The header is written even
// when r is empty. An error is returned only when reading r or writing w fails.
func Transform(r io.Reader, w io.Writer, dir string) (Stats, error) {
	var stats Stats

	if _, err := io.WriteString(w, bookmark.FormatVersion+"\n"); err != nil {
		return stats, fmt.Errorf("failed to write header: %w", err)
	}

	br := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, readErr := br.ReadString('\n')
		if raw == "" && readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return stats, nil
			}
			return stats, fmt.Errorf("failed to read line %d: %w", lineNo+1, readErr)
		}
		lineNo++

		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		switch {
		case !utf8.ValidString(line):
			stats.Dropped++
		case lineNo == 1:
			stats.Header = line
		default:
			rec, err := bookmark.Parse(line)
			if err != nil {
				stats.Malformed = append(stats.Malformed, MalformedLine{Line: lineNo, Err: err})
				break
			}
			if _, err := io.WriteString(w, rec.Relativize(dir).String()+"\n"); err != nil {
				return stats, fmt.Errorf("failed to write line %d: %w", lineNo, err)
			}
			stats.Records++
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return stats, nil
			}
			return stats, fmt.Errorf("failed to read line %d: %w", lineNo+1, readErr)
		}
	}
}
