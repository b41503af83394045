package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"AlignmentScorer/internal/domain"
)

// GAF rows can carry long free-text columns.
const maxLineBytes = 4 << 20

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.InputError{Kind: domain.InputMissingFile, Path: path, Err: domain.ErrMissingFile}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// eachLine calls fn for every line with its 1-based number.
func eachLine(path string, r io.Reader, fn func(line int, text string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	n := 0
	for sc.Scan() {
		n++
		if err := fn(n, sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// splitFields splits on delim, or on tabs when the line has any, or on runs
// of whitespace otherwise. Fields are trimmed.
func splitFields(line, delim string) []string {
	var parts []string
	switch {
	case delim != "" && strings.TrimSpace(delim) == "":
		if delim == "\t" {
			parts = strings.Split(line, "\t")
		} else {
			return strings.Fields(line)
		}
	case delim != "":
		parts = strings.Split(line, delim)
	case strings.Contains(line, "\t"):
		parts = strings.Split(line, "\t")
	default:
		return strings.Fields(line)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func malformed(path string, line int, format string, args ...any) error {
	return &domain.InputError{
		Kind: domain.InputMalformedRow,
		Path: path,
		Line: line,
		Err:  fmt.Errorf("%w: "+format, append([]any{domain.ErrMalformedRow}, args...)...),
	}
}
