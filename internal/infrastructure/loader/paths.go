package loader

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"AlignmentScorer/internal/domain"
)

// ExpandPaths resolves annotation path patterns. Plain paths pass through
// unchanged (a missing file surfaces when it is opened); patterns use
// doublestar syntax, so "go/**/*.gaf" walks subdirectories. A pattern that
// matches nothing is an input error. Duplicates are dropped, order is kept.
func ExpandPaths(patterns []string) ([]string, error) {
	var (
		out  []string
		seen = map[string]struct{}{}
	)
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !hasGlobMeta(pattern) {
			add(pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, &domain.InputError{
				Kind: domain.InputMissingFile,
				Path: pattern,
				Err:  fmt.Errorf("%w: pattern matched no files", domain.ErrMissingFile),
			}
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func hasGlobMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
