package dataset

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand resolves dataset arguments. Arguments containing glob
// metacharacters are expanded with doublestar semantics ("audits/**/*.csv");
// plain paths are kept as given. The result is de-duplicated and keeps
// argument order, with each glob's matches sorted.
func Expand(args []string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string

	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	for _, arg := range args {
		if !hasMeta(arg) {
			add(arg)
			continue
		}
		if !doublestar.ValidatePattern(arg) {
			return nil, fmt.Errorf("invalid glob pattern %q", arg)
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", arg, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	if len(paths) == 0 {
		return nil, ErrNoDatasets
	}
	return paths, nil
}

func hasMeta(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
