package dataset

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Names returns one dataset name per path, in order. A name is the file's
// base name without extension, as Name returns, unless several paths share
// it: those get parent directories prepended ("x-site", "y-site") until they
// differ. Names still equal after that get a numeric suffix.
func Names(paths []string) []string {
	parts := make([][]string, len(paths))
	depth := make([]int, len(paths))
	for i, p := range paths {
		parts[i] = nameParts(p)
		depth[i] = 1
	}

	names := make([]string, len(paths))
	for {
		for i := range paths {
			names[i] = strings.Join(parts[i][len(parts[i])-depth[i]:], "-")
		}

		groups := make(map[string][]int, len(names))
		for i, n := range names {
			groups[n] = append(groups[n], i)
		}

		grew := false
		for _, idx := range groups {
			if len(idx) < 2 {
				continue
			}
			for _, i := range idx {
				if depth[i] < len(parts[i]) {
					depth[i]++
					grew = true
				}
			}
		}
		if !grew {
			break
		}
	}

	used := make(map[string]bool, len(names))
	for _, n := range names {
		used[n] = true
	}
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		if !seen[n] {
			seen[n] = true
			continue
		}
		for k := 2; ; k++ {
			candidate := n + "-" + strconv.Itoa(k)
			if !used[candidate] {
				names[i] = candidate
				used[candidate] = true
				break
			}
		}
	}

	return names
}

// nameParts splits path into its directory components and the extensionless
// base name, dropping empty, "." and ".." elements.
func nameParts(path string) []string {
	dir := filepath.ToSlash(filepath.Dir(filepath.Clean(path)))
	var parts []string
	for _, p := range strings.Split(dir, "/") {
		if p == "" || p == "." || p == ".." {
			continue
		}
		parts = append(parts, p)
	}
	return append(parts, Name(path))
}
