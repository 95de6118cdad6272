// # internal/build/outputs.go
package build

import (
	"path/filepath"
	"sort"

	"tokenbridge/internal/config"
)

// OutputFiles derives the absolute paths the build writes from the platform
// configuration. dir is the directory the build runs in; relative build
// paths and destinations are resolved against it.
func OutputFiles(cfg config.Build, dir string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, platform := range cfg.Platforms {
		base := platform.BuildPath
		if !filepath.IsAbs(base) {
			base = filepath.Join(dir, base)
		}
		for _, file := range platform.Files {
			path := filepath.Clean(filepath.Join(base, file.Destination))
			if seen[path] {
				continue
			}
			seen[path] = true
			out = append(out, path)
		}
	}

	sort.Strings(out)
	return out
}

// CSSOutputs filters the output set down to stylesheet files.
func CSSOutputs(paths []string) []string {
	var out []string
	for _, path := range paths {
		if filepath.Ext(path) == ".css" {
			out = append(out, path)
		}
	}
	return out
}
