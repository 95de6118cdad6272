// # internal/relevance/filter.go
package relevance

import (
	"path"
	"strings"

	"github.com/gobwas/glob"

	"tokenbridge/internal/resolve"
)

// Filter answers whether a candidate path matches any declared token source:
// literal paths by exact (absolute, separator-normalized) comparison, glob
// patterns by match against the same absolute form.
type Filter struct {
	literals map[string]bool
	globs    []glob.Glob
}

// NewFilter compiles the declared sources against the project root. Invalid
// glob patterns are kept as literals so a typo degrades to exact matching
// instead of silently matching nothing.
func NewFilter(root string, sources []string) *Filter {
	f := &Filter{literals: make(map[string]bool, len(sources))}
	for _, source := range sources {
		abs := resolve.Abs(root, source)
		if resolve.IsGlob(source) {
			if g, err := glob.Compile(abs, '/'); err == nil {
				f.globs = append(f.globs, g)
				continue
			}
		}
		f.literals[abs] = true
	}
	return f
}

// Match reports whether candidate is one of the declared sources.
func (f *Filter) Match(candidate string) bool {
	normalized := path.Clean(strings.ReplaceAll(candidate, "\\", "/"))
	if f.literals[normalized] {
		return true
	}
	for _, g := range f.globs {
		if g.Match(normalized) {
			return true
		}
	}
	return false
}
