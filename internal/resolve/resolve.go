// # internal/resolve/resolve.go

// Package resolve turns user-declared token sources into concrete module
// identifiers through the host loader's own resolution, so that path aliasing
// and directory-to-index semantics match what the loader actually serves.
package resolve

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"tokenbridge/internal/host"
	"tokenbridge/internal/pathutil"
	"tokenbridge/internal/shared/util"
)

// internalPrefix marks loader-internal sentinel identifiers that must never
// be used as dependency-graph roots.
const internalPrefix = "\x00"

const virtualPrefix = "virtual:"

// IsGlob reports whether source is a glob pattern rather than a literal path.
func IsGlob(source string) bool {
	return util.ContainsGlob(source)
}

// Abs makes p absolute against the loader's project root. Already-absolute
// paths pass through cleaned. Identifiers use forward slashes throughout.
func Abs(root, p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if path.IsAbs(p) || isWindowsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(strings.ReplaceAll(root, "\\", "/"), p)
}

func isWindowsAbs(p string) bool {
	return len(p) >= 3 && p[1] == ':' && p[2] == '/'
}

// One resolves a single literal source path through the loader with
// server-side semantics and returns the normalized identifier the loader
// would serve, or "" when resolution is not possible (no result, an internal
// sentinel, or a virtual module). Resolution failure is an expected outcome,
// not an error: the caller falls back to the literal path.
func One(ctx context.Context, loader host.Loader, p string) string {
	abs := Abs(loader.Root(), p)

	resolved, err := loader.ResolveID(ctx, abs, "", true)
	if err != nil {
		slog.Debug("module resolution failed", "path", abs, "error", err)
		return ""
	}
	if resolved == nil || resolved.ID == "" {
		return ""
	}

	id := resolved.ID
	if strings.HasPrefix(id, internalPrefix) {
		return ""
	}
	// Virtual modules have no on-disk backing and cannot anchor file-change
	// traversal.
	if strings.HasPrefix(id, virtualPrefix) {
		return ""
	}

	return pathutil.Normalize(id, runtime.GOOS, realpath)
}

// Entries maps each declared source to the path or pattern the loader would
// actually serve, in declaration order. Glob patterns pass through unchanged;
// they are matched by the relevance filter, never resolved to one module.
// Literal paths resolve through the loader, falling back to their absolute
// form when resolution fails.
func Entries(ctx context.Context, loader host.Loader, sources []string) []string {
	entries := make([]string, 0, len(sources))
	for _, source := range sources {
		if IsGlob(source) {
			entries = append(entries, source)
			continue
		}
		if id := One(ctx, loader, source); id != "" {
			entries = append(entries, id)
			continue
		}
		entries = append(entries, Abs(loader.Root(), source))
	}
	return entries
}

func realpath(p string) (string, error) {
	return filepath.EvalSymlinks(p)
}
