// # internal/devserver/server.go

// Package devserver is an embedded module loader for running the token
// pipeline without an external bundler. It resolves identifiers against a
// project root, scans TypeScript/JavaScript sources for import edges to keep
// a live module graph, and executes data modules (JSON, CUE) server-side.
package devserver

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tokenbridge/internal/host"
	"tokenbridge/internal/pathutil"
)

// extCandidates is the resolution order for extension-less specifiers,
// matching how the sources are authored: config entry points first, data
// modules last.
var extCandidates = []string{".ts", ".mts", ".js", ".mjs", ".json", ".cue"}

var indexCandidates = []string{"index.ts", "index.mts", "index.js", "index.mjs"}

type Server struct {
	root    string
	graph   *Graph
	scanner *scanner

	// scanMu serializes graph population; resolution and execution can
	// happen concurrently from watcher callbacks and the initial load.
	scanMu sync.Mutex
}

func New(root string) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Server{
		root:    abs,
		graph:   newGraph(),
		scanner: newScanner(),
	}, nil
}

func (s *Server) Root() string {
	return s.root
}

func (s *Server) ModuleGraph() host.Graph {
	return s.graph
}

// ResolveID resolves id to an absolute forward-slash module identifier and
// loads the module (plus its transitive imports) into the graph. A nil
// result means the server has nothing to serve for id.
func (s *Server) ResolveID(ctx context.Context, id, importer string, ssr bool) (*host.ResolvedID, error) {
	if id == "" || strings.HasPrefix(id, "virtual:") || strings.HasPrefix(id, "\x00") {
		return nil, nil
	}

	file := s.resolveFile(id, importer)
	if file == "" {
		return nil, nil
	}

	if err := s.EnsureModule(ctx, file); err != nil {
		slog.Warn("module scan failed", "path", file, "error", err)
	}

	return &host.ResolvedID{ID: filepath.ToSlash(file)}, nil
}

// resolveFile maps a specifier to an existing file on disk, or "".
func (s *Server) resolveFile(id, importer string) string {
	trimmed := strings.TrimPrefix(id, pathutil.FSPrefix)
	cand := filepath.FromSlash(trimmed)

	switch {
	case filepath.IsAbs(cand):
		if found := completePath(cand); found != "" {
			return found
		}
		// An absolute-looking id can still be root-relative on Windows.
		trimmedRel := strings.TrimPrefix(trimmed, "/")
		return completePath(filepath.Join(s.root, filepath.FromSlash(trimmedRel)))
	case strings.HasPrefix(trimmed, "./"), strings.HasPrefix(trimmed, "../"):
		base := s.root
		if importer != "" {
			base = filepath.Dir(filepath.FromSlash(strings.TrimPrefix(importer, pathutil.FSPrefix)))
		}
		return completePath(filepath.Join(base, cand))
	default:
		// Everything else is tried against the project root. Bare npm
		// specifiers fall out naturally: they do not exist on disk there.
		return completePath(filepath.Join(s.root, cand))
	}
}

// completePath tries path as given, then with extension candidates, then as
// a directory holding an index module.
func completePath(path string) string {
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		return filepath.Clean(path)
	}

	if err != nil {
		for _, ext := range extCandidates {
			cand := path + ext
			if fi, statErr := os.Stat(cand); statErr == nil && !fi.IsDir() {
				return filepath.Clean(cand)
			}
		}
		return ""
	}

	for _, index := range indexCandidates {
		cand := filepath.Join(path, index)
		if fi, statErr := os.Stat(cand); statErr == nil && !fi.IsDir() {
			return filepath.Clean(cand)
		}
	}
	return ""
}

// EnsureModule scans file and its transitive relative imports into the graph.
func (s *Server) EnsureModule(ctx context.Context, file string) error {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	return s.scanLocked(ctx, filepath.Clean(file), make(map[string]bool))
}

func (s *Server) scanLocked(ctx context.Context, file string, visited map[string]bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if visited[file] {
		return nil
	}
	visited[file] = true

	content, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	node := s.graph.ensure(filepath.ToSlash(file), file)

	refs, err := s.scanner.Imports(file, content)
	if err != nil {
		return err
	}

	for _, ref := range refs {
		target := s.resolveImport(ref.specifier, file)
		if target == "" {
			continue
		}
		child := s.graph.ensure(filepath.ToSlash(target), target)
		s.graph.addEdge(node, child, ref.dynamic)

		if err := s.scanLocked(ctx, target, visited); err != nil {
			slog.Debug("skipping unreadable import", "path", target, "error", err)
		}
	}
	return nil
}

func (s *Server) resolveImport(specifier, importer string) string {
	switch {
	case strings.HasPrefix(specifier, "./"), strings.HasPrefix(specifier, "../"):
		return completePath(filepath.Join(filepath.Dir(importer), filepath.FromSlash(specifier)))
	case strings.HasPrefix(specifier, "/"):
		return completePath(filepath.Join(s.root, filepath.FromSlash(specifier)))
	default:
		// Bare specifier: external package, no edge to follow on disk.
		return ""
	}
}

// Invalidate forgets the graph entries for file and rescans it if it still
// exists. Called by the watcher on every relevant change.
func (s *Server) Invalidate(ctx context.Context, file string) {
	file = filepath.Clean(file)
	s.graph.drop(file)
	if _, err := os.Stat(file); err != nil {
		return
	}
	if err := s.EnsureModule(ctx, file); err != nil {
		slog.Warn("rescan after change failed", "path", file, "error", err)
	}
}
