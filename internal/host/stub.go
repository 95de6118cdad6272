// # internal/host/stub.go
package host

import (
	"context"
	"sync"
)

// StubLoader is an in-memory Loader for tests. Resolution answers, exports,
// and the graph are declared up front; calls are recorded for assertions.
type StubLoader struct {
	mu sync.Mutex

	ProjectRoot string

	// Resolutions maps requested identifiers to resolved ones. A missing key
	// means resolution fails for that identifier.
	Resolutions map[string]string

	// Modules maps executable identifiers to their exports.
	Modules map[string]Exports

	// ExecErr, when set, is returned by every ExecuteModule call.
	ExecErr error

	Graph *StubGraph

	ResolveCalls []string
	ExecuteCalls []string
}

func NewStubLoader(root string) *StubLoader {
	return &StubLoader{
		ProjectRoot: root,
		Resolutions: make(map[string]string),
		Modules:     make(map[string]Exports),
		Graph:       NewStubGraph(),
	}
}

func (s *StubLoader) Root() string { return s.ProjectRoot }

func (s *StubLoader) ResolveID(_ context.Context, id, _ string, _ bool) (*ResolvedID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ResolveCalls = append(s.ResolveCalls, id)
	resolved, ok := s.Resolutions[id]
	if !ok {
		return nil, nil
	}
	return &ResolvedID{ID: resolved}, nil
}

func (s *StubLoader) ExecuteModule(_ context.Context, id string) (Exports, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ExecuteCalls = append(s.ExecuteCalls, id)
	if s.ExecErr != nil {
		return nil, s.ExecErr
	}
	return s.Modules[id], nil
}

func (s *StubLoader) ModuleGraph() Graph { return s.Graph }

// StubGraph is an in-memory module graph assembled by tests.
type StubGraph struct {
	byFile map[string][]*Node
	byID   map[string]*Node
}

func NewStubGraph() *StubGraph {
	return &StubGraph{
		byFile: make(map[string][]*Node),
		byID:   make(map[string]*Node),
	}
}

// AddNode registers a node under both its identifier and its file path.
func (g *StubGraph) AddNode(node *Node) *Node {
	g.byID[node.ID] = node
	if node.File != "" {
		g.byFile[node.File] = append(g.byFile[node.File], node)
	}
	return g.byID[node.ID]
}

// Module creates (or returns) a node whose identifier doubles as its file
// path, the common case for on-disk modules.
func (g *StubGraph) Module(path string) *Node {
	if n, ok := g.byID[path]; ok {
		return n
	}
	return g.AddNode(&Node{ID: path, File: path})
}

// Import records a static import edge from -> to, creating nodes as needed.
func (g *StubGraph) Import(from, to string) {
	f, t := g.Module(from), g.Module(to)
	f.Imported = append(f.Imported, t)
}

// DynamicImport records a runtime import edge from -> to.
func (g *StubGraph) DynamicImport(from, to string) {
	f, t := g.Module(from), g.Module(to)
	f.DynamicImported = append(f.DynamicImported, t)
}

func (g *StubGraph) NodesByFile(path string) []*Node { return g.byFile[path] }

func (g *StubGraph) NodeByID(id string) *Node { return g.byID[id] }
