// # internal/devserver/graph.go
package devserver

import (
	"path/filepath"
	"sync"

	"tokenbridge/internal/host"
)

// Graph is the embedded loader's live module graph. Lookups return the
// shared nodes; callers treat them as borrowed and never mutate them.
// The file index is keyed by the forward-slash spelling so native watcher
// paths and resolved forward-slash ids address the same nodes.
type Graph struct {
	mu     sync.RWMutex
	byID   map[string]*host.Node
	byFile map[string][]*host.Node
}

func fileKey(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

func newGraph() *Graph {
	return &Graph{
		byID:   make(map[string]*host.Node),
		byFile: make(map[string][]*host.Node),
	}
}

func (g *Graph) NodesByFile(path string) []*host.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := g.byFile[fileKey(path)]
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*host.Node, len(nodes))
	copy(out, nodes)
	return out
}

func (g *Graph) NodeByID(id string) *host.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.byID[id]
}

// ensure returns the node for id, creating and indexing it on first sight.
func (g *Graph) ensure(id, file string) *host.Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	if node, ok := g.byID[id]; ok {
		return node
	}

	node := &host.Node{ID: id, File: file}
	g.byID[id] = node
	key := fileKey(file)
	g.byFile[key] = append(g.byFile[key], node)
	return node
}

func (g *Graph) addEdge(from, to *host.Node, dynamic bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	edges := &from.Imported
	if dynamic {
		edges = &from.DynamicImported
	}
	for _, existing := range *edges {
		if existing == to {
			return
		}
	}
	*edges = append(*edges, to)
}

// drop removes every node registered for file along with the edges that
// point at them. Used when a file changes and must be rescanned.
func (g *Graph) drop(file string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := fileKey(file)
	removed := make(map[*host.Node]bool)
	for _, node := range g.byFile[key] {
		removed[node] = true
		delete(g.byID, node.ID)
	}
	delete(g.byFile, key)

	if len(removed) == 0 {
		return
	}
	for _, node := range g.byID {
		node.Imported = pruneEdges(node.Imported, removed)
		node.DynamicImported = pruneEdges(node.DynamicImported, removed)
	}
}

func pruneEdges(edges []*host.Node, removed map[*host.Node]bool) []*host.Node {
	out := edges[:0]
	for _, edge := range edges {
		if !removed[edge] {
			out = append(out, edge)
		}
	}
	return out
}
