// # internal/relevance/relevance.go

// Package relevance decides whether a file-change event warrants a token
// rebuild: either the changed file is a declared source itself, or it is
// reachable from a resolved entry module by forward dependency traversal of
// the loader's live module graph.
package relevance

import (
	"context"
	"time"

	"tokenbridge/internal/host"
	"tokenbridge/internal/resolve"
	"tokenbridge/internal/shared/observability"
)

// IsRelevant reports whether changedFile affects the token pipeline declared
// by sources. Module graph nodes are borrowed from the loader for the
// duration of this call only.
func IsRelevant(ctx context.Context, srv host.Loader, sources []string, changedFile string) bool {
	start := time.Now()
	outcome := "irrelevant"
	defer func() {
		observability.RelevanceChecksTotal.WithLabelValues(outcome).Inc()
		observability.RelevanceCheckDuration.Observe(time.Since(start).Seconds())
	}()

	// Fast path: direct edits to a declared source never need the graph.
	filter := NewFilter(srv.Root(), sources)
	if filter.Match(changedFile) {
		outcome = "direct"
		return true
	}

	graph := srv.ModuleGraph()

	entryNodes := entryNodes(ctx, srv, graph, sources)
	if len(entryNodes) == 0 {
		// Nothing has been loaded yet, nothing to traverse.
		return false
	}

	changed := make(map[*host.Node]bool)
	for _, node := range graph.NodesByFile(changedFile) {
		changed[node] = true
	}
	if len(changed) == 0 {
		// The changed file is not part of any loaded module.
		return false
	}

	if reachable(entryNodes, changed) {
		outcome = "transitive"
		return true
	}
	return false
}

// entryNodes resolves every non-glob source to its concrete entry path
// (falling back to the absolute literal) and collects the graph nodes
// registered under each, deduplicating resolved paths.
func entryNodes(ctx context.Context, srv host.Loader, graph host.Graph, sources []string) []*host.Node {
	seen := make(map[string]bool, len(sources))
	var nodes []*host.Node
	for _, source := range sources {
		if resolve.IsGlob(source) {
			continue
		}
		entry := resolve.One(ctx, srv, source)
		if entry == "" {
			entry = resolve.Abs(srv.Root(), source)
		}
		if seen[entry] {
			continue
		}
		seen[entry] = true
		nodes = append(nodes, graph.NodesByFile(entry)...)
	}
	return nodes
}

// reachable walks forward import edges (static and dynamic) breadth-first
// from the entry nodes. The visited check before expanding a node is what
// guarantees termination on cyclic graphs; it is not an optimization.
func reachable(entries []*host.Node, targets map[*host.Node]bool) bool {
	visited := make(map[*host.Node]bool, len(entries))
	queue := make([]*host.Node, 0, len(entries))
	for _, node := range entries {
		if node == nil || visited[node] {
			continue
		}
		visited[node] = true
		queue = append(queue, node)
	}

	found := false
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if targets[node] {
			found = true
			break
		}

		for _, edges := range [][]*host.Node{node.Imported, node.DynamicImported} {
			for _, next := range edges {
				if next == nil || visited[next] {
					continue
				}
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	observability.GraphNodesVisited.Observe(float64(len(visited)))
	return found
}
