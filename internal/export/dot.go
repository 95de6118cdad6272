// # internal/export/dot.go

// Package export renders the token module graph for inspection, in Graphviz
// DOT form. Handy when a change unexpectedly does or does not trigger a
// rebuild and the import chain needs to be seen.
package export

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"tokenbridge/internal/host"
	"tokenbridge/internal/resolve"
)

type DOTGenerator struct {
	loader host.Loader
}

func NewDOTGenerator(loader host.Loader) *DOTGenerator {
	return &DOTGenerator{loader: loader}
}

// Generate walks the module graph from the configured token sources and
// emits one DOT digraph. Dynamic import edges are rendered dashed.
func (d *DOTGenerator) Generate(ctx context.Context, sources []string) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph tokens {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	graph := d.loader.ModuleGraph()
	entries := make(map[*host.Node]bool)
	var roots []*host.Node

	for _, source := range sources {
		if resolve.IsGlob(source) {
			continue
		}
		entry := resolve.One(ctx, d.loader, source)
		if entry == "" {
			entry = resolve.Abs(d.loader.Root(), source)
		}
		for _, node := range graph.NodesByFile(entry) {
			if !entries[node] {
				entries[node] = true
				roots = append(roots, node)
			}
		}
	}

	type edge struct {
		from, to string
		dynamic  bool
	}
	var edges []edge
	labels := make(map[string]string)

	visited := make(map[*host.Node]bool)
	queue := append([]*host.Node(nil), roots...)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if visited[node] {
			continue
		}
		visited[node] = true

		labels[node.ID] = d.label(node)
		for _, next := range node.Imported {
			edges = append(edges, edge{from: node.ID, to: next.ID})
			queue = append(queue, next)
		}
		for _, next := range node.DynamicImported {
			edges = append(edges, edge{from: node.ID, to: next.ID, dynamic: true})
			queue = append(queue, next)
		}
	}

	ids := make([]string, 0, len(labels))
	for id := range labels {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		attrs := ""
		for node := range entries {
			if node.ID == id {
				attrs = ", fillcolor=\"lightsteelblue\", style=\"rounded,filled\""
				break
			}
		}
		buf.WriteString(fmt.Sprintf("  %q [label=%q%s];\n", id, labels[id], attrs))
	}
	buf.WriteString("\n")

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})
	for _, e := range edges {
		if e.dynamic {
			buf.WriteString(fmt.Sprintf("  %q -> %q [style=dashed];\n", e.from, e.to))
		} else {
			buf.WriteString(fmt.Sprintf("  %q -> %q;\n", e.from, e.to))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func (d *DOTGenerator) label(node *host.Node) string {
	root := filepath.ToSlash(d.loader.Root())
	file := filepath.ToSlash(node.File)
	if rel, err := filepath.Rel(root, file); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return file
}
