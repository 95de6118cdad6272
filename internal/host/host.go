// # internal/host/host.go

// Package host defines the capability boundary to the module loader that
// serves token sources: identifier resolution, server-side execution, and the
// live module dependency graph. The loader itself is owned by the surrounding
// dev environment; this package only names the contract and carries a stub
// implementation for tests and the embedded dev server.
package host

import "context"

// ResolvedID is the loader's answer to a resolution request.
type ResolvedID struct {
	ID string
}

// Exports is the value set produced by executing a module server-side.
type Exports map[string]any

// Default returns the module's default export, or nil when the module has
// none (or exported an explicit null).
func (e Exports) Default() any {
	if e == nil {
		return nil
	}
	return e["default"]
}

// Loader is the server-side module loading capability consumed by the token
// pipeline. Implementations: an adapter over a real bundler dev server, the
// embedded dev server, and StubLoader for tests.
type Loader interface {
	// Root returns the absolute project root all root-relative identifiers
	// are served against.
	Root() string

	// ResolveID resolves an identifier the way the loader would serve it.
	// importer may be empty. ssr requests server-side resolution semantics.
	// A nil result with nil error means the loader has no resolution.
	ResolveID(ctx context.Context, id, importer string, ssr bool) (*ResolvedID, error)

	// ExecuteModule runs the module in server-side execution mode and
	// returns its exports.
	ExecuteModule(ctx context.Context, id string) (Exports, error)

	// ModuleGraph exposes the loader's live dependency graph.
	ModuleGraph() Graph
}

// Graph is the loader's live record of loaded modules and their import
// edges. Nodes are borrowed per call and must not be retained.
type Graph interface {
	NodesByFile(path string) []*Node
	NodeByID(id string) *Node
}

// Node is one loaded module in the graph. A file can be registered as
// several nodes (for example a client and a server variant).
type Node struct {
	ID   string
	File string

	// Imported holds static import edges, DynamicImported the edges created
	// by runtime import() calls. Both point in forward dependency direction.
	Imported        []*Node
	DynamicImported []*Node
}
