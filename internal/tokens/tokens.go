// # internal/tokens/tokens.go

// Package tokens loads the design-token tree by executing the declared entry
// module through the host loader instead of reading it off disk, so path
// aliases and transpilation apply to token sources like to any other module.
package tokens

import (
	"context"
	"path"
	"runtime"
	"strings"

	"tokenbridge/internal/errors"
	"tokenbridge/internal/host"
	"tokenbridge/internal/pathutil"
	"tokenbridge/internal/resolve"
	"tokenbridge/internal/shared/observability"
	"tokenbridge/internal/shared/util"
)

// DefaultEntry is the entry module used when no source file is given.
const DefaultEntry = "tokens.config.ts"

// Tree is the nested token structure produced by executing the entry module.
// Its contents are opaque here beyond being a keyed object.
type Tree map[string]any

// Load executes the token source module server-side and returns the value it
// provides: the default export when present and non-nil, otherwise the whole
// export object. file may be empty, in which case DefaultEntry is used.
// Entries are re-resolved on every call; the loader's resolution state can
// change between invocations.
func Load(ctx context.Context, srv host.Loader, file string) (any, string, error) {
	ctx, span := observability.Tracer.Start(ctx, "tokens.Load")
	defer span.End()

	if srv == nil {
		return nil, "", errors.New(errors.CodeLoaderUnavailable, "no live server handle; the loader is only available while the dev server runs")
	}

	source := file
	if source == "" {
		source = DefaultEntry
	}
	source = resolve.Abs(srv.Root(), source)
	source = pathutil.Normalize(source, runtime.GOOS, nil)

	id := resolve.One(ctx, srv, source)
	if id == "" {
		id = fallbackID(srv.Root(), source)
	}

	exports, err := srv.ExecuteModule(ctx, id)
	if err != nil {
		return nil, source, errors.AddContext(err, errors.CtxModuleID, id)
	}

	if def := exports.Default(); def != nil {
		return def, source, nil
	}
	if exports == nil {
		return nil, source, nil
	}
	return map[string]any(exports), source, nil
}

// Parse loads the token source and enforces that it produced a usable token
// tree. Anything that is not a keyed object is a user-actionable
// configuration error and carries the resolved source file path.
func Parse(ctx context.Context, srv host.Loader, file string) (Tree, error) {
	value, source, err := Load(ctx, srv, file)
	if err != nil {
		return nil, err
	}

	tree, ok := value.(map[string]any)
	if !ok || tree == nil {
		return nil, errors.Newf(errors.CodeInvalidTokenExport,
			"expected %s to export a token object, got %T", source, value)
	}
	return Tree(tree), nil
}

// fallbackID builds the identifier handed to the loader when resolution was
// not possible: root-relative for sources under the project root, the
// filesystem escape hatch for everything else.
func fallbackID(root, source string) string {
	root = strings.ReplaceAll(root, "\\", "/")
	if util.HasPathPrefix(source, root) {
		rel := strings.TrimPrefix(source, root)
		if !strings.HasPrefix(rel, "/") {
			rel = "/" + rel
		}
		return path.Clean(rel)
	}
	if strings.HasPrefix(source, "/") {
		return pathutil.FSPrefix + source
	}
	return pathutil.FSPrefix + "/" + source
}
