// # internal/devserver/scanner.go
package devserver

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	apperrors "tokenbridge/internal/errors"
)

type importRef struct {
	specifier string
	dynamic   bool
}

// scanner extracts import edges from TypeScript and JavaScript sources. It
// only looks at module structure; no evaluation happens here.
type scanner struct {
	typescript *sitter.Language
	javascript *sitter.Language
}

func newScanner() *scanner {
	return &scanner{
		typescript: sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		javascript: sitter.NewLanguage(tree_sitter_javascript.Language()),
	}
}

func (s *scanner) language(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts":
		return s.typescript
	case ".js", ".mjs":
		return s.javascript
	default:
		return nil
	}
}

// Imports returns the module specifiers referenced by content, in document
// order. Files outside the supported languages yield no refs and no error.
func (s *scanner) Imports(path string, content []byte) ([]importRef, error) {
	lang := s.language(path)
	if lang == nil {
		return nil, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, apperrors.Newf(apperrors.CodeInternal, "parse failed: %s", path)
	}
	defer tree.Close()

	var refs []importRef
	s.walk(tree.RootNode(), content, &refs)
	return refs, nil
}

func (s *scanner) walk(node *sitter.Node, source []byte, refs *[]importRef) {
	switch node.Kind() {
	case "import_statement", "export_statement":
		// export_statement carries a source only for re-exports.
		if src := node.ChildByFieldName("source"); src != nil {
			if spec := trimQuoted(getText(src, source)); spec != "" {
				*refs = append(*refs, importRef{specifier: spec})
			}
		}
	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn != nil && fn.Kind() == "import" {
			if spec := dynamicSpecifier(node, source); spec != "" {
				*refs = append(*refs, importRef{specifier: spec, dynamic: true})
			}
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		s.walk(node.Child(i), source, refs)
	}
}

// dynamicSpecifier pulls the literal argument out of an import() call.
// Computed specifiers are skipped since there is nothing static to follow.
func dynamicSpecifier(call *sitter.Node, source []byte) string {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		child := args.Child(i)
		if child.Kind() == "string" {
			return trimQuoted(getText(child, source))
		}
	}
	return ""
}

func getText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

func trimQuoted(value string) string {
	value = strings.TrimSpace(value)
	return strings.Trim(value, "\"'`")
}
