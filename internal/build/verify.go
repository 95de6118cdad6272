// # internal/build/verify.go
package build

import (
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"

	apperrors "tokenbridge/internal/errors"
)

// VerifyCSSOutputs parses each generated stylesheet and fails on syntax
// errors. A build that exits zero but writes broken CSS is still a failed
// build from the consumer's point of view.
func VerifyCSSOutputs(paths []string) error {
	cssLang := sitter.NewLanguage(tree_sitter_css.Language())

	for _, path := range CSSOutputs(paths) {
		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				// The build command decides which outputs it writes per run.
				continue
			}
			return err
		}

		if err := verifyCSS(cssLang, path, content); err != nil {
			return err
		}
	}
	return nil
}

func verifyCSS(lang *sitter.Language, path string, content []byte) error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return apperrors.Newf(apperrors.CodeInternal, "css parse failed: %s", path)
	}
	defer tree.Close()

	if node := firstErrorNode(tree.RootNode()); node != nil {
		err := apperrors.Newf(apperrors.CodeValidationError,
			"syntax error in generated css at line %d", node.StartPosition().Row+1)
		return apperrors.AddContext(err, apperrors.CtxPath, path)
	}
	return nil
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
