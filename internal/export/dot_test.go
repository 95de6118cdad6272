// # internal/export/dot_test.go
package export

import (
	"context"
	"strings"
	"testing"

	"tokenbridge/internal/host"
)

func TestDOTGenerator(t *testing.T) {
	graph := host.NewStubGraph()
	graph.Module("/proj/tokens.config.ts")
	graph.Module("/proj/src/colors.ts")
	graph.Module("/proj/themes/dark.ts")
	graph.Import("/proj/tokens.config.ts", "/proj/src/colors.ts")
	graph.DynamicImport("/proj/tokens.config.ts", "/proj/themes/dark.ts")

	loader := &host.StubLoader{
		ProjectRoot: "/proj",
		Resolutions: map[string]string{
			"/proj/tokens.config.ts": "/proj/tokens.config.ts",
		},
		Graph: graph,
	}

	gen := NewDOTGenerator(loader)
	dot, err := gen.Generate(context.Background(), []string{"tokens.config.ts", "src/**/*.ts"})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(dot, "digraph tokens {") {
		t.Errorf("missing digraph header:\n%s", dot)
	}
	for _, want := range []string{
		`"/proj/tokens.config.ts" -> "/proj/src/colors.ts";`,
		`"/proj/tokens.config.ts" -> "/proj/themes/dark.ts" [style=dashed];`,
		`label="src/colors.ts"`,
		`fillcolor="lightsteelblue"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in output:\n%s", want, dot)
		}
	}
}

func TestDOTGenerator_EmptyGraph(t *testing.T) {
	loader := &host.StubLoader{ProjectRoot: "/proj", Graph: host.NewStubGraph()}

	dot, err := NewDOTGenerator(loader).Generate(context.Background(), []string{"tokens.config.ts"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, "digraph tokens") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("malformed empty graph output:\n%s", dot)
	}
}
