// # internal/resolve/resolve_test.go
package resolve

import (
	"context"
	"testing"

	"tokenbridge/internal/host"
)

func TestIsGlob(t *testing.T) {
	if !IsGlob("tokens/*.ts") || !IsGlob("a?.ts") || !IsGlob("[ab].json") {
		t.Error("wildcard sources must be detected as globs")
	}
	if IsGlob("tokens.ts") || IsGlob("/root/project/tokens") {
		t.Error("literal sources must not be detected as globs")
	}
}

func TestAbs(t *testing.T) {
	if got := Abs("/root/project", "tokens.ts"); got != "/root/project/tokens.ts" {
		t.Errorf("Abs relative = %q", got)
	}
	if got := Abs("/root/project", "/elsewhere/tokens.ts"); got != "/elsewhere/tokens.ts" {
		t.Errorf("Abs absolute = %q", got)
	}
	if got := Abs("/root/project", "src\\tokens.ts"); got != "/root/project/src/tokens.ts" {
		t.Errorf("Abs backslash = %q", got)
	}
}

func TestOne_ResolvesThroughLoader(t *testing.T) {
	loader := host.NewStubLoader("/root/project")
	loader.Resolutions["/root/project/tokens.ts"] = "/root/project/tokens.ts"

	got := One(context.Background(), loader, "tokens.ts")
	if got != "/root/project/tokens.ts" {
		t.Errorf("One = %q, want /root/project/tokens.ts", got)
	}
	if len(loader.ResolveCalls) != 1 || loader.ResolveCalls[0] != "/root/project/tokens.ts" {
		t.Errorf("loader asked to resolve %v", loader.ResolveCalls)
	}
}

func TestOne_DirectoryResolvesToIndex(t *testing.T) {
	// Directory-to-index semantics belong to the loader; the resolver just
	// passes its answer through.
	loader := host.NewStubLoader("/root/project")
	loader.Resolutions["/root/project/tokens"] = "/root/project/tokens/index.ts"

	got := One(context.Background(), loader, "tokens")
	if got != "/root/project/tokens/index.ts" {
		t.Errorf("One = %q, want the directory's index module", got)
	}
}

func TestOne_FailureModes(t *testing.T) {
	loader := host.NewStubLoader("/root/project")
	loader.Resolutions["/root/project/virtual-source"] = "virtual:tokens"
	loader.Resolutions["/root/project/internal-source"] = "\x00internal-module"
	loader.Resolutions["/root/project/internal-virtual"] = "\x00virtual:tokens"

	cases := []string{
		"missing.ts",       // no resolution at all
		"virtual-source",   // virtual module
		"internal-source",  // internal sentinel
		"internal-virtual", // virtual behind the internal sentinel
	}
	for _, source := range cases {
		if got := One(context.Background(), loader, source); got != "" {
			t.Errorf("One(%q) = %q, want unresolved", source, got)
		}
	}
}

func TestEntries_OrderAndFallback(t *testing.T) {
	loader := host.NewStubLoader("/root/project")
	loader.Resolutions["/root/project/tokens.ts"] = "/root/project/tokens.ts"

	entries := Entries(context.Background(), loader, []string{
		"tokens.ts",
		"themes/**/*.json",
		"not-yet-created.ts",
	})

	want := []string{
		"/root/project/tokens.ts",
		"themes/**/*.json",
		"/root/project/not-yet-created.ts",
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(entries), len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i], want[i])
		}
	}
}
