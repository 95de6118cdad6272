package util

import "testing"

func TestNormalizePatternPath(t *testing.T) {
	cases := map[string]string{
		"./src/tokens":     "src/tokens",
		"src\\tokens":      "src/tokens",
		"  src/tokens/  ":  "src/tokens",
		".":                "",
		"src//nested/../a": "src/a",
	}
	for in, want := range cases {
		if got := NormalizePatternPath(in); got != want {
			t.Errorf("NormalizePatternPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasPathPrefix(t *testing.T) {
	if !HasPathPrefix("/root/project/tokens/colors.ts", "/root/project") {
		t.Error("expected nested path to match prefix")
	}
	if !HasPathPrefix("/root/project", "/root/project") {
		t.Error("expected equal paths to match")
	}
	if HasPathPrefix("/root/project-other/a.ts", "/root/project") {
		t.Error("sibling directory must not match prefix")
	}
}

func TestContainsGlob(t *testing.T) {
	globs := []string{"tokens/*.ts", "src/**/[a-z].json", "a?.ts"}
	for _, g := range globs {
		if !ContainsGlob(g) {
			t.Errorf("expected %q to be detected as glob", g)
		}
	}
	literals := []string{"tokens.ts", "src/tokens", "/abs/path.json"}
	for _, l := range literals {
		if ContainsGlob(l) {
			t.Errorf("expected %q to be treated as literal", l)
		}
	}
}

func TestSortedStringKeys(t *testing.T) {
	m := map[string]int{"b": 1, "a": 2, "c": 3}
	keys := SortedStringKeys(m)
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("unexpected key order: %v", keys)
	}
}
