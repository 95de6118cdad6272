// # internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tokenbridge.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, ``)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DefaultEntry != "tokens.config.ts" {
		t.Errorf("default entry = %q", cfg.DefaultEntry)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != "tokens.config.ts" {
		t.Errorf("sources default = %v", cfg.Sources)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("debounce default = %v", cfg.Watch.Debounce)
	}
	if !filepath.IsAbs(cfg.ProjectRoot) {
		t.Errorf("project root should be absolute, got %q", cfg.ProjectRoot)
	}
	if cfg.Watch.BuildRate == 0 || cfg.Watch.BuildBurst == 0 {
		t.Error("rebuild limiter defaults missing")
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
project_root = "/root/project"
sources = ["tokens.ts", "themes/**/*.json"]
default_entry = "tokens.ts"

[watch]
debounce = 250000000

[exclude]
dirs = ["node_modules"]
files = ["*.css"]

[build]
command = ["npx", "style-dictionary", "build"]
verify_css = true

[[build.platforms]]
name = "css"
build_path = "dist/css/"

[[build.platforms.files]]
destination = "variables.css"
format = "css/variables"

[observability]
address = ":9107"

[alerts]
terminal = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ProjectRoot != "/root/project" {
		t.Errorf("project root = %q", cfg.ProjectRoot)
	}
	if len(cfg.Sources) != 2 {
		t.Errorf("sources = %v", cfg.Sources)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Watch.Debounce)
	}
	if len(cfg.Build.Platforms) != 1 || cfg.Build.Platforms[0].BuildPath != "dist/css/" {
		t.Errorf("platforms = %#v", cfg.Build.Platforms)
	}
	if cfg.Build.Platforms[0].Files[0].Destination != "variables.css" {
		t.Errorf("file outputs = %#v", cfg.Build.Platforms[0].Files)
	}
	if !cfg.Build.VerifyCSS {
		t.Error("verify_css not decoded")
	}
	if cfg.Observability.Address != ":9107" {
		t.Errorf("observability address = %q", cfg.Observability.Address)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"empty source": `sources = ["tokens.ts", ""]`,
		"unnamed platform": `
[[build.platforms]]
build_path = "dist/"
`,
		"platform without build path": `
[[build.platforms]]
name = "css"
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
