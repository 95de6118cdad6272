// # internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ProjectRoot   string        `toml:"project_root"`
	Sources       []string      `toml:"sources"`
	DefaultEntry  string        `toml:"default_entry"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Build         Build         `toml:"build"`
	Observability Observability `toml:"observability"`
	Alerts        Alerts        `toml:"alerts"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// Builds per second and burst allowed by the rebuild limiter.
	BuildRate  float64 `toml:"build_rate"`
	BuildBurst int     `toml:"build_burst"`
}

type Build struct {
	// Command executed to run the token build, relative to the project root.
	Command []string `toml:"command"`
	// VerifyCSS parses generated .css outputs and reports syntax errors.
	VerifyCSS bool       `toml:"verify_css"`
	Platforms []Platform `toml:"platforms"`
}

type Platform struct {
	Name      string       `toml:"name"`
	BuildPath string       `toml:"build_path"`
	Files     []FileOutput `toml:"files"`
}

type FileOutput struct {
	Destination string `toml:"destination"`
	Format      string `toml:"format"`
}

type Observability struct {
	Address      string `toml:"address"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type Alerts struct {
	Beep     bool `toml:"beep"`
	Terminal bool `toml:"terminal"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "."
	}
	if abs, err := filepath.Abs(cfg.ProjectRoot); err == nil {
		cfg.ProjectRoot = abs
	}
	if cfg.DefaultEntry == "" {
		cfg.DefaultEntry = "tokens.config.ts"
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = []string{cfg.DefaultEntry}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.BuildRate == 0 {
		cfg.Watch.BuildRate = 2
	}
	if cfg.Watch.BuildBurst == 0 {
		cfg.Watch.BuildBurst = 4
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "node_modules", "dist"}
	}
}

func validate(cfg *Config) error {
	for _, source := range cfg.Sources {
		if source == "" {
			return fmt.Errorf("sources must not contain empty entries")
		}
	}
	for _, platform := range cfg.Build.Platforms {
		if platform.Name == "" {
			return fmt.Errorf("build platform without a name")
		}
		if platform.BuildPath == "" {
			return fmt.Errorf("build platform %q has no build_path", platform.Name)
		}
	}
	return nil
}
