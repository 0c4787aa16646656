// Package config loads patrol's file configuration. Precedence is
// CLI flag > local file > global file; fields are pointers so "unset"
// is distinguishable from a zero value.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type FileConfig struct {
	RulesFile   *string `yaml:"rules_file"`
	Radius      *int    `yaml:"context_radius"`
	Parallelism *int    `yaml:"parallelism"`
	Timeout     *string `yaml:"scanner_timeout"`
	FailOn      *string `yaml:"fail_on"`
	Enable      *string `yaml:"enable"`
	Disable     *string `yaml:"disable"`
	NoColor     *bool   `yaml:"no_color"`
	RipgrepPath *string `yaml:"ripgrep_path"`
	WeggliPath  *string `yaml:"weggli_path"`
}

// LoadFile parses one YAML config file.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal finds the workspace config, preferring the dotfile.
func LoadLocal(root string) (FileConfig, error) {
	for _, name := range []string{".patrol.yaml", "patrol.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, fmt.Errorf("no local config in %s", root)
}

// LoadGlobal reads the per-user config from the XDG config dir.
func LoadGlobal() (FileConfig, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home := os.Getenv("HOME")
		if home == "" {
			return FileConfig{}, fmt.Errorf("no config directory available")
		}
		base = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yml", "config.yaml"} {
		p := filepath.Join(base, "patrol", name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, fmt.Errorf("no global config under %s", base)
}

// Pick helpers implement CLI > local > global for each field shape.

func PickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return ""
}

func PickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return 0
}

func PickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}
