package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "patrol.yaml", "context_radius: 5\nparallelism: 4\nscanner_timeout: 30s\nfail_on: critical\nno_color: true\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Radius == nil || *cfg.Radius != 5 {
		t.Fatalf("expected context_radius=5, got %#v", cfg.Radius)
	}
	if cfg.Parallelism == nil || *cfg.Parallelism != 4 {
		t.Fatalf("expected parallelism=4, got %#v", cfg.Parallelism)
	}
	if cfg.Timeout == nil || *cfg.Timeout != "30s" {
		t.Fatalf("expected scanner_timeout=30s, got %#v", cfg.Timeout)
	}
	if cfg.FailOn == nil || *cfg.FailOn != "critical" {
		t.Fatalf("expected fail_on=critical, got %#v", cfg.FailOn)
	}
	if cfg.NoColor == nil || !*cfg.NoColor {
		t.Fatal("expected no_color=true")
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "patrol.yaml", "parallelism: 1\n")
	writeTemp(t, dir, ".patrol.yaml", "parallelism: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Parallelism == nil || *cfg.Parallelism != 7 {
		t.Fatalf("expected parallelism=7 from .patrol.yaml, got %#v", cfg.Parallelism)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	if _, err := LoadLocal(t.TempDir()); err == nil {
		t.Fatal("expected error when no local config exists")
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "patrol")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yml"), []byte("parallelism: 9\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Parallelism == nil || *cfg.Parallelism != 9 {
		t.Fatalf("expected parallelism=9 from global config, got %#v", cfg.Parallelism)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestPickPrecedence(t *testing.T) {
	local, global := "local", "global"
	if got := PickString("cli", &local, &global); got != "cli" {
		t.Fatalf("cli should win, got %q", got)
	}
	if got := PickString("", &local, &global); got != "local" {
		t.Fatalf("local should beat global, got %q", got)
	}
	if got := PickString("", nil, &global); got != "global" {
		t.Fatalf("global is the fallback, got %q", got)
	}
	if got := PickString("", nil, nil); got != "" {
		t.Fatalf("unset everywhere should be empty, got %q", got)
	}
}
