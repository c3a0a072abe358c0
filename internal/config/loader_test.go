package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "models_dir: /tmp\nram_budget_mb: 123\nram_margin_mb: 7\ndefault_model: m1\nmax_steps: 5\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelsDir != "/tmp" || cfg.RAMBudgetMB != 123 || cfg.RAMMarginMB != 7 || cfg.DefaultModel != "m1" || cfg.MaxSteps != 5 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.MaxTokensPerStep != 512 {
		t.Fatalf("expected default MaxTokensPerStep to survive unmarshal, got %d", cfg.MaxTokensPerStep)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"models_dir":"/m","ram_budget_mb":42,"ram_margin_mb":2,"default_model":"m2"}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelsDir != "/m" || cfg.RAMBudgetMB != 42 || cfg.RAMMarginMB != 2 || cfg.DefaultModel != "m2" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "models_dir=\"/x\"\nram_budget_mb=9\nram_margin_mb=1\ndefault_model=\"m3\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelsDir != "/x" || cfg.RAMBudgetMB != 9 || cfg.RAMMarginMB != 1 || cfg.DefaultModel != "m3" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.RAMMarginMB != 500 || cfg.MaxSteps != 12 || cfg.CompactionThreshold != 0.85 || cfg.RetentionWindow != 6 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOrDefaults_MissingPathIsNotAnError(t *testing.T) {
	cfg, err := LoadOrDefaults("")
	if err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if cfg.MaxSteps != Defaults().MaxSteps {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	cfg, err = LoadOrDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.MaxSteps != Defaults().MaxSteps {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}
