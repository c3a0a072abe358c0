// Package config loads NeuronOS's runtime configuration, sniffing the
// file format from its extension.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the knobs every NeuronOS component reads at startup.
// Zero values mean "unspecified"; Defaults fills them in.
type Config struct {
	ModelsDir string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	RAMBudgetMB int `json:"ram_budget_mb" yaml:"ram_budget_mb" toml:"ram_budget_mb"`
	RAMMarginMB int `json:"ram_margin_mb" yaml:"ram_margin_mb" toml:"ram_margin_mb"`
	DefaultModel string `json:"default_model" yaml:"default_model" toml:"default_model"`
	MaxSteps int `json:"max_steps" yaml:"max_steps" toml:"max_steps"`
	MaxTokensPerStep int `json:"max_tokens_per_step" yaml:"max_tokens_per_step" toml:"max_tokens_per_step"`
	Temperature float64 `json:"temperature" yaml:"temperature" toml:"temperature"`
	ContextCapacity int `json:"context_capacity" yaml:"context_capacity" toml:"context_capacity"`
	CompactionThreshold float64 `json:"compaction_threshold" yaml:"compaction_threshold" toml:"compaction_threshold"`
	RetentionWindow int `json:"retention_window" yaml:"retention_window" toml:"retention_window"`
	MemoryDBPath string `json:"memory_db_path" yaml:"memory_db_path" toml:"memory_db_path"`
	InstallDir string `json:"install_dir" yaml:"install_dir" toml:"install_dir"`
	GrantedCaps []string `json:"granted_caps" yaml:"granted_caps" toml:"granted_caps"`
	DebugAddr string `json:"debug_addr" yaml:"debug_addr" toml:"debug_addr"`
	DebugCors bool `json:"debug_cors" yaml:"debug_cors" toml:"debug_cors"`
	ToolTimeoutSeconds int `json:"tool_timeout_seconds" yaml:"tool_timeout_seconds" toml:"tool_timeout_seconds"`
}

// Defaults returns the built-in configuration before any file or flag
// overrides are applied.
func Defaults() Config {
	home, _ := os.UserHomeDir()
	return Config{
		ModelsDir:           filepath.Join(home, ".neuronos", "models"),
		RAMMarginMB:         500,
		MaxSteps:            12,
		MaxTokensPerStep:    512,
		Temperature:         0.7,
		ContextCapacity:     4096,
		CompactionThreshold: 0.85,
		RetentionWindow:     6,
		MemoryDBPath:        filepath.Join(home, ".neuronos", "memory.db"),
		InstallDir:          filepath.Join(home, ".neuronos"),
		ToolTimeoutSeconds:  30,
	}
}

// Load reads a configuration file based on its extension.
// Supports .yaml, .yml, .json, and .toml.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// LoadOrDefaults behaves like Load but returns the defaults, not an
// error, when path is empty or does not exist — config files are
// optional, unlike the models directory.
func LoadOrDefaults(path string) (Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Defaults(), err
	}
	return Load(path)
}
