package main

import (
	"neuronos/internal/config"
)

// resolveConfig loads flags.configPath (if set) over the built-in
// defaults, then layers any explicitly-set persistent flags on top —
// flags always win over a config file, the config file always wins
// over Defaults.
func resolveConfig() (config.Config, error) {
	cfg, err := config.LoadOrDefaults(flags.configPath)
	if err != nil {
		return cfg, err
	}
	if flags.modelsDir != "" {
		cfg.ModelsDir = flags.modelsDir
	}
	if flags.maxSteps > 0 {
		cfg.MaxSteps = flags.maxSteps
	}
	if flags.maxTokens > 0 {
		cfg.MaxTokensPerStep = flags.maxTokens
	}
	if flags.temp > 0 {
		cfg.Temperature = float64(flags.temp)
	}
	if flags.debugAddr != "" {
		cfg.DebugAddr = flags.debugAddr
	}
	if flags.debugCors {
		cfg.DebugCors = true
	}
	return cfg, nil
}
