package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadClientFile overlays non-empty values from a YAML file onto cfg.
func LoadClientFile(cfg *ClientConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg ClientConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fileCfg.AnalyzeURL != "" {
		cfg.AnalyzeURL = fileCfg.AnalyzeURL
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	return nil
}
