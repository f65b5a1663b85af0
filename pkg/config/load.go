// Package config handles configuration loading and validation for pipselect.
// Configuration is a small, flat YAML file: an interpreter override,
// always-appended pip arguments, extra environment variables, and tuning
// for conda detection, the progress estimate, and post-upgrade checks.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ajxudir/pipselect/pkg/verbose"
)

// localConfigNames are probed in order in the working directory when no
// explicit --config path is given.
var localConfigNames = []string{".pipselect.yml", ".pipselect.yaml"}

// LoadConfig loads configuration from the specified path or defaults.
//
// It performs the following operations:
//   - Step 1: Loads the explicit configPath when one is given; a missing
//     or invalid file is an error
//   - Step 2: Otherwise probes the working directory for .pipselect.yml
//     and .pipselect.yaml
//   - Step 3: Falls back to the built-in defaults when nothing is found
//
// Loaded files are validated strictly: unknown fields, type mismatches,
// and out-of-range values are fatal, so typos surface at startup instead
// of silently changing behavior mid-run.
//
// Parameters:
//   - configPath: path to the config file, or empty to use discovery
//   - workDir: working directory for local config discovery
//
// Returns:
//   - *Config: the loaded and validated configuration
//   - error: any error encountered during loading or validation
func LoadConfig(configPath, workDir string) (*Config, error) {
	if configPath != "" {
		verbose.Infof("Loading config from: %s", configPath)
		cfg, err := loadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		verbose.ConfigLoaded(configPath)
		return cfg, nil
	}

	for _, name := range localConfigNames {
		localConfig := filepath.Join(workDir, name)
		if _, err := os.Stat(localConfig); err != nil {
			continue
		}

		verbose.Infof("Found local config: %s", localConfig)
		cfg, err := loadConfigFile(localConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		verbose.ConfigLoaded(localConfig)
		return cfg, nil
	}

	verbose.Info("Using built-in default configuration")
	return loadDefaultConfig(), nil
}

// loadConfigFile loads and validates a single config file.
//
// It performs the following operations:
//   - Enforces the maximum file size before reading
//   - Validates the YAML strictly for unknown fields and bad values
//   - Unmarshals the data and records the source path
//
// Parameters:
//   - path: path to the config file
//
// Returns:
//   - *Config: the loaded configuration
//   - error: error if file is too large, not found, fails validation,
//     or has invalid YAML
func loadConfigFile(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > DefaultMaxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d bytes)",
			info.Size(), DefaultMaxConfigFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	result := ValidateConfigFile(data)
	if result.HasErrors() {
		return nil, fmt.Errorf("%s", result.ErrorMessages())
	}

	cfg, err := loadConfigData(data)
	if err != nil {
		return nil, err
	}

	cfg.Path = path
	return cfg, nil
}

// loadConfigData parses YAML configuration data.
//
// Parameters:
//   - data: YAML configuration data as bytes
//
// Returns:
//   - *Config: the parsed configuration
//   - error: error if YAML is invalid or malformed
func loadConfigData(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return &cfg, nil
}
