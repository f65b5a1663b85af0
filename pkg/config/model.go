package config

import "time"

// Default values applied when the config file omits a field.
const (
	// DefaultCondaEnvVar is the environment variable probed for a conda root.
	DefaultCondaEnvVar = "CONDA_PREFIX"

	// DefaultPerPackageMS is the per-package time estimate for the progress bar.
	DefaultPerPackageMS = 100

	// DefaultMinSeconds is the floor of the progress time estimate.
	DefaultMinSeconds = 3

	// DefaultMaxConfigFileSize limits config files to 10MB.
	DefaultMaxConfigFileSize = 10 * 1024 * 1024
)

// Config is the root configuration structure.
type Config struct {
	// Python overrides interpreter discovery; the --python flag wins over it.
	Python string `yaml:"python,omitempty"`

	// PipArgs are appended to every pip install invocation.
	PipArgs []string `yaml:"pip_args,omitempty"`

	// Env holds extra environment variables for pip invocations.
	// Values may reference other variables as $VAR.
	Env map[string]string `yaml:"env,omitempty"`

	// Conda configures secondary-environment detection.
	Conda *CondaCfg `yaml:"conda,omitempty"`

	// Progress configures the query progress estimate.
	Progress *ProgressCfg `yaml:"progress,omitempty"`

	// UI configures interactive behavior.
	UI *UICfg `yaml:"ui,omitempty"`

	// Checks configures post-upgrade verification.
	Checks *ChecksCfg `yaml:"checks,omitempty"`

	// Path is the file the config was loaded from; empty for built-in
	// defaults. It is not persisted to YAML.
	Path string `yaml:"-"`
}

// CondaCfg configures how the conda environment is detected.
type CondaCfg struct {
	// EnvVar names the environment variable carrying the conda root path.
	EnvVar string `yaml:"env_var,omitempty"`
}

// ProgressCfg tunes the cosmetic time estimate behind the progress bar.
// The estimate never gates completion; it only shapes the animation.
type ProgressCfg struct {
	// PerPackageMS is the estimated check time per installed package.
	PerPackageMS int `yaml:"per_package_ms,omitempty"`

	// MinSeconds floors the total estimate.
	MinSeconds int `yaml:"min_seconds,omitempty"`
}

// UICfg configures interactive behavior.
type UICfg struct {
	// NoTUI forces the numbered text fallback instead of the full-screen menu.
	NoTUI *bool `yaml:"no_tui,omitempty"`
}

// ChecksCfg configures verification steps around upgrades.
type ChecksCfg struct {
	// PostUpgrade runs `pip check` after a successful install (default true).
	PostUpgrade *bool `yaml:"post_upgrade,omitempty"`
}

// CondaEnvVar returns the conda root variable name (defaults to CONDA_PREFIX).
//
// Returns:
//   - string: the environment variable name to probe
func (c *Config) CondaEnvVar() string {
	if c.Conda == nil || c.Conda.EnvVar == "" {
		return DefaultCondaEnvVar
	}
	return c.Conda.EnvVar
}

// PerPackageDelay returns the per-package progress estimate (defaults to 100ms).
//
// Returns:
//   - time.Duration: estimated check time per installed package
func (c *Config) PerPackageDelay() time.Duration {
	if c.Progress == nil || c.Progress.PerPackageMS <= 0 {
		return DefaultPerPackageMS * time.Millisecond
	}
	return time.Duration(c.Progress.PerPackageMS) * time.Millisecond
}

// MinProgressDuration returns the progress estimate floor (defaults to 3s).
//
// Returns:
//   - time.Duration: minimum total estimate for the progress animation
func (c *Config) MinProgressDuration() time.Duration {
	if c.Progress == nil || c.Progress.MinSeconds <= 0 {
		return DefaultMinSeconds * time.Second
	}
	return time.Duration(c.Progress.MinSeconds) * time.Second
}

// IsNoTUI returns whether the full-screen menu is disabled (defaults to false).
//
// Returns:
//   - bool: true when the text fallback should always be used
func (c *Config) IsNoTUI() bool {
	if c.UI == nil || c.UI.NoTUI == nil {
		return false
	}
	return *c.UI.NoTUI
}

// IsPostUpgradeCheck returns whether `pip check` runs after upgrades
// (defaults to true).
//
// Returns:
//   - bool: true when the post-upgrade dependency check is enabled
func (c *Config) IsPostUpgradeCheck() bool {
	if c.Checks == nil || c.Checks.PostUpgrade == nil {
		return true
	}
	return *c.Checks.PostUpgrade
}
