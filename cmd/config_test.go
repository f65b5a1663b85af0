package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ajxudir/pipselect/pkg/config"
	"github.com/ajxudir/pipselect/pkg/errors"
	"github.com/ajxudir/pipselect/pkg/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigCommand tests the behavior of config command with various flags.
//
// It verifies:
//   - Config --show-defaults displays default configuration
//   - Config --init creates new config file
//   - Config --show-effective shows effective configuration
//   - Init fails when config file already exists
//   - Help is shown when no flags are set
func TestConfigCommand(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	t.Run("show-defaults", func(t *testing.T) {
		oldInit, oldDefaults, oldEffective := configInitFlag, configShowDefaultsFlag, configShowEffectiveFlag
		defer func() {
			configInitFlag = oldInit
			configShowDefaultsFlag = oldDefaults
			configShowEffectiveFlag = oldEffective
		}()

		configInitFlag = false
		configShowDefaultsFlag = true
		configShowEffectiveFlag = false

		output := testutil.CaptureStdout(t, func() {
			err := runConfig(nil, nil)
			assert.NoError(t, err)
		})

		assert.Contains(t, output, "Default configuration:")
		assert.Contains(t, output, "conda:")
	})

	t.Run("init", func(t *testing.T) {
		oldInit, oldDefaults, oldEffective := configInitFlag, configShowDefaultsFlag, configShowEffectiveFlag
		defer func() {
			configInitFlag = oldInit
			configShowDefaultsFlag = oldDefaults
			configShowEffectiveFlag = oldEffective
		}()

		configInitFlag = true
		configShowDefaultsFlag = false
		configShowEffectiveFlag = false

		oldWD, err := os.Getwd()
		require.NoError(t, err)
		defer func() { _ = os.Chdir(oldWD) }()

		tmpDir := t.TempDir()
		require.NoError(t, os.Chdir(tmpDir))

		output := testutil.CaptureStdout(t, func() {
			err := runConfig(nil, nil)
			assert.NoError(t, err)
		})

		assert.Contains(t, output, "Created configuration template")
		_, err = os.Stat(".pipselect.yml")
		assert.NoError(t, err)
	})

	t.Run("show-effective", func(t *testing.T) {
		oldInit, oldDefaults, oldEffective := configInitFlag, configShowDefaultsFlag, configShowEffectiveFlag
		defer func() {
			configInitFlag = oldInit
			configShowDefaultsFlag = oldDefaults
			configShowEffectiveFlag = oldEffective
		}()

		configInitFlag = false
		configShowDefaultsFlag = false
		configShowEffectiveFlag = true

		oldWD, err := os.Getwd()
		require.NoError(t, err)
		defer func() { _ = os.Chdir(oldWD) }()

		tmpDir := t.TempDir()
		require.NoError(t, os.Chdir(tmpDir))

		output := testutil.CaptureStdout(t, func() {
			err := runConfig(nil, nil)
			assert.NoError(t, err)
		})

		assert.Contains(t, output, "Effective configuration:")
		assert.Contains(t, output, "Source: built-in defaults")
		assert.Contains(t, output, "Python: discovered on PATH")
		assert.Contains(t, output, "Conda env var: CONDA_PREFIX")
		assert.Contains(t, output, "Post-upgrade check: true")
	})

	t.Run("init fails when exists", func(t *testing.T) {
		oldInit, oldDefaults, oldEffective := configInitFlag, configShowDefaultsFlag, configShowEffectiveFlag
		defer func() {
			configInitFlag = oldInit
			configShowDefaultsFlag = oldDefaults
			configShowEffectiveFlag = oldEffective
		}()

		configInitFlag = true
		configShowDefaultsFlag = false
		configShowEffectiveFlag = false

		oldWD, err := os.Getwd()
		require.NoError(t, err)
		defer func() { _ = os.Chdir(oldWD) }()

		tmpDir := t.TempDir()
		require.NoError(t, os.Chdir(tmpDir))
		require.NoError(t, os.WriteFile(".pipselect.yml", []byte("python: /usr/bin/python3\n"), 0644))

		err = runConfig(nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("help path", func(t *testing.T) {
		oldInit, oldDefaults, oldEffective := configInitFlag, configShowDefaultsFlag, configShowEffectiveFlag
		oldValidate := configValidateFlag
		defer func() {
			configInitFlag = oldInit
			configShowDefaultsFlag = oldDefaults
			configShowEffectiveFlag = oldEffective
			configValidateFlag = oldValidate
		}()

		// Reset flags so no branch triggers and help path is used
		configInitFlag = false
		configShowDefaultsFlag = false
		configShowEffectiveFlag = false
		configValidateFlag = false

		err := runConfig(&cobra.Command{}, nil)
		assert.NoError(t, err)
	})
}

// TestRunConfigShowEffectiveWithOverrides tests the behavior of runConfig
// --show-effective with a populated configuration.
//
// It verifies:
//   - The config source path is reported
//   - Interpreter, pip args, and env overrides are displayed
func TestRunConfigShowEffectiveWithOverrides(t *testing.T) {
	oldLoad := loadConfigFunc
	defer func() { loadConfigFunc = oldLoad }()

	loadConfigFunc = func(configPath, workDir string) (*config.Config, error) {
		return &config.Config{
			Python:  "/opt/python/bin/python3",
			PipArgs: []string{"--timeout", "30"},
			Env:     map[string]string{"PIP_INDEX_URL": "https://mirror.example/simple"},
			Path:    "/tmp/pipselect.yml",
		}, nil
	}

	oldInit, oldDefaults, oldEffective := configInitFlag, configShowDefaultsFlag, configShowEffectiveFlag
	defer func() {
		configInitFlag = oldInit
		configShowDefaultsFlag = oldDefaults
		configShowEffectiveFlag = oldEffective
	}()

	configInitFlag = false
	configShowDefaultsFlag = false
	configShowEffectiveFlag = true

	output := testutil.CaptureStdout(t, func() {
		err := runConfig(nil, nil)
		assert.NoError(t, err)
	})

	assert.Contains(t, output, "Source: /tmp/pipselect.yml")
	assert.Contains(t, output, "Python: /opt/python/bin/python3")
	assert.Contains(t, output, "Pip args: [--timeout 30]")
	assert.Contains(t, output, "Env vars: 1")
}

// TestRunConfigEffectiveError tests the behavior of runConfig when loading fails.
//
// It verifies:
//   - Config load failure returns appropriate error
func TestRunConfigEffectiveError(t *testing.T) {
	oldLoad := loadConfigFunc
	defer func() { loadConfigFunc = oldLoad }()

	loadConfigFunc = func(configPath, workDir string) (*config.Config, error) {
		return nil, fmt.Errorf("load failure")
	}

	oldInit, oldDefaults, oldEffective := configInitFlag, configShowDefaultsFlag, configShowEffectiveFlag
	defer func() {
		configInitFlag = oldInit
		configShowDefaultsFlag = oldDefaults
		configShowEffectiveFlag = oldEffective
	}()

	configInitFlag = false
	configShowDefaultsFlag = false
	configShowEffectiveFlag = true

	err := runConfig(nil, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

// TestCreateConfigTemplateWriteError tests the behavior of createConfigTemplate with write errors.
//
// It verifies:
//   - Write errors are properly handled and reported
func TestCreateConfigTemplateWriteError(t *testing.T) {
	oldWrite := writeFileFunc
	defer func() { writeFileFunc = oldWrite }()

	writeFileFunc = func(name string, data []byte, perm os.FileMode) error {
		return fmt.Errorf("write failure")
	}

	oldWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(oldWD) }()

	tmpDir := t.TempDir()
	require.NoError(t, os.Chdir(tmpDir))

	err = createConfigTemplate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config file")
}

// TestWorkingDir tests the behavior of workingDir.
//
// It verifies:
//   - A usable directory is always returned
func TestWorkingDir(t *testing.T) {
	assert.NotEmpty(t, workingDir())
}

// TestLoadAndValidateConfig tests the behavior of loadAndValidateConfig.
//
// It verifies:
//   - Valid config files are loaded successfully
//   - Config files with unknown fields are rejected
//   - Missing config files return appropriate errors
//   - Default config is used when no local config exists
//   - Valid local config files are loaded successfully
func TestLoadAndValidateConfig(t *testing.T) {
	t.Run("valid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yml")
		err := os.WriteFile(configPath, []byte(`
python: /usr/local/bin/python3
pip_args: ["--timeout", "30"]
`), 0644)
		require.NoError(t, err)

		cfg, err := loadAndValidateConfig(configPath, tmpDir)
		assert.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "/usr/local/bin/python3", cfg.Python)
		assert.Equal(t, []string{"--timeout", "30"}, cfg.PipArgs)
	})

	t.Run("config file with unknown field", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yml")
		err := os.WriteFile(configPath, []byte(`
pythn: /usr/bin/python3
`), 0644)
		require.NoError(t, err)

		cfg, err := loadAndValidateConfig(configPath, tmpDir)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to load config")
		assert.Contains(t, err.Error(), "unknown field 'pythn'")
	})

	t.Run("config file not found", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nonexistent.yml")

		cfg, err := loadAndValidateConfig(configPath, tmpDir)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to load config")
	})

	t.Run("local config with out-of-range value", func(t *testing.T) {
		tmpDir := t.TempDir()
		localConfig := filepath.Join(tmpDir, ".pipselect.yml")
		err := os.WriteFile(localConfig, []byte(`
progress:
  per_package_ms: -5
`), 0644)
		require.NoError(t, err)

		cfg, err := loadAndValidateConfig("", tmpDir)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to load config")
	})

	t.Run("no local config uses defaults", func(t *testing.T) {
		tmpDir := t.TempDir()

		cfg, err := loadAndValidateConfig("", tmpDir)
		assert.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "CONDA_PREFIX", cfg.CondaEnvVar())
	})

	t.Run("valid local config", func(t *testing.T) {
		tmpDir := t.TempDir()
		localConfig := filepath.Join(tmpDir, ".pipselect.yml")
		err := os.WriteFile(localConfig, []byte(`
conda:
  env_var: MAMBA_ROOT_PREFIX
`), 0644)
		require.NoError(t, err)

		cfg, err := loadAndValidateConfig("", tmpDir)
		assert.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "MAMBA_ROOT_PREFIX", cfg.CondaEnvVar())
	})
}

// TestLoadAndValidateConfigExitCode tests the behavior of loadAndValidateConfig exit codes.
//
// It verifies:
//   - Config validation errors return the cancelled exit code
func TestLoadAndValidateConfigExitCode(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")
	err := os.WriteFile(configPath, []byte(`
ui:
  full_screen: true
`), 0644)
	require.NoError(t, err)

	_, err = loadAndValidateConfig(configPath, tmpDir)
	assert.Error(t, err)

	// Verify it returns an ExitError with correct code
	code := errors.GetExitCode(err)
	assert.Equal(t, errors.ExitCancelled, code)
}

// TestValidateConfigFile tests the behavior of validateConfigFile.
//
// It verifies:
//   - Valid files report success
//   - Files with unknown fields report errors and return the cancelled code
//   - Missing files return the cancelled code
func TestValidateConfigFile(t *testing.T) {
	oldPath := configPathFlag
	defer func() { configPathFlag = oldPath }()

	t.Run("valid file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "pipselect.yml")
		require.NoError(t, os.WriteFile(configPath, []byte("python: /usr/bin/python3\n"), 0644))

		configPathFlag = configPath

		output := testutil.CaptureStdout(t, func() {
			err := validateConfigFile()
			assert.NoError(t, err)
		})

		assert.Contains(t, output, "Configuration valid")
		assert.Contains(t, output, configPath)
	})

	t.Run("invalid file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "pipselect.yml")
		require.NoError(t, os.WriteFile(configPath, []byte("progres:\n  min_seconds: 5\n"), 0644))

		configPathFlag = configPath

		var err error
		output := testutil.CaptureStdout(t, func() {
			err = validateConfigFile()
		})

		assert.Error(t, err)
		assert.Equal(t, errors.ExitCancelled, errors.GetExitCode(err))
		assert.Contains(t, output, "Configuration validation failed")
		assert.Contains(t, output, "ERROR:")
		assert.Contains(t, output, "unknown field 'progres'")
	})

	t.Run("missing file", func(t *testing.T) {
		configPathFlag = filepath.Join(t.TempDir(), "missing.yml")

		err := validateConfigFile()
		assert.Error(t, err)
		assert.Equal(t, errors.ExitCancelled, errors.GetExitCode(err))
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("read failure", func(t *testing.T) {
		oldRead := readFileFunc
		defer func() { readFileFunc = oldRead }()

		readFileFunc = func(name string) ([]byte, error) {
			return nil, fmt.Errorf("read failure")
		}
		configPathFlag = "whatever.yml"

		err := validateConfigFile()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "read failure")
	})
}
