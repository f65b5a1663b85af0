package cmd

import (
	"fmt"
	"os"

	"github.com/ajxudir/pipselect/pkg/config"
	"github.com/ajxudir/pipselect/pkg/constants"
	"github.com/ajxudir/pipselect/pkg/errors"
	"github.com/ajxudir/pipselect/pkg/verbose"
	"github.com/spf13/cobra"
)

var (
	configShowDefaultsFlag  bool
	configShowEffectiveFlag bool
	configInitFlag          bool
	configValidateFlag      bool
	configPathFlag          string
)

var (
	loadConfigFunc = config.LoadConfig
	writeFileFunc  = os.WriteFile
	readFileFunc   = os.ReadFile
)

// workingDir returns the current working directory, falling back to "."
// when it cannot be determined.
func workingDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// loadAndValidateConfig loads the configuration for a command run.
//
// Loading is strict: unknown fields, type mismatches, and out-of-range
// values in the file are fatal, so typos surface before any subprocess
// runs. Failures are returned as exit code 2 because they belong to the
// invalid-invocation class, not to internal errors.
//
// Parameters:
//   - configPath: Path to custom config file, or empty for default discovery
//   - workDir: Working directory to search for .pipselect.yml
//
// Returns:
//   - *config.Config: Loaded and validated configuration
//   - error: ExitError with code 2 when loading or validation fails
func loadAndValidateConfig(configPath, workDir string) (*config.Config, error) {
	cfg, err := loadConfigFunc(configPath, workDir)
	if err != nil {
		verbose.Infof("Exit code %d (config error): %v", errors.ExitCancelled, err)
		return nil, errors.NewExitError(errors.ExitCancelled,
			fmt.Errorf("failed to load config: %w\n%s Run 'pipselect config --validate' for details", err, constants.IconLightbulb))
	}
	return cfg, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create configuration",
	Long:  `Show or create configuration files.`,
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShowDefaultsFlag, "show-defaults", false, "Show default configuration")
	configCmd.Flags().BoolVar(&configShowEffectiveFlag, "show-effective", false, "Show effective configuration")
	configCmd.Flags().BoolVar(&configInitFlag, "init", false, "Create .pipselect.yml template")
	configCmd.Flags().BoolVar(&configValidateFlag, "validate", false, "Validate configuration file (rejects unknown fields)")
	configCmd.Flags().StringVarP(&configPathFlag, "config", "c", "", "Config file path to validate")
}

// runConfig executes the config command with the specified flags.
//
// Behavior depends on flags:
//   - --init: Creates a .pipselect.yml template file
//   - --validate: Validates the configuration file for schema errors
//   - --show-defaults: Displays the default configuration
//   - --show-effective: Displays the effective merged configuration
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Command line arguments
//
// Returns:
//   - error: Returns error on validation or file operation failure
func runConfig(cmd *cobra.Command, args []string) error {
	if configInitFlag {
		return createConfigTemplate()
	}

	if configValidateFlag {
		return validateConfigFile()
	}

	if configShowDefaultsFlag {
		fmt.Println("Default configuration:")
		fmt.Println()
		fmt.Println(config.GetDefaultConfig())
		return nil
	}

	if configShowEffectiveFlag {
		cfg, err := loadAndValidateConfig(configPathFlag, workingDir())
		if err != nil {
			return err
		}

		fmt.Println("Effective configuration:")
		fmt.Println()
		if cfg.Path != "" {
			fmt.Printf("Source: %s\n", cfg.Path)
		} else {
			fmt.Println("Source: built-in defaults")
		}
		fmt.Println()

		if cfg.Python != "" {
			fmt.Printf("Python: %s\n", cfg.Python)
		} else {
			fmt.Println("Python: discovered on PATH (python3, python)")
		}
		if len(cfg.PipArgs) > 0 {
			fmt.Printf("Pip args: %v\n", cfg.PipArgs)
		}
		if len(cfg.Env) > 0 {
			fmt.Printf("Env vars: %d\n", len(cfg.Env))
		}
		fmt.Printf("Conda env var: %s\n", cfg.CondaEnvVar())
		fmt.Printf("Progress: %s per package, %s minimum\n", cfg.PerPackageDelay(), cfg.MinProgressDuration())
		fmt.Printf("Full-screen menu: %v\n", !cfg.IsNoTUI())
		fmt.Printf("Post-upgrade check: %v\n", cfg.IsPostUpgradeCheck())
		return nil
	}

	return cmd.Help()
}

// validateConfigFile validates the configuration file at the specified path.
//
// If no path is specified via --config flag, validates .pipselect.yml in the
// current working directory. Reports validation errors and warnings.
//
// Returns:
//   - error: Returns ExitError with code 2 on validation failure
func validateConfigFile() error {
	configPath := configPathFlag
	if configPath == "" {
		// Try default location
		configPath = workingDir() + "/.pipselect.yml"
	}

	data, err := readFileFunc(configPath)
	if err != nil {
		return errors.NewExitError(errors.ExitCancelled,
			fmt.Errorf("failed to read config file '%s': %w", configPath, err))
	}

	result := config.ValidateConfigFile(data)

	if result.HasErrors() {
		fmt.Printf("%s Configuration validation failed for: %s\n\n", constants.IconBlocked, configPath)

		// Use verbose errors when --verbose flag is set
		if verbose.IsEnabled() {
			for _, e := range result.Errors {
				fmt.Printf("  ERROR: %s\n", e.VerboseError())
			}
		} else {
			for _, e := range result.Errors {
				fmt.Printf("  ERROR: %s\n", e.Error())
			}
		}

		if len(result.Warnings) > 0 {
			fmt.Println()
			for _, w := range result.Warnings {
				fmt.Printf("  WARNING: %s\n", w)
			}
		}
		fmt.Println()
		if !verbose.IsEnabled() {
			fmt.Printf("%s Run with --verbose for detailed schema information\n", constants.IconLightbulb)
		}
		fmt.Printf("%s See docs/configuration.md for valid configuration options\n", constants.IconLightbulb)
		verbose.Infof("Exit code %d (config error): configuration validation failed for %s", errors.ExitCancelled, configPath)
		return errors.NewExitError(errors.ExitCancelled, fmt.Errorf("configuration validation failed"))
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("%s Configuration valid with warnings: %s\n\n", constants.IconWarn, configPath)
		for _, w := range result.Warnings {
			fmt.Printf("  WARNING: %s\n", w)
		}
		fmt.Println()
	} else {
		fmt.Printf("%s Configuration valid: %s\n", constants.IconSuccess, configPath)
	}

	return nil
}

// createConfigTemplate creates a new .pipselect.yml template file.
//
// The template is created in the current directory. Fails if a config
// file already exists at that location.
//
// Returns:
//   - error: Returns error if file exists or cannot be created
func createConfigTemplate() error {
	configPath := ".pipselect.yml"
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	// Use embedded template from pkg/config/template.yml
	template := config.GetTemplateConfig()

	// Use 0600 permissions for config files (owner read/write only) for security
	if err := writeFileFunc(configPath, []byte(template), 0600); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created configuration template: %s\n", configPath)
	return nil
}
