package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/ajxudir/pipselect/pkg/classify"
	"github.com/ajxudir/pipselect/pkg/conda"
	"github.com/ajxudir/pipselect/pkg/config"
	"github.com/ajxudir/pipselect/pkg/errors"
	"github.com/ajxudir/pipselect/pkg/output"
	"github.com/ajxudir/pipselect/pkg/python"
	"github.com/ajxudir/pipselect/pkg/registry"
	"github.com/ajxudir/pipselect/pkg/verbose"
	"github.com/spf13/cobra"
)

var (
	scanPythonFlag string
	scanConfigFlag string
	scanOutputFlag string
)

// Seams for the environment-discovery collaborators, replaceable in tests.
var (
	resolvePythonFunc = python.Resolve
	probePythonFunc   = python.Probe
	getenvFunc        = os.Getenv
	classifyFunc      = classify.Classify
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Inspect the Python environment",
	Long: `Resolve the Python interpreter and report its environment layout:
prefixes, virtual environment state, conda detection, and the
site-packages directories with their distribution counts.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanPythonFlag, "python", "p", "", "Python interpreter to inspect")
	scanCmd.Flags().StringVarP(&scanConfigFlag, "config", "c", "", "Config file path")
	scanCmd.Flags().StringVarP(&scanOutputFlag, "output", "o", "", "Output format: json (default: table)")
}

// commandContext returns the command's context, tolerating bare invocations.
//
// Tests call the run functions directly without a cobra execution, so
// both the command and its context may be absent.
//
// Parameters:
//   - cmd: Cobra command instance, may be nil
//
// Returns:
//   - context.Context: The command context, or the background context
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// resolveEnvironment resolves and probes the Python interpreter for a command run.
//
// It performs the following operations:
//   - Step 1: Picks the interpreter override (flag wins over config)
//   - Step 2: Resolves the executable (override, then python3/python on PATH)
//   - Step 3: Probes the interpreter once for its environment report
//
// Parameters:
//   - ctx: Context for the probe subprocess
//   - pythonFlag: Value of the command's --python flag, may be empty
//   - cfg: Loaded configuration supplying the fallback override
//
// Returns:
//   - *python.Info: Probed environment layout
//   - error: When no interpreter can be resolved or the probe fails
func resolveEnvironment(ctx context.Context, pythonFlag string, cfg *config.Config) (*python.Info, error) {
	override := pythonFlag
	if override == "" {
		override = cfg.Python
	}

	pythonPath, err := resolvePythonFunc(override)
	if err != nil {
		return nil, err
	}

	info, err := probePythonFunc(ctx, pythonPath)
	if err != nil {
		return nil, err
	}

	verbose.Infof("Interpreter environment: prefix=%s base_prefix=%s site_dirs=%d",
		info.Prefix, info.BasePrefix, len(info.SitePackages))
	return info, nil
}

// classifyOptions builds classifier inputs from the probed environment.
//
// The conda prefix variable is read here, at the command edge, so the
// classifier itself stays free of ambient state.
//
// Parameters:
//   - cfg: Loaded configuration naming the conda prefix variable
//   - info: Probed interpreter environment
//
// Returns:
//   - classify.Options: Inputs for a classification run
func classifyOptions(cfg *config.Config, info *python.Info) classify.Options {
	return classify.Options{
		CondaEnvValue: getenvFunc(cfg.CondaEnvVar()),
		PythonPrefix:  info.Prefix,
		SiteDirs:      info.SitePackages,
	}
}

// runScan executes the scan command to report the Python environment.
//
// Resolves and probes the interpreter, detects a conda environment, and
// counts installed distributions per site-packages directory.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Command line arguments (unused)
//
// Returns:
//   - error: Returns error on config loading or interpreter failure
func runScan(cmd *cobra.Command, args []string) error {
	format := output.ParseFormat(scanOutputFlag)
	if err := output.ValidateStructuredOutputFlags(format, verboseFlag); err != nil {
		return errors.NewExitError(errors.ExitCancelled, err)
	}

	cfg, err := loadAndValidateConfig(scanConfigFlag, workingDir())
	if err != nil {
		return err
	}

	info, err := resolveEnvironment(commandContext(cmd), scanPythonFlag, cfg)
	if err != nil {
		return err
	}

	condaPrefix, condaFound := conda.Detect(getenvFunc(cfg.CondaEnvVar()), info.Prefix)

	// Per-directory counts keep the dirs in interpreter path order; the
	// total is computed over all dirs at once so duplicates collapse the
	// same way they do during classification.
	perDir := make([]int, len(info.SitePackages))
	for i, dir := range info.SitePackages {
		dists, _ := registry.Discover([]string{dir})
		perDir[i] = len(dists)
	}
	all, skipped := registry.Discover(info.SitePackages)

	var warningLines []string
	if skipped > 0 {
		warningLines = append(warningLines, fmt.Sprintf("skipped %d distribution(s) with unreadable metadata", skipped))
	}

	if output.IsStructuredFormat(format) {
		result := &output.ScanResult{
			Summary: output.ScanSummary{
				Python:             info.Executable,
				Prefix:             info.Prefix,
				BasePrefix:         info.BasePrefix,
				VirtualEnv:         info.InVirtualEnv(),
				TotalDistributions: len(all),
			},
			SiteDirs: []output.ScanSiteDir{},
			Warnings: warningLines,
		}
		if condaFound {
			result.Summary.CondaPrefix = condaPrefix
		}
		for i, dir := range info.SitePackages {
			result.SiteDirs = append(result.SiteDirs, output.ScanSiteDir{
				Path:          dir,
				Distributions: perDir[i],
			})
		}
		return output.WriteScanResult(os.Stdout, format, result)
	}

	printScanReport(info, condaPrefix, condaFound, perDir, len(all), warningLines)
	return nil
}

// printScanReport outputs the environment report in table format to stdout.
//
// Parameters:
//   - info: Probed interpreter environment
//   - condaPrefix: Detected conda root, empty when none
//   - condaFound: Whether a conda environment was detected
//   - perDir: Distribution count per site-packages directory
//   - total: Distribution count across all directories after deduplication
//   - warningLines: Warnings to print after the report
func printScanReport(info *python.Info, condaPrefix string, condaFound bool, perDir []int, total int, warningLines []string) {
	fmt.Printf("Python:       %s\n", info.Executable)
	fmt.Printf("Prefix:       %s\n", info.Prefix)
	fmt.Printf("Base prefix:  %s\n", info.BasePrefix)
	if info.InVirtualEnv() {
		fmt.Println("Virtualenv:   yes")
	} else {
		fmt.Println("Virtualenv:   no")
	}
	if condaFound {
		fmt.Printf("Conda:        %s\n", condaPrefix)
	} else {
		fmt.Println("Conda:        not detected")
	}
	fmt.Println()

	table := output.NewTable().
		AddColumn("SITE-PACKAGES DIRECTORY").
		AddColumn("DISTRIBUTIONS")
	for i, dir := range info.SitePackages {
		table.UpdateWidths(dir, strconv.Itoa(perDir[i]))
	}

	fmt.Println(table.HeaderRow())
	fmt.Println(table.SeparatorRow())
	for i, dir := range info.SitePackages {
		fmt.Println(table.FormatRow(dir, strconv.Itoa(perDir[i])))
	}

	fmt.Printf("\nTotal distributions: %d\n", total)
	for _, line := range warningLines {
		fmt.Printf("Warning: %s\n", line)
	}
}
