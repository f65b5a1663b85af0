package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ajxudir/pipselect/pkg/classify"
	"github.com/ajxudir/pipselect/pkg/config"
	"github.com/ajxudir/pipselect/pkg/errors"
	"github.com/ajxudir/pipselect/pkg/outdated"
	"github.com/ajxudir/pipselect/pkg/output"
	"github.com/ajxudir/pipselect/pkg/progress"
	"github.com/ajxudir/pipselect/pkg/python"
	"github.com/ajxudir/pipselect/pkg/verbose"
	"github.com/ajxudir/pipselect/pkg/warnings"
	"github.com/spf13/cobra"
)

var (
	outdatedPythonFlag     string
	outdatedConfigFlag     string
	outdatedOutputFlag     string
	outdatedNoProgressFlag bool
)

// queryOutdatedFunc is swapped in tests.
var queryOutdatedFunc = outdated.Query

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "Show upgradeable pip-installed packages",
	Long: `Query pip for packages with a newer release and report the ones
eligible for a pip upgrade. Conda-installed packages are excluded
from the report.`,
	RunE: runOutdated,
}

func init() {
	outdatedCmd.Flags().StringVarP(&outdatedPythonFlag, "python", "p", "", "Python interpreter to inspect")
	outdatedCmd.Flags().StringVarP(&outdatedConfigFlag, "config", "c", "", "Config file path")
	outdatedCmd.Flags().StringVarP(&outdatedOutputFlag, "output", "o", "", "Output format: json (default: table)")
	outdatedCmd.Flags().BoolVar(&outdatedNoProgressFlag, "no-progress", false, "Disable the progress animation")
}

// runOutdated executes the outdated command to report upgrade candidates.
//
// It performs the following operations:
//   - Step 1: Classifies installed distributions by provenance
//   - Step 2: Queries pip for outdated packages under the progress bar
//   - Step 3: Intersects the candidates with the pip-eligible set
//   - Step 4: Prints the result as a table or a structured document
//
// A failed pip query terminates the run with pip's own exit status.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Command line arguments (unused)
//
// Returns:
//   - error: Returns error on config loading, interpreter, or query failure
func runOutdated(cmd *cobra.Command, args []string) error {
	// Validate flag compatibility before proceeding
	format := output.ParseFormat(outdatedOutputFlag)
	if err := output.ValidateStructuredOutputFlags(format, verboseFlag); err != nil {
		return errors.NewExitError(errors.ExitCancelled, err)
	}

	collector := warnings.NewCollector()
	restoreWarnings := warnings.SetWarningWriter(collector)
	defer restoreWarnings()

	cfg, err := loadAndValidateConfig(outdatedConfigFlag, workingDir())
	if err != nil {
		return err // Error already formatted with hints
	}

	info, err := resolveEnvironment(commandContext(cmd), outdatedPythonFlag, cfg)
	if err != nil {
		return err
	}

	result := classifyFunc(classifyOptions(cfg, info))
	if result.SkippedUnits > 0 {
		warnings.Warnf("skipped %d distribution(s) with unreadable metadata\n", result.SkippedUnits)
	}

	structured := output.IsStructuredFormat(format)
	if !structured {
		if result.CondaPrefix != "" {
			fmt.Println(output.CondaBanner(result.CondaPrefix))
		}
		fmt.Println(output.ClassificationCounts(result.CountEligible, result.CountExcluded))
	}

	candidates, err := queryCandidates(commandContext(cmd), cfg, info, result.CountEligible, structured, outdatedNoProgressFlag)
	if err != nil {
		return err
	}

	filtered := classify.FilterCandidates(result, candidates)
	verbose.Infof("Outdated query returned %d candidate(s), %d pip-eligible", len(candidates), len(filtered))

	if structured {
		return printOutdatedStructured(filtered, result, collector.Messages(), format)
	}

	printOutdatedCandidates(filtered)
	printCollectedWarnings(collector.Messages())
	return nil
}

// queryCandidates runs the outdated query, animated unless suppressed.
//
// Structured runs bypass the progress animation entirely: even the plain
// fallback prints a status line to stdout, which would corrupt the
// structured stream.
//
// Parameters:
//   - ctx: Context for the pip subprocess
//   - cfg: Loaded configuration supplying the progress estimates
//   - info: Probed interpreter environment
//   - eligible: Number of pip-eligible distributions, drives the estimate
//   - structured: Whether stdout carries a structured document
//   - plain: Whether the animation is disabled in favor of a status line
//
// Returns:
//   - []outdated.Candidate: Raw upgrade candidates from pip
//   - error: The query failure, carrying pip's exit status when pip failed
func queryCandidates(ctx context.Context, cfg *config.Config, info *python.Info, eligible int, structured, plain bool) ([]outdated.Candidate, error) {
	if structured {
		return queryOutdatedFunc(ctx, info.Executable, cfg.Env)
	}

	var candidates []outdated.Candidate
	work := func() error {
		var queryErr error
		candidates, queryErr = queryOutdatedFunc(ctx, info.Executable, cfg.Env)
		return queryErr
	}

	opts := progress.Options{
		ItemCount:   eligible,
		PerItem:     cfg.PerPackageDelay(),
		MinDuration: cfg.MinProgressDuration(),
		Plain:       plain,
	}
	if err := progress.Run(opts, work); err != nil {
		return nil, err
	}
	return candidates, nil
}

// printOutdatedStructured outputs outdated results in a structured format.
//
// Parameters:
//   - filtered: Eligible candidates in final order
//   - result: Classification outcome supplying the summary counts
//   - warningMessages: Warning messages to include in the output
//   - format: Output format to use
//
// Returns:
//   - error: Returns error on output failure
func printOutdatedStructured(filtered []outdated.Candidate, result *classify.Result, warningMessages []string, format output.Format) error {
	packages := make([]output.OutdatedPackage, 0, len(filtered))
	for _, candidate := range filtered {
		packages = append(packages, output.OutdatedPackage{
			Name:      candidate.Name,
			Installed: candidate.Current,
			Latest:    candidate.Latest,
		})
	}

	outdatedResult := &output.OutdatedResult{
		Summary: output.OutdatedSummary{
			CheckedPackages:  result.CountEligible,
			OutdatedPackages: len(filtered),
			ExcludedPackages: result.CountExcluded,
			CondaPrefix:      result.CondaPrefix,
		},
		Packages: packages,
		Warnings: warningMessages,
	}

	return output.WriteOutdatedResult(os.Stdout, format, outdatedResult)
}

// printOutdatedCandidates outputs upgrade candidates in table format to stdout.
//
// Parameters:
//   - filtered: Eligible candidates in final order
func printOutdatedCandidates(filtered []outdated.Candidate) {
	if len(filtered) == 0 {
		fmt.Println(output.MsgNothingToUpgrade)
		return
	}

	fmt.Println()
	table := output.NewTable().
		AddColumn("NAME").
		AddColumn("INSTALLED").
		AddColumn("LATEST")
	for _, candidate := range filtered {
		table.UpdateWidths(candidate.Name, candidate.Current, candidate.Latest)
	}

	fmt.Println(table.HeaderRow())
	fmt.Println(table.SeparatorRow())
	for _, candidate := range filtered {
		fmt.Println(table.FormatRow(candidate.Name, candidate.Current, candidate.Latest))
	}

	fmt.Printf("\n%d package(s) can be upgraded.\n", len(filtered))
}
