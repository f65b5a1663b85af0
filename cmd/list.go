package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/ajxudir/pipselect/pkg/classify"
	"github.com/ajxudir/pipselect/pkg/constants"
	"github.com/ajxudir/pipselect/pkg/errors"
	"github.com/ajxudir/pipselect/pkg/output"
	"github.com/ajxudir/pipselect/pkg/pypi"
	"github.com/ajxudir/pipselect/pkg/warnings"
	"github.com/spf13/cobra"
)

var (
	listPythonFlag string
	listConfigFlag string
	listOutputFlag string
	listAllFlag    bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show installed distributions with provenance",
	Long: `List installed distributions with version, installer tag, and
pip/conda classification. By default only pip-eligible distributions are
shown; --all adds the conda-excluded rows with their exclusion reasons.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listPythonFlag, "python", "p", "", "Python interpreter to inspect")
	listCmd.Flags().StringVarP(&listConfigFlag, "config", "c", "", "Config file path")
	listCmd.Flags().StringVarP(&listOutputFlag, "output", "o", "", "Output format: json (default: table)")
	listCmd.Flags().BoolVar(&listAllFlag, "all", false, "Include conda-excluded distributions")
}

// runList executes the list command to display classified distributions.
//
// Classifies every installed distribution by provenance and lists name,
// version, installer tag, and status. Conda-excluded rows appear only
// with --all.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Command line arguments (unused)
//
// Returns:
//   - error: Returns error on config loading or interpreter failure
func runList(cmd *cobra.Command, args []string) error {
	// Validate flag compatibility before proceeding
	format := output.ParseFormat(listOutputFlag)
	if err := output.ValidateStructuredOutputFlags(format, verboseFlag); err != nil {
		return errors.NewExitError(errors.ExitCancelled, err)
	}

	collector := warnings.NewCollector()
	restoreWarnings := warnings.SetWarningWriter(collector)
	defer restoreWarnings()

	cfg, err := loadAndValidateConfig(listConfigFlag, workingDir())
	if err != nil {
		return err // Error already formatted with hints
	}

	info, err := resolveEnvironment(commandContext(cmd), listPythonFlag, cfg)
	if err != nil {
		return err
	}

	result := classifyFunc(classifyOptions(cfg, info))
	if result.SkippedUnits > 0 {
		warnings.Warnf("skipped %d distribution(s) with unreadable metadata\n", result.SkippedUnits)
	}

	units := selectListUnits(result, listAllFlag)

	if output.IsStructuredFormat(format) {
		return printListStructured(units, result, collector.Messages(), format)
	}

	printDistributions(units, result)
	printCollectedWarnings(collector.Messages())
	return nil
}

// selectListUnits picks and orders the rows to display.
//
// Excluded units are dropped unless includeExcluded is set. Rows are
// ordered by normalized name so the listing is deterministic regardless
// of discovery order.
//
// Parameters:
//   - result: Classification outcome
//   - includeExcluded: Whether conda-excluded rows are kept
//
// Returns:
//   - []classify.Unit: Ordered display rows
func selectListUnits(result *classify.Result, includeExcluded bool) []classify.Unit {
	units := make([]classify.Unit, 0, len(result.Units))
	for _, unit := range result.Units {
		if !includeExcluded && unit.Status == constants.StatusExcluded {
			continue
		}
		units = append(units, unit)
	}

	sort.Slice(units, func(i, j int) bool {
		return pypi.Normalize(units[i].Name) < pypi.Normalize(units[j].Name)
	})
	return units
}

// printListStructured outputs list results in a structured format.
//
// Parameters:
//   - units: Display rows in final order
//   - result: Classification outcome supplying the summary counts
//   - warningMessages: Warning messages to include in the output
//   - format: Output format to use
//
// Returns:
//   - error: Returns error on output failure
func printListStructured(units []classify.Unit, result *classify.Result, warningMessages []string, format output.Format) error {
	packages := make([]output.ListPackage, 0, len(units))
	for _, unit := range units {
		packages = append(packages, output.ListPackage{
			Name:      unit.Name,
			Version:   unit.Version,
			Installer: unit.Installer,
			Status:    unit.Status,
			Reason:    unit.Reason,
		})
	}

	listResult := &output.ListResult{
		Summary: output.ListSummary{
			TotalPackages: len(result.Units),
			Eligible:      result.CountEligible,
			Excluded:      result.CountExcluded,
			CondaPrefix:   result.CondaPrefix,
		},
		Packages: packages,
		Warnings: warningMessages,
	}

	return output.WriteListResult(os.Stdout, format, listResult)
}

// printDistributions outputs classified distributions in table format to stdout.
//
// Prints the conda banner when an environment was detected, the table of
// rows, and the classification counts line.
//
// Parameters:
//   - units: Display rows in final order
//   - result: Classification outcome supplying banner and counts
func printDistributions(units []classify.Unit, result *classify.Result) {
	if result.CondaPrefix != "" {
		fmt.Println(output.CondaBanner(result.CondaPrefix))
		fmt.Println()
	}

	if len(units) == 0 {
		fmt.Println("No matching distributions found.")
		fmt.Println()
		fmt.Println(output.ClassificationCounts(result.CountEligible, result.CountExcluded))
		return
	}

	showReason := false
	for _, unit := range units {
		if unit.Reason != "" {
			showReason = true
			break
		}
	}

	table := output.NewTable().
		AddColumn("NAME").
		AddColumn("VERSION").
		AddColumn("INSTALLER").
		AddColumn("STATUS").
		AddConditionalColumn("REASON", showReason)

	for _, unit := range units {
		table.UpdateWidths(unit.Name, displayValue(unit.Version), displayValue(unit.Installer), unit.Status, unit.Reason)
	}

	fmt.Println(table.HeaderRow())
	fmt.Println(table.SeparatorRow())
	for _, unit := range units {
		fmt.Println(table.FormatRow(unit.Name, displayValue(unit.Version), displayValue(unit.Installer), unit.Status, unit.Reason))
	}

	fmt.Printf("\nTotal packages: %d\n", len(units))
	fmt.Println(output.ClassificationCounts(result.CountEligible, result.CountExcluded))
}

// displayValue substitutes the N/A placeholder for empty values in tables.
func displayValue(v string) string {
	if v == "" {
		return constants.PlaceholderNA
	}
	return v
}

// printCollectedWarnings prints captured warnings after the main output.
//
// Parameters:
//   - messages: Captured warning messages, may be empty
func printCollectedWarnings(messages []string) {
	if len(messages) == 0 {
		return
	}
	fmt.Println()
	for _, msg := range messages {
		fmt.Printf("%s %s\n", constants.IconWarn, msg)
	}
}
