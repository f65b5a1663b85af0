package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ajxudir/pipselect/pkg/classify"
	"github.com/ajxudir/pipselect/pkg/config"
	"github.com/ajxudir/pipselect/pkg/constants"
	"github.com/ajxudir/pipselect/pkg/errors"
	"github.com/ajxudir/pipselect/pkg/menu"
	"github.com/ajxudir/pipselect/pkg/outdated"
	"github.com/ajxudir/pipselect/pkg/output"
	"github.com/ajxudir/pipselect/pkg/upgrade"
	"github.com/ajxudir/pipselect/pkg/verbose"
	"github.com/ajxudir/pipselect/pkg/warnings"
	"github.com/spf13/cobra"
)

var (
	upgradePythonFlag string
	upgradeConfigFlag string
	upgradeUserFlag   bool
	upgradeDryRunFlag bool
	upgradeNoTUIFlag  bool
	upgradeYesFlag    bool
)

// Seams for the interactive collaborators, replaceable in tests.
var (
	menuInteractiveFunc = menu.Interactive
	runMenuFunc         = menu.Run
	runFallbackFunc     = menu.Fallback
	runUpgradeFunc      = upgrade.Run
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [-- pip-args...]",
	Short: "Select and upgrade pip-installed packages",
	Long: `Interactively upgrade pip-installed packages. Classifies installed
distributions by provenance, queries pip for newer releases, and presents
the pip-eligible candidates in a full-screen multi-select menu (or a
numbered text fallback). Chosen packages are upgraded with exact version
pins; arguments after -- are forwarded to pip install verbatim.`,
	// Quitting the menu and declining the confirmation are deliberate
	// outcomes that already printed their message; cobra must not follow
	// them with an error line or the usage text. Real failures are
	// printed by the RunE wrapper instead.
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runUpgrade(cmd, args)
		if err != nil && !errors.IsQuiet(err) {
			fmt.Fprintln(os.Stderr, "Error:", errors.EnhanceErrorWithHint(err))
		}
		return err
	},
}

func init() {
	upgradeCmd.Flags().StringVarP(&upgradePythonFlag, "python", "p", "", "Python interpreter whose packages are upgraded")
	upgradeCmd.Flags().StringVarP(&upgradeConfigFlag, "config", "c", "", "Config file path")
	upgradeCmd.Flags().BoolVar(&upgradeUserFlag, "user", false, "Install to the user site (pip --user)")
	upgradeCmd.Flags().BoolVar(&upgradeDryRunFlag, "dry-run", false, "Print the pip command without executing it")
	upgradeCmd.Flags().BoolVar(&upgradeNoTUIFlag, "no-tui", false, "Force the numbered text fallback")
	upgradeCmd.Flags().BoolVarP(&upgradeYesFlag, "yes", "y", false, "Skip the confirmation prompt")
}

// runUpgrade executes the upgrade command end to end.
//
// It performs the following operations:
//   - Step 1: Validates the flag combination and loads the config
//   - Step 2: Probes the interpreter and classifies installed distributions
//   - Step 3: Queries pip for outdated packages under the progress bar
//   - Step 4: Presents the pip-eligible candidates for selection
//   - Step 5: Runs pip install --upgrade for the chosen packages and
//     propagates its exit status verbatim
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Arguments after -- are forwarded to pip install
//
// Returns:
//   - error: Returns ExitError carrying the exit code on any non-success
func runUpgrade(cmd *cobra.Command, args []string) error {
	passthrough, err := splitPassthroughArgs(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := loadAndValidateConfig(upgradeConfigFlag, workingDir())
	if err != nil {
		return err // Error already formatted with hints
	}

	info, err := resolveEnvironment(commandContext(cmd), upgradePythonFlag, cfg)
	if err != nil {
		return err
	}

	if upgradeUserFlag && info.InVirtualEnv() {
		return errors.NewExitErrorf(errors.ExitCancelled,
			"--user cannot be used inside a virtual environment (%s)\n%s Drop --user, or target the base interpreter with --python",
			info.Prefix, constants.IconLightbulb)
	}

	result := classifyFunc(classifyOptions(cfg, info))
	if result.SkippedUnits > 0 {
		warnings.Warnf("skipped %d distribution(s) with unreadable metadata\n", result.SkippedUnits)
	}

	if result.CondaPrefix != "" {
		fmt.Println(output.CondaBanner(result.CondaPrefix))
	}
	fmt.Println(output.ClassificationCounts(result.CountEligible, result.CountExcluded))

	candidates, err := queryCandidates(commandContext(cmd), cfg, info, result.CountEligible, false, upgradeNoTUIFlag)
	if err != nil {
		return err
	}

	filtered := classify.FilterCandidates(result, candidates)
	if len(filtered) == 0 {
		fmt.Println(output.MsgNothingToUpgrade)
		return nil
	}

	chosen, cancelled, err := selectCandidates(filtered, cfg)
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}
	if cancelled {
		fmt.Println(output.MsgCancelled)
		return &errors.ExitError{Code: errors.ExitCancelled}
	}
	verbose.Infof("Selected %d of %d candidate(s)", len(chosen), len(filtered))

	code, err := runUpgradeFunc(commandContext(cmd), upgrade.Options{
		Python:      info.Executable,
		Chosen:      chosen,
		User:        upgradeUserFlag,
		DryRun:      upgradeDryRunFlag,
		Yes:         upgradeYesFlag,
		PipArgs:     cfg.PipArgs,
		Passthrough: passthrough,
		Env:         cfg.Env,
		PostCheck:   cfg.IsPostUpgradeCheck(),
	})
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}
	if code != errors.ExitSuccess {
		// pip's own output already streamed to the terminal; only the
		// code is left to carry.
		verbose.Infof("Exit code %d: propagating pip install status", code)
		return &errors.ExitError{Code: code}
	}
	return nil
}

// splitPassthroughArgs separates pip passthrough arguments from positionals.
//
// Everything after -- is forwarded to pip install verbatim. Positional
// arguments before the separator are rejected: the selection happens in
// the menu, not on the command line.
//
// Parameters:
//   - cmd: Cobra command instance supplying the separator position
//   - args: Parsed command line arguments
//
// Returns:
//   - []string: Arguments to forward to pip install, may be empty
//   - error: ExitError when positional arguments precede the separator
func splitPassthroughArgs(cmd *cobra.Command, args []string) ([]string, error) {
	var passthrough []string
	if cmd != nil {
		if at := cmd.ArgsLenAtDash(); at >= 0 {
			passthrough = args[at:]
			args = args[:at]
		}
	}
	if len(args) > 0 {
		return nil, errors.NewExitErrorf(errors.ExitCancelled,
			"unexpected arguments: %s\n%s Forward pip arguments after --, e.g. pipselect upgrade -- --timeout 30",
			strings.Join(args, " "), constants.IconLightbulb)
	}
	return passthrough, nil
}

// selectCandidates presents the candidates in the appropriate UI.
//
// The full-screen menu runs only when both stdin and stdout are
// terminals and nothing forces the text fallback.
//
// Parameters:
//   - candidates: Eligible candidates in display order
//   - cfg: Loaded configuration supplying the UI preference
//
// Returns:
//   - []outdated.Candidate: The chosen subset, possibly empty
//   - bool: true when the user cancelled instead of confirming
//   - error: Any terminal error from the selection UI
func selectCandidates(candidates []outdated.Candidate, cfg *config.Config) ([]outdated.Candidate, bool, error) {
	if !upgradeNoTUIFlag && !cfg.IsNoTUI() && menuInteractiveFunc() {
		verbose.Info("Presenting full-screen selection menu")
		return runMenuFunc(candidates)
	}
	verbose.Info("Presenting numbered text fallback")
	return runFallbackFunc(candidates)
}
