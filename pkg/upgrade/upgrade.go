// Package upgrade builds and executes the pip install invocation for the
// chosen packages. Every chosen package is pinned to its exact reported
// latest version, the full command line is shown before anything runs,
// and execution requires an explicit confirmation unless it is skipped
// with --yes. The executed command's exit status is propagated verbatim.
package upgrade

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ajxudir/pipselect/pkg/cmdexec"
	"github.com/ajxudir/pipselect/pkg/errors"
	"github.com/ajxudir/pipselect/pkg/outdated"
	"github.com/ajxudir/pipselect/pkg/output"
	"github.com/ajxudir/pipselect/pkg/verbose"
)

// stdinReaderFunc is swapped in tests.
var stdinReaderFunc = func() *bufio.Reader { return bufio.NewReader(os.Stdin) }

// Options configures one upgrade run.
type Options struct {
	// Python is the interpreter whose pip performs the install.
	Python string

	// Chosen are the packages to upgrade, pinned to their latest versions.
	Chosen []outdated.Candidate

	// User scopes the install to the current user site.
	User bool

	// DryRun prints the invocation without executing it.
	DryRun bool

	// Yes skips the confirmation prompt.
	Yes bool

	// PipArgs are configured arguments appended to every install.
	PipArgs []string

	// Passthrough are command-line arguments forwarded after the pins.
	Passthrough []string

	// Env holds extra environment variables for the pip process.
	Env map[string]string

	// PostCheck runs `pip check` after a successful install.
	PostCheck bool
}

// Run executes the upgrade for the chosen packages.
//
// It performs the following operations:
//   - Step 1: Returns success immediately when nothing was chosen
//   - Step 2: Builds and prints the pip install command line
//   - Step 3: Stops after printing when dry-run is enabled
//   - Step 4: Asks for confirmation (default no) unless --yes was given;
//     a decline returns the cancelled exit code
//   - Step 5: Runs pip wired to the terminal and propagates its exit
//     code verbatim
//   - Step 6: Runs the advisory post-upgrade dependency check after a
//     successful install
//
// Parameters:
//   - ctx: context for the post-upgrade check
//   - opts: upgrade options
//
// Returns:
//   - int: the exit code to terminate with
//   - error: only when pip could not be started at all
func Run(ctx context.Context, opts Options) (int, error) {
	if len(opts.Chosen) == 0 {
		fmt.Println(output.MsgNothingSelected)
		return errors.ExitSuccess, nil
	}

	argv := BuildCommand(opts)
	fmt.Println("\nWill run:")
	fmt.Println("  " + cmdexec.CommandLine(argv))

	if opts.DryRun {
		fmt.Println("\n--dry-run enabled: not executing pip.")
		return errors.ExitSuccess, nil
	}

	if opts.Yes {
		fmt.Printf("\n%d package(s) will be upgraded. Proceeding (--yes)...\n", len(opts.Chosen))
	} else if !askYesNo("\nProceed with upgrade?") {
		fmt.Println(output.MsgCancelled)
		return errors.ExitCancelled, nil
	}

	code, err := cmdexec.Interactive(argv, opts.Env)
	if err != nil {
		return errors.ExitFailure, fmt.Errorf("failed to run pip install: %w", err)
	}

	if code == 0 && opts.PostCheck {
		PostUpgradeCheck(ctx, opts.Python, opts.Env)
	}

	return code, nil
}

// BuildCommand assembles the pip install argv for the chosen packages.
//
// The shape is: interpreter, -m pip install --upgrade, optional --user,
// one name==latest pin per chosen package, configured pip arguments,
// then passthrough arguments.
//
// Parameters:
//   - opts: upgrade options
//
// Returns:
//   - []string: the full argv; argv[0] is the interpreter
func BuildCommand(opts Options) []string {
	argv := []string{opts.Python, "-m", "pip", "install", "--upgrade"}
	if opts.User {
		argv = append(argv, "--user")
	}
	for _, c := range opts.Chosen {
		argv = append(argv, fmt.Sprintf("%s==%s", c.Name, c.Latest))
	}
	argv = append(argv, opts.PipArgs...)
	argv = append(argv, opts.Passthrough...)
	return argv
}

// askYesNo prompts until the user gives a recognizable answer.
//
// An empty answer or end of input selects the default, which is "no".
// Unrecognized answers re-prompt.
//
// Parameters:
//   - prompt: question shown before the [y/N] suffix
//
// Returns:
//   - bool: true only on an explicit affirmative answer
func askYesNo(prompt string) bool {
	reader := stdinReaderFunc()
	for {
		fmt.Print(prompt + " [y/N] ")

		response, err := reader.ReadString('\n')
		if err != nil && response == "" {
			verbose.Info("Confirmation input closed, treating as no")
			fmt.Println()
			return false
		}

		switch strings.TrimSpace(strings.ToLower(response)) {
		case "":
			return false
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}

		fmt.Println("Please answer y or n.")
	}
}
