package upgrade

import (
	"context"
	"fmt"
	"strings"

	"github.com/ajxudir/pipselect/pkg/cmdexec"
	"github.com/ajxudir/pipselect/pkg/errors"
	"github.com/ajxudir/pipselect/pkg/verbose"
)

// PostUpgradeCheck runs `pip check` after a successful install.
//
// The check is advisory: broken requirements are reported but never
// change the upgrade's exit status, and a check that cannot run at all
// only produces a warning.
//
// Parameters:
//   - ctx: context for the check invocation
//   - pythonPath: the interpreter whose environment is checked
//   - extraEnv: extra environment variables for the pip process
func PostUpgradeCheck(ctx context.Context, pythonPath string, extraEnv map[string]string) {
	fmt.Println("\nRunning post-upgrade dependency check...")

	argv := []string{pythonPath, "-m", "pip", "check"}
	result, err := cmdexec.Capture(ctx, argv, extraEnv)
	if err != nil {
		verbose.Printf("pip check could not run: %v", err)
		fmt.Print(errors.FormatErrorsWithHints([]error{fmt.Errorf("could not run pip check: %w", err)}))
		return
	}

	report := strings.TrimSpace(string(result.Stdout))
	if stderr := strings.TrimSpace(string(result.Stderr)); stderr != "" {
		if report != "" {
			report += "\n"
		}
		report += stderr
	}

	if result.ExitCode == 0 {
		if report == "" {
			report = "No broken requirements found."
		}
		fmt.Println(report)
		return
	}

	if report != "" {
		fmt.Println(report)
	}
	fmt.Printf("Warning: pip check reported dependency problems (exit %d).\n", result.ExitCode)
}
