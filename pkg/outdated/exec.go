package outdated

import (
	"context"
	"fmt"
	"strings"

	"github.com/ajxudir/pipselect/pkg/cmdexec"
	"github.com/ajxudir/pipselect/pkg/errors"
)

// listArgv builds the pip invocation that lists outdated packages.
//
// The version-check suppression rides on the argv as well as the default
// environment overlay, so the query stays quiet even when a config env
// block overrides PIP_DISABLE_PIP_VERSION_CHECK.
//
// Parameters:
//   - pythonPath: Interpreter executable that owns the environment
//
// Returns:
//   - []string: Complete argv ready for execution
func listArgv(pythonPath string) []string {
	return []string{pythonPath, "-m", "pip", "list", "--outdated", "--format=json", "--disable-pip-version-check"}
}

// runListOutdated executes the outdated query and enforces its fatal policy.
//
// It performs the following operations:
//   - Runs the query with captured output
//   - Wraps a nonzero pip exit in an ExitError carrying pip's own status
//   - Returns the captured stdout on success
//
// Querying is a precondition for everything downstream, so a failed query
// is never recovered: the ExitError's code is pip's exit status and its
// message is the captured stderr, both surfaced verbatim to the user.
//
// Parameters:
//   - ctx: Context for cancellation control
//   - pythonPath: Interpreter executable that owns the environment
//   - extraEnv: Additional environment variables for the pip invocation
//
// Returns:
//   - []byte: Raw stdout of the query
//   - error: An ExitError on nonzero exit, or a plain error when pip
//     could not be started at all
func runListOutdated(ctx context.Context, pythonPath string, extraEnv map[string]string) ([]byte, error) {
	result, err := cmdexec.Capture(ctx, listArgv(pythonPath), extraEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to run pip list --outdated: %w", err)
	}

	if result.ExitCode != 0 {
		message := strings.TrimSpace(string(result.Stderr))
		if message == "" {
			message = fmt.Sprintf("pip list --outdated exited with code %d", result.ExitCode)
		}
		return nil, &errors.ExitError{Code: result.ExitCode, Message: message}
	}

	return result.Stdout, nil
}
