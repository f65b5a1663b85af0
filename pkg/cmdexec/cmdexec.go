// Package cmdexec provides command execution utilities for pipselect.
// Commands are executed directly from argv vectors without a shell, so
// package pins and user-supplied pip arguments are never reinterpreted.
package cmdexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ajxudir/pipselect/pkg/verbose"
)

// defaultEnv holds environment defaults applied to every spawned command.
// Values already present in the process environment are left untouched.
var defaultEnv = map[string]string{
	// Suppress pip's "new release available" banner on every invocation.
	"PIP_DISABLE_PIP_VERSION_CHECK": "1",

	// Keep pip output unbuffered so streamed installs render promptly.
	"PYTHONUNBUFFERED": "1",
}

// Result holds the outcome of a captured command execution.
//
// Fields:
//   - ExitCode: Exit code the command terminated with (0 on success)
//   - Stdout: Captured standard output
//   - Stderr: Captured standard error
type Result struct {
	// ExitCode is the exit code of the finished command.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout []byte

	// Stderr is the captured standard error.
	Stderr []byte
}

// CaptureFunc is the function signature for captured command execution.
//
// Parameters:
//   - ctx: Context for cancellation control
//   - argv: Command and arguments; argv[0] is the executable
//   - extraEnv: Additional environment variables layered over the base environment
//
// Returns:
//   - *Result: Captured output and exit code; non-zero exits still return a Result
//   - error: Only when the command could not be started at all
type CaptureFunc func(ctx context.Context, argv []string, extraEnv map[string]string) (*Result, error)

// InteractiveFunc is the function signature for interactive command execution.
//
// Parameters:
//   - argv: Command and arguments; argv[0] is the executable
//   - extraEnv: Additional environment variables layered over the base environment
//
// Returns:
//   - int: Exit code of the finished command; only meaningful when error is nil
//   - error: Only when the command could not be started at all
type InteractiveFunc func(argv []string, extraEnv map[string]string) (int, error)

// Capture is the default captured execution function.
//
// This variable holds the implementation used for captured command execution
// throughout the application. It can be replaced with a mock implementation
// for testing.
var Capture CaptureFunc = runCapture

// Interactive is the default interactive execution function.
//
// The spawned command inherits the caller's stdin, stdout, and stderr, which
// is how pip install runs so its own progress output reaches the terminal.
// It can be replaced with a mock implementation for testing.
var Interactive InteractiveFunc = runInteractive

// runCapture executes argv with captured output.
//
// It performs the following operations:
//   - Builds the process environment via BaseEnviron
//   - Runs the command with stdout and stderr captured separately
//   - Extracts the exit code when the command itself fails
//   - Logs execution details through the verbose package
//
// A command that starts but exits non-zero is NOT an error here: the Result
// carries the exit code and the caller decides how to surface it. An error is
// returned only when spawning fails (e.g. executable not found).
func runCapture(ctx context.Context, argv []string, extraEnv map[string]string) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("no command provided")
	}

	workDir, _ := os.Getwd()
	display := CommandLine(argv)
	verbose.CommandExec(display, workDir)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = BaseEnviron(extraEnv)

	// Run in its own process group so cancellation reaps pip's children
	// (build backends and the like), not just pip itself.
	setProcGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if err != nil {
		// A cancelled run also surfaces as a signal-killed ExitError, so
		// the context has to be checked before the exit code.
		if ctx.Err() != nil {
			if killErr := killProcGroup(cmd); killErr != nil {
				verbose.Infof("Failed to kill process group: %v", killErr)
			}
			return nil, ctx.Err()
		}
		if code, ok := ExtractExitCode(err); ok {
			result.ExitCode = code
			verbose.CommandResult(display, code, stderr.String())
			return result, nil
		}
		return nil, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}

	verbose.CommandResult(display, 0, "")
	return result, nil
}

// runInteractive executes argv wired to the caller's terminal.
//
// It performs the following operations:
//   - Builds the process environment via BaseEnviron
//   - Connects the command to the current stdin, stdout, and stderr
//   - Waits for the command to finish and extracts its exit code
//
// Returns the exit code of the finished command, or an error when the
// command could not be started.
func runInteractive(argv []string, extraEnv map[string]string) (int, error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("no command provided")
	}

	workDir, _ := os.Getwd()
	display := CommandLine(argv)
	verbose.CommandExec(display, workDir)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = BaseEnviron(extraEnv)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		if code, ok := ExtractExitCode(err); ok {
			verbose.CommandResult(display, code, "")
			return code, nil
		}
		return 0, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}

	verbose.CommandResult(display, 0, "")
	return 0, nil
}

// BaseEnviron builds the environment for spawned commands.
//
// It performs the following operations:
//   - Step 1: Starts from the current process environment
//   - Step 2: Appends pip-related defaults for keys not already set
//   - Step 3: Appends extraEnv entries, expanding $VAR references in values
//
// Entries appended later win over earlier duplicates, so extraEnv overrides
// both the process environment and the defaults.
//
// Parameters:
//   - extraEnv: Additional variables to layer on top; may be nil
//
// Returns:
//   - []string: Environment in "KEY=value" form ready for exec.Cmd.Env
func BaseEnviron(extraEnv map[string]string) []string {
	environ := os.Environ()

	present := make(map[string]struct{}, len(environ))
	for _, kv := range environ {
		if i := strings.IndexByte(kv, '='); i > 0 {
			present[kv[:i]] = struct{}{}
		}
	}

	for key, value := range defaultEnv {
		if _, ok := present[key]; !ok {
			environ = append(environ, key+"="+value)
		}
	}

	for key, value := range extraEnv {
		environ = append(environ, key+"="+os.ExpandEnv(value))
	}

	return environ
}

// CommandLine renders argv as a single display string.
//
// Parameters:
//   - argv: Command and arguments
//
// Returns:
//   - string: Space-joined command line for logging and confirmation output
func CommandLine(argv []string) string {
	return strings.Join(argv, " ")
}

// ExtractExitCode extracts the exit code from a command execution error.
//
// Parameters:
//   - err: The error returned by exec.Cmd.Run
//
// Returns:
//   - int: The exit code when the command ran and exited non-zero
//   - bool: true if an exit code could be extracted
func ExtractExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
