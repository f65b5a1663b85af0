// Package errors provides unified error types and display for pipselect.
//
// This package consolidates all error handling into a single location:
//   - ExitError: Command exit with specific exit code
//   - ValidationError: Configuration or preflight validation failures
//
// Error Display:
//
// The package provides consistent error formatting with actionable hints:
//
//	errors.PrintErrorWithHints(os.Stderr, errs, verbose)
//
// Error Checking:
//
// Use the Is* functions to check error types:
//
//	if exitErr, ok := errors.IsExitError(err); ok {
//	    os.Exit(exitErr.Code)
//	}
//
// Exit Codes:
//
// Standard exit codes are defined for scripting integration:
//   - ExitSuccess (0): Completed successfully, including nothing-to-do runs
//   - ExitFailure (1): Internal error
//   - ExitCancelled (2): User cancelled or the invocation was rejected
//
// When pip itself exits non-zero, its exit code is propagated verbatim
// through ExitError.Code.
package errors
