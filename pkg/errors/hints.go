package errors

import (
	"strings"
)

// ErrorHint provides actionable resolution hints for common errors.
//
// Fields:
//   - Pattern: Substring to match in error message (case-insensitive)
//   - Hint: Brief description of the issue
//   - Resolution: Command or action to resolve the issue
type ErrorHint struct {
	// Pattern is a substring to match in error messages (case-insensitive).
	Pattern string

	// Hint is a brief description of the problem.
	Hint string

	// Resolution is a command or action to fix the problem.
	Resolution string
}

// CommandResolutionHints maps command names to installation instructions.
// Used when a required executable cannot be found on PATH.
var CommandResolutionHints = map[string]string{
	"python":  "Install Python: https://python.org/downloads/",
	"python3": "Install Python: https://python.org/downloads/",
	"pip":     "Install pip: python -m ensurepip --upgrade",
	"pip3":    "Install pip: python -m ensurepip --upgrade",
	"conda":   "Install conda: https://docs.conda.io/en/latest/miniconda.html",
	"uv":      "Install uv: https://docs.astral.sh/uv/getting-started/installation/",
	"pipx":    "Install pipx: python -m pip install --user pipx",
}

// CommonErrorHints maps error patterns to actionable hints.
// These are used by EnhanceErrorWithHint to add context to errors.
var CommonErrorHints = []ErrorHint{
	{
		Pattern:    "failed to parse",
		Hint:       "Check file syntax",
		Resolution: "Validate the YAML syntax of .pipselect.yml using a linter",
	},
	{
		Pattern:    "failed to load config",
		Hint:       "Configuration file is invalid or not found",
		Resolution: "Fix or remove .pipselect.yml, or pass --config with a valid path",
	},
	{
		Pattern:    "executable file not found",
		Hint:       "Required command is not on PATH",
		Resolution: "Install the command or point --python at an existing interpreter",
	},
	{
		Pattern:    "no module named pip",
		Hint:       "The selected interpreter has no pip",
		Resolution: "Run 'python -m ensurepip --upgrade' for that interpreter",
	},
	{
		Pattern:    "externally-managed-environment",
		Hint:       "This Python installation is managed by the OS",
		Resolution: "Use a virtual environment, or install tools with pipx",
	},
	{
		Pattern:    "no such file or directory",
		Hint:       "File or directory not found",
		Resolution: "Verify the path exists and you have read permissions",
	},
	{
		Pattern:    "permission denied",
		Hint:       "Insufficient permissions",
		Resolution: "Use --user for per-user installs or adjust file permissions",
	},
	{
		Pattern:    "could not find a version",
		Hint:       "The pinned version is not available on the index",
		Resolution: "Re-run and pick a fresher set, or check your index URL",
	},
	{
		Pattern:    "network",
		Hint:       "Network connectivity issue",
		Resolution: "Check internet connection and proxy settings",
	},
	{
		Pattern:    "connection refused",
		Hint:       "Connection refused by server",
		Resolution: "Check if the package index is accessible and not blocked",
	},
	{
		Pattern:    "timed out",
		Hint:       "The package index did not respond in time",
		Resolution: "Retry, or configure a closer index mirror",
	},
	{
		Pattern:    "ssl",
		Hint:       "TLS verification failed",
		Resolution: "Check system certificates or corporate proxy configuration",
	},
}

// GetHint returns an actionable hint for the given error.
//
// It searches the error message for known patterns in CommonErrorHints
// and returns a formatted hint if one matches.
//
// Parameters:
//   - err: The error to get a hint for
//
// Returns:
//   - string: The hint with resolution, or empty string if no hint found
//
// Example:
//
//	hint := errors.GetHint(err)
//	if hint != "" {
//	    fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
//	}
func GetHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := strings.ToLower(err.Error())
	for _, hint := range CommonErrorHints {
		if strings.Contains(errStr, strings.ToLower(hint.Pattern)) {
			return hint.Hint + ": " + hint.Resolution
		}
	}

	return ""
}

// GetHintForCommand returns the installation hint for a command.
//
// Parameters:
//   - cmd: The command name (e.g., "python", "pip", "conda")
//
// Returns:
//   - string: Installation hint, or empty string if unknown command
func GetHintForCommand(cmd string) string {
	return CommandResolutionHints[cmd]
}

// RegisterHint adds a custom hint to the registry.
//
// This allows extending the hint system with project-specific patterns.
//
// Parameters:
//   - pattern: Lowercase substring to match in error messages
//   - hint: Brief description of the issue
//   - resolution: Actionable suggestion for fixing the error
func RegisterHint(pattern, hint, resolution string) {
	CommonErrorHints = append(CommonErrorHints, ErrorHint{
		Pattern:    pattern,
		Hint:       hint,
		Resolution: resolution,
	})
}

// RegisterCommandHint adds a command installation hint.
//
// Parameters:
//   - command: Command name (e.g., "mycommand")
//   - hint: Installation instructions
func RegisterCommandHint(command, hint string) {
	CommandResolutionHints[command] = hint
}

// EnhanceErrorWithHint adds actionable hints to an error message if a matching pattern is found.
//
// Parameters:
//   - err: The error to enhance
//
// Returns:
//   - string: Error message with hint appended if found, otherwise just the error message
//
// Example:
//
//	enhanced := errors.EnhanceErrorWithHint(err)
//	fmt.Fprintf(os.Stderr, "Error: %s\n", enhanced)
func EnhanceErrorWithHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()
	for _, hint := range CommonErrorHints {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(hint.Pattern)) {
			return errStr + "\n  \U0001F4A1 " + hint.Hint + ": " + hint.Resolution
		}
	}

	return errStr
}
