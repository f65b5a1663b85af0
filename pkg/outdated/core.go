// Package outdated queries pip for upgradeable packages. It runs
// `pip list --outdated --format=json` through the configured interpreter,
// treats a nonzero pip exit as fatal with the exit status preserved for
// verbatim propagation, and parses the JSON payload tolerantly: malformed
// payloads and incomplete records degrade to fewer candidates, never to a
// parse failure.
package outdated

import (
	"context"
)

// Candidate represents one package for which a newer version exists.
//
// Fields:
//   - Name: Package name as reported by pip
//   - Current: Installed version
//   - Latest: Newest available version
type Candidate struct {
	// Name is the display name reported by pip.
	Name string

	// Current is the installed version string.
	Current string

	// Latest is the newest version pip found.
	Latest string
}

// Query fetches the outdated-package candidates for an interpreter.
//
// It performs the following operations:
//   - Step 1: Runs pip list --outdated with JSON output via the interpreter
//   - Step 2: Fails fatally when pip exits nonzero, preserving its status
//   - Step 3: Parses the payload into candidates, dropping incomplete records
//
// Parameters:
//   - ctx: Context for cancellation control
//   - pythonPath: Interpreter executable that owns the environment
//   - extraEnv: Additional environment variables for the pip invocation
//
// Returns:
//   - []Candidate: Upgradeable packages; empty on an empty or malformed payload
//   - error: An ExitError carrying pip's status when the query fails
func Query(ctx context.Context, pythonPath string, extraEnv map[string]string) ([]Candidate, error) {
	output, err := runListOutdated(ctx, pythonPath, extraEnv)
	if err != nil {
		return nil, err
	}

	return ParseCandidates(output), nil
}
