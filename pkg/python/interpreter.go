// Package python resolves and probes the Python interpreter that owns the
// site-packages registry pipselect operates on. Resolution happens once at
// startup; every later pip invocation reuses the resolved executable so the
// query, the classification, and the install all see the same environment.
package python

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ajxudir/pipselect/pkg/cmdexec"
	"github.com/ajxudir/pipselect/pkg/errors"
	"github.com/ajxudir/pipselect/pkg/verbose"
)

// probeScript is executed once per run to report the interpreter layout.
// It must stay a single -c payload with no dependencies beyond the stdlib;
// site.getsitepackages is unavailable inside some embedded interpreters, so
// every lookup is wrapped and the report degrades to fewer directories
// rather than failing.
const probeScript = `import json, sys, site
dirs = []
try:
    dirs.extend(site.getsitepackages())
except Exception:
    pass
try:
    user_site = site.getusersitepackages()
    if user_site:
        dirs.append(user_site)
except Exception:
    pass
print(json.dumps({
    "executable": sys.executable,
    "prefix": sys.prefix,
    "base_prefix": getattr(sys, "base_prefix", sys.prefix),
    "site_packages": dirs,
}))`

// discoveryOrder lists the executable names tried on PATH when no explicit
// interpreter was configured. python3 first: on systems that still ship a
// Python 2 "python", python3 is the one that owns modern pip.
var discoveryOrder = []string{"python3", "python"}

// lookPathFunc resolves an executable name against PATH.
//
// This variable holds the implementation used for interpreter discovery.
// It can be replaced with a mock implementation for testing.
var lookPathFunc = exec.LookPath

// Info describes the resolved Python interpreter environment.
//
// Fields:
//   - Executable: Absolute path of the interpreter binary
//   - Prefix: sys.prefix of the interpreter
//   - BasePrefix: sys.base_prefix of the interpreter
//   - SitePackages: Directories holding installed distribution metadata
type Info struct {
	// Executable is the absolute interpreter path as reported by sys.executable.
	Executable string `json:"executable"`

	// Prefix is the installation prefix (sys.prefix).
	Prefix string `json:"prefix"`

	// BasePrefix is the base installation prefix (sys.base_prefix).
	BasePrefix string `json:"base_prefix"`

	// SitePackages lists the site-packages directories of the environment,
	// including the user site directory when one exists.
	SitePackages []string `json:"site_packages"`
}

// InVirtualEnv reports whether the interpreter runs inside a virtual
// environment.
//
// A virtual environment is indicated by sys.prefix differing from
// sys.base_prefix, which holds for venv, virtualenv, and pyenv-created
// environments alike.
//
// Returns:
//   - bool: true when the interpreter belongs to a virtual environment
func (i *Info) InVirtualEnv() bool {
	return i.BasePrefix != "" && i.Prefix != i.BasePrefix
}

// Resolve determines which Python interpreter to use.
//
// It performs the following operations:
//   - Step 1: Returns the override unchanged when one was supplied
//   - Step 2: Probes PATH for python3, then python
//   - Step 3: Fails with an installation hint when no interpreter is found
//
// The override is taken on trust without a PATH lookup so that relative
// paths and interpreters outside PATH keep working; a bad override surfaces
// naturally when the probe runs it.
//
// Parameters:
//   - override: Interpreter path from the --python flag or config; may be empty
//
// Returns:
//   - string: The interpreter to execute
//   - error: When no override is set and PATH holds no python3 or python
func Resolve(override string) (string, error) {
	if override != "" {
		verbose.InterpreterResolved(override, "override")
		return override, nil
	}

	for _, name := range discoveryOrder {
		path, err := lookPathFunc(name)
		if err != nil {
			continue
		}
		verbose.InterpreterResolved(path, "PATH")
		return path, nil
	}

	return "", errors.NewPreflightValidationError("python", errors.GetHintForCommand("python"))
}

// Probe runs the interpreter once and reports its environment layout.
//
// It performs the following operations:
//   - Executes `<python> -c <probe script>` with captured output
//   - Treats a nonzero exit as fatal, surfacing the captured stderr
//   - Decodes the single-line JSON report into an Info
//
// Parameters:
//   - ctx: Context for cancellation control
//   - pythonPath: Interpreter executable to probe
//
// Returns:
//   - *Info: The decoded environment report
//   - error: When the interpreter cannot be started, exits nonzero, or
//     emits a report that does not decode
func Probe(ctx context.Context, pythonPath string) (*Info, error) {
	result, err := cmdexec.Capture(ctx, []string{pythonPath, "-c", probeScript}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to probe python interpreter %s: %w", pythonPath, err)
	}

	if result.ExitCode != 0 {
		stderr := strings.TrimSpace(string(result.Stderr))
		if stderr == "" {
			stderr = "no error output"
		}
		return nil, fmt.Errorf("python interpreter probe exited with code %d: %s", result.ExitCode, stderr)
	}

	var info Info
	if err := json.Unmarshal(result.Stdout, &info); err != nil {
		return nil, fmt.Errorf("failed to parse interpreter probe output: %w", err)
	}

	if info.Executable == "" {
		info.Executable = pythonPath
	}

	return &info, nil
}
