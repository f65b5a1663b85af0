package verbose

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEnableDisable tests the behavior of Enable and Disable functions.
//
// It verifies:
//   - Disable sets enabled state to false
//   - Enable sets enabled state to true
//   - IsEnabled returns correct state
func TestEnableDisable(t *testing.T) {
	// Reset state
	Disable()
	assert.False(t, IsEnabled())

	Enable()
	assert.True(t, IsEnabled())

	Disable()
	assert.False(t, IsEnabled())
}

// TestSetWriter tests the behavior of SetWriter.
//
// It verifies:
//   - Writer can be set and messages are written to it
//   - nil writer parameter is ignored
//   - Verbose messages include [DEBUG] prefix
func TestSetWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	Enable()
	Printf("test message")
	Disable()

	assert.Contains(t, buf.String(), "[DEBUG] test message")

	// Test nil writer is ignored
	SetWriter(nil)
	buf.Reset()
	Enable()
	Printf("another message")
	Disable()
	assert.Contains(t, buf.String(), "[DEBUG] another message")
}

// TestPrintf tests the behavior of Printf.
//
// It verifies:
//   - No output when verbose is disabled
//   - Formatted output appears when verbose is enabled
//   - Format string and arguments are properly interpolated
func TestPrintf(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	Printf("should not appear")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	Printf("test %s %d", "arg", 42)
	Disable()

	assert.Contains(t, buf.String(), "[DEBUG] test arg 42")
}

// TestInfo tests the behavior of Info.
//
// It verifies:
//   - No output when verbose is disabled
//   - Message appears with [DEBUG] prefix when enabled
func TestInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	Info("should not appear")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	Info("info message")
	Disable()

	assert.Contains(t, buf.String(), "[DEBUG] info message")
}

// TestInfof tests the behavior of Infof.
//
// It verifies:
//   - No output when verbose is disabled
//   - Formatted message appears when enabled
func TestInfof(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	Infof("should not %s", "appear")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	Infof("info %s %d", "formatted", 123)
	Disable()

	assert.Contains(t, buf.String(), "[DEBUG] info formatted 123")
}

func TestWithDocRef(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	WithDocRef("config", "should not appear")
	assert.Empty(t, buf.String())

	// Known topic
	Enable()
	WithDocRef("config", "config issue")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] config issue")
	assert.Contains(t, output, "Configuration")
	assert.Contains(t, output, "docs/configuration.md")

	// Unknown topic - just prints message
	buf.Reset()
	Enable()
	WithDocRef("unknown-topic", "unknown topic message")
	output = buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] unknown topic message")
	assert.NotContains(t, output, "📖")
}

func TestWithDocRefAllTopics(t *testing.T) {
	topics := []string{"config", "interpreter", "classify", "outdated", "menu", "upgrade", "cli"}

	for _, topic := range topics {
		buf := &bytes.Buffer{}
		SetWriter(buf)
		Enable()
		WithDocRef(topic, "test message")
		Disable()

		assert.Contains(t, buf.String(), "[DEBUG] test message", "topic: %s", topic)
		assert.Contains(t, buf.String(), "📖", "topic: %s should have doc reference", topic)
	}
}

func TestCommandExec(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	CommandExec("pip list --outdated", "/path/to/dir")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	CommandExec("pip list --outdated", "/path/to/dir")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] Executing: pip list --outdated")
	assert.Contains(t, output, "Working dir: /path/to/dir")
}

func TestCommandResult(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	CommandResult("pip install", 1, "output")
	assert.Empty(t, buf.String())

	// Success case
	Enable()
	CommandResult("pip install", 0, "")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "Command succeeded: pip install")

	// Failure case
	buf.Reset()
	Enable()
	CommandResult("pip install", 1, "error output")
	output = buf.String()
	Disable()

	assert.Contains(t, output, "Command failed (exit 1): pip install")
	assert.Contains(t, output, "error output")

	// Empty output on failure
	buf.Reset()
	Enable()
	CommandResult("pip install", 1, "")
	output = buf.String()
	Disable()

	assert.Contains(t, output, "Command failed")
	assert.NotContains(t, output, "|")

	// Multi-line output (more than 5 lines should be truncated)
	buf.Reset()
	Enable()
	multiLine := strings.Join([]string{"line1", "line2", "line3", "line4", "line5", "line6", "line7"}, "\n")
	CommandResult("pip install", 1, multiLine)
	output = buf.String()
	Disable()

	assert.Contains(t, output, "line1")
	assert.Contains(t, output, "line2")
	assert.Contains(t, output, "line3")
	assert.Contains(t, output, "(4 more lines)")
	assert.NotContains(t, output, "line6")
	assert.NotContains(t, output, "line7")
}

func TestConfigLoaded(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	ConfigLoaded("/path/to/.pipselect.yml")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	ConfigLoaded("/path/to/.pipselect.yml")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] Config loaded: /path/to/.pipselect.yml")
}

func TestInterpreterResolved(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	InterpreterResolved("/usr/bin/python3", "PATH")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	InterpreterResolved("/usr/bin/python3", "PATH")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] Python interpreter: /usr/bin/python3 (from PATH)")
}

func TestCondaEnvironment(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	CondaEnvironment("/opt/conda", "CONDA_PREFIX")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	CondaEnvironment("/opt/conda", "CONDA_PREFIX")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] Conda environment: /opt/conda (via CONDA_PREFIX)")
}

func TestPackageExcluded(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	PackageExcluded("numpy", "conda installer marker")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	PackageExcluded("numpy", "conda installer marker")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] Package 'numpy' excluded: conda installer marker")
}

func TestTruncate(t *testing.T) {
	// Short string - no truncation
	assert.Equal(t, "short", truncate("short", 10))

	// Exact length - no truncation
	assert.Equal(t, "exact", truncate("exact", 5))

	// Long string - truncated
	assert.Equal(t, "this is a l...", truncate("this is a long string", 14))

	// Very short maxLen
	assert.Equal(t, "...", truncate("test", 3))
}
