package cmdexec

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCapture tests the behavior of the Capture execution function.
//
// It verifies:
//   - Stdout and stderr are captured separately
//   - Non-zero exits return a Result instead of an error
//   - Spawn failures and empty argv return errors
func TestCapture(t *testing.T) {
	t.Run("captures stdout and stderr", func(t *testing.T) {
		result, err := Capture(context.Background(), []string{"sh", "-c", "echo out; echo err 1>&2"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, result.ExitCode)
		assert.Equal(t, "out\n", string(result.Stdout))
		assert.Equal(t, "err\n", string(result.Stderr))
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		result, err := Capture(context.Background(), []string{"sh", "-c", "echo boom 1>&2; exit 3"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, result.ExitCode)
		assert.Equal(t, "boom\n", string(result.Stderr))
	})

	t.Run("command not found", func(t *testing.T) {
		_, err := Capture(context.Background(), []string{"pipselect-no-such-binary-xyz"}, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to run")
	})

	t.Run("empty argv", func(t *testing.T) {
		_, err := Capture(context.Background(), nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no command provided")
	})
}

// TestCaptureContext tests cancellation handling in Capture.
//
// It verifies:
//   - A pre-cancelled context returns the context error
//   - Cancellation during execution returns the context error, not a
//     fabricated exit code
func TestCaptureContext(t *testing.T) {
	t.Run("pre-cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Capture(ctx, []string{"echo", "hello"}, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("deadline during execution", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := Capture(ctx, []string{"sleep", "10"}, nil)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 5*time.Second, "cancellation must not wait for the command")
	})
}

// TestCaptureEnv tests environment handling in Capture.
//
// It verifies:
//   - Extra variables reach the spawned command
//   - Values referencing other variables are expanded
func TestCaptureEnv(t *testing.T) {
	t.Run("extra variable set", func(t *testing.T) {
		result, err := Capture(context.Background(), []string{"sh", "-c", "printenv PIPSELECT_TEST_VAR"},
			map[string]string{"PIPSELECT_TEST_VAR": "value1"})
		require.NoError(t, err)
		assert.Equal(t, "value1\n", string(result.Stdout))
	})

	t.Run("variable reference expanded", func(t *testing.T) {
		t.Setenv("PIPSELECT_TEST_ROOT", "/opt/tools")

		result, err := Capture(context.Background(), []string{"sh", "-c", "printenv PIPSELECT_TEST_PATH"},
			map[string]string{"PIPSELECT_TEST_PATH": "$PIPSELECT_TEST_ROOT/bin"})
		require.NoError(t, err)
		assert.Equal(t, "/opt/tools/bin\n", string(result.Stdout))
	})
}

// TestInteractive tests the behavior of the Interactive execution function.
//
// It verifies:
//   - Exit codes are returned without an error
//   - Spawn failures return an error
func TestInteractive(t *testing.T) {
	t.Run("zero exit", func(t *testing.T) {
		code, err := Interactive([]string{"true"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, code)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		code, err := Interactive([]string{"sh", "-c", "exit 5"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, code)
	})

	t.Run("command not found", func(t *testing.T) {
		_, err := Interactive([]string{"pipselect-no-such-binary-xyz"}, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to run")
	})

	t.Run("empty argv", func(t *testing.T) {
		_, err := Interactive(nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no command provided")
	})
}

// TestBaseEnviron tests the behavior of BaseEnviron.
//
// It verifies:
//   - pip defaults are appended when absent from the environment
//   - Existing process values are not overridden by defaults
//   - Extra variables are appended last and expand references
func TestBaseEnviron(t *testing.T) {
	t.Run("pip defaults applied", func(t *testing.T) {
		old, had := os.LookupEnv("PIP_DISABLE_PIP_VERSION_CHECK")
		require.NoError(t, os.Unsetenv("PIP_DISABLE_PIP_VERSION_CHECK"))
		defer func() {
			if had {
				_ = os.Setenv("PIP_DISABLE_PIP_VERSION_CHECK", old)
			}
		}()

		environ := BaseEnviron(nil)
		assert.Contains(t, environ, "PIP_DISABLE_PIP_VERSION_CHECK=1")
	})

	t.Run("existing value wins over default", func(t *testing.T) {
		t.Setenv("PIP_DISABLE_PIP_VERSION_CHECK", "0")

		environ := BaseEnviron(nil)
		assert.Contains(t, environ, "PIP_DISABLE_PIP_VERSION_CHECK=0")
		assert.NotContains(t, environ, "PIP_DISABLE_PIP_VERSION_CHECK=1")
	})

	t.Run("extra env appended", func(t *testing.T) {
		environ := BaseEnviron(map[string]string{"PIPSELECT_EXTRA": "set"})
		assert.Contains(t, environ, "PIPSELECT_EXTRA=set")
	})

	t.Run("extra env expands references", func(t *testing.T) {
		t.Setenv("PIPSELECT_TEST_ROOT", "/data")

		environ := BaseEnviron(map[string]string{"PIPSELECT_SUB": "$PIPSELECT_TEST_ROOT/cache"})
		assert.Contains(t, environ, "PIPSELECT_SUB=/data/cache")
	})
}

// TestCommandLine tests the behavior of CommandLine.
//
// It verifies:
//   - Arguments are joined with single spaces
func TestCommandLine(t *testing.T) {
	assert.Equal(t, "pip install --upgrade requests==2.32.3",
		CommandLine([]string{"pip", "install", "--upgrade", "requests==2.32.3"}))
	assert.Equal(t, "", CommandLine(nil))
}

// TestExtractExitCode tests the behavior of ExtractExitCode.
//
// It verifies:
//   - Exit codes are extracted from exec exit errors
//   - Other errors and nil yield no code
func TestExtractExitCode(t *testing.T) {
	t.Run("exit error", func(t *testing.T) {
		err := exec.Command("sh", "-c", "exit 7").Run()
		require.Error(t, err)

		code, ok := ExtractExitCode(err)
		assert.True(t, ok)
		assert.Equal(t, 7, code)
	})

	t.Run("plain error", func(t *testing.T) {
		code, ok := ExtractExitCode(stderrors.New("boom"))
		assert.False(t, ok)
		assert.Equal(t, 0, code)
	})

	t.Run("nil error", func(t *testing.T) {
		_, ok := ExtractExitCode(nil)
		assert.False(t, ok)
	})
}

// TestKillProcGroup tests the behavior of killProcGroup.
//
// It verifies:
//   - Nil command process returns nil error
//   - Running processes are killed successfully
//   - Invalid PIDs return an error
func TestKillProcGroup(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping Unix-specific test on Windows")
	}

	t.Run("nil command returns nil", func(t *testing.T) {
		cmd := &exec.Cmd{}
		err := killProcGroup(cmd)
		assert.NoError(t, err)
	})

	t.Run("kills running process", func(t *testing.T) {
		cmd := exec.Command("sleep", "60")
		setProcGroup(cmd)
		err := cmd.Start()
		require.NoError(t, err)

		// Give process time to start
		time.Sleep(50 * time.Millisecond)

		err = killProcGroup(cmd)
		assert.NoError(t, err)

		// Wait for process to finish (should be killed)
		_ = cmd.Wait()
	})

	t.Run("error on invalid pid", func(t *testing.T) {
		// Create a command that has already exited
		cmd := exec.Command("echo", "test")
		err := cmd.Run() // Run and wait for completion
		require.NoError(t, err)

		// Now try to kill it - should get an error because process no longer exists
		err = killProcGroup(cmd)
		// On Unix, killing a process that doesn't exist returns an error
		assert.Error(t, err)
	})
}

// TestSetProcGroup tests the behavior of setProcGroup.
//
// It verifies:
//   - Process group attributes are set on command
func TestSetProcGroup(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping Unix-specific test on Windows")
	}

	t.Run("sets proc group on command", func(t *testing.T) {
		cmd := exec.Command("echo", "test")
		assert.Nil(t, cmd.SysProcAttr)

		setProcGroup(cmd)
		assert.NotNil(t, cmd.SysProcAttr)
		assert.True(t, cmd.SysProcAttr.Setpgid)
	})
}
