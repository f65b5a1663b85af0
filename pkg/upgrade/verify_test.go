package upgrade

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajxudir/pipselect/pkg/cmdexec"
	"github.com/ajxudir/pipselect/pkg/testutil"
)

// withCapture replaces captured execution for one test.
func withCapture(t *testing.T, fn cmdexec.CaptureFunc) {
	t.Helper()

	original := cmdexec.Capture
	cmdexec.Capture = fn
	t.Cleanup(func() { cmdexec.Capture = original })
}

// TestPostUpgradeCheck tests the behavior of PostUpgradeCheck.
//
// It verifies:
//   - A clean check relays pip's own report
//   - A silent clean check prints a stand-in report
//   - Dependency problems are printed with an advisory warning
//   - A check that cannot run only warns
func TestPostUpgradeCheck(t *testing.T) {
	t.Run("clean check", func(t *testing.T) {
		withCapture(t, func(ctx context.Context, argv []string, extraEnv map[string]string) (*cmdexec.Result, error) {
			assert.Equal(t, []string{"/opt/py/bin/python3", "-m", "pip", "check"}, argv)
			return &cmdexec.Result{Stdout: []byte("No broken requirements found.\n")}, nil
		})

		output := testutil.CaptureStdout(t, func() {
			PostUpgradeCheck(context.Background(), "/opt/py/bin/python3", nil)
		})

		assert.Contains(t, output, "Running post-upgrade dependency check...")
		assert.Contains(t, output, "No broken requirements found.")
		assert.NotContains(t, output, "Warning")
	})

	t.Run("silent clean check", func(t *testing.T) {
		withCapture(t, func(context.Context, []string, map[string]string) (*cmdexec.Result, error) {
			return &cmdexec.Result{}, nil
		})

		output := testutil.CaptureStdout(t, func() {
			PostUpgradeCheck(context.Background(), "python3", nil)
		})

		assert.Contains(t, output, "No broken requirements found.")
	})

	t.Run("broken requirements", func(t *testing.T) {
		withCapture(t, func(context.Context, []string, map[string]string) (*cmdexec.Result, error) {
			return &cmdexec.Result{
				ExitCode: 1,
				Stdout:   []byte("urllib3 2.2.1 has requirement brotli; but you have none.\n"),
			}, nil
		})

		output := testutil.CaptureStdout(t, func() {
			PostUpgradeCheck(context.Background(), "python3", nil)
		})

		assert.Contains(t, output, "urllib3 2.2.1 has requirement brotli")
		assert.Contains(t, output, "Warning: pip check reported dependency problems (exit 1).")
	})

	t.Run("check cannot run", func(t *testing.T) {
		withCapture(t, func(context.Context, []string, map[string]string) (*cmdexec.Result, error) {
			return nil, fmt.Errorf("no such file or directory")
		})

		output := testutil.CaptureStdout(t, func() {
			PostUpgradeCheck(context.Background(), "python3", nil)
		})

		assert.Contains(t, output, "could not run pip check: no such file or directory")
		assert.Contains(t, output, "Verify the path exists")
	})
}
