package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/commands"
	"github.com/cleared-dev/tally/internal/config"
)

// isolateEnv clears TALLY_* variables for the duration of the test so
// neither the caller's environment nor a loaded .env leaks between tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvBackend, config.EnvPath, config.EnvKey,
		config.EnvCurrency, config.EnvFlashMS, config.EnvLogLevel,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// runTallyInput executes the root command in-process with stdin and
// returns stdout and stderr.
func runTallyInput(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func runTally(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runTallyInput(t, "", args...)
	return out, err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := runTallyInput(t, "", args...)
	require.NoError(t, err, "tally %v\nstdout:\n%s\nstderr:\n%s", args, out, stderr)
	return out
}

// addedID extracts the transaction ID from an "Added <id>: ..." line.
func addedID(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "Added "); ok {
			txID, _, found := strings.Cut(rest, ":")
			require.True(t, found, "malformed line %q", line)
			return txID
		}
	}
	require.Failf(t, "no Added line", "output:\n%s", out)
	return ""
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	log := exec.Command("git", "log", "--format="+format)
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	return string(out)
}
