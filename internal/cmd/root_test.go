package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/lintgate/internal/gate"
	"github.com/harrison/lintgate/internal/lint"
)

// project is a temp dir holding pepnet/ and test/, a fake linter script
// and a config file pointing at all three.
type project struct {
	dir    string
	config string
}

func newProject(t *testing.T, linterScript string) *project {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake linter is a shell script")
	}

	dir := t.TempDir()
	for _, rel := range []string{"pepnet/core.py", "pepnet/sub/util.py", "test/test_core.py"} {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))
	}

	linter := filepath.Join(dir, "fake-pylint")
	require.NoError(t, os.WriteFile(linter, []byte("#!/bin/sh\n"+linterScript), 0755))

	configPath := filepath.Join(dir, "lintgate.yaml")
	yaml := fmt.Sprintf(`roots:
  - %s
  - %s
linter: %s
`, filepath.Join(dir, "pepnet"), filepath.Join(dir, "test"), linter)
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0644))

	return &project{dir: dir, config: configPath}
}

func execute(args ...string) (string, string, error) {
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := execute("--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "lintgate")
	assert.Contains(t, stdout, "pylint")
	assert.Contains(t, stdout, "history")
}

func TestRootCommand_RejectsPositionalArgs(t *testing.T) {
	_, _, err := execute("pepnet")
	assert.Error(t, err)
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	_, _, err := execute("--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, gate.ExitFailure, gate.ExitCode(err))
}

func TestRootCommand_Pass(t *testing.T) {
	p := newProject(t, "echo \"$@\" > \"$(dirname \"$0\")/args.txt\"\nexit 0\n")

	stdout, _, err := execute("--config", p.config)
	require.NoError(t, err)
	assert.Equal(t, "Passes pylint check\n", stdout)

	args, err := os.ReadFile(filepath.Join(p.dir, "args.txt"))
	require.NoError(t, err)
	want := strings.Join([]string{
		"--errors-only",
		"--disable=print-statement",
		filepath.Join(p.dir, "pepnet", "core.py"),
		filepath.Join(p.dir, "pepnet", "sub", "util.py"),
		filepath.Join(p.dir, "test", "test_core.py"),
	}, " ")
	assert.Equal(t, want+"\n", string(args))
}

func TestRootCommand_FindingsFail(t *testing.T) {
	p := newProject(t, "echo \"$3:1:0: E0602: Undefined variable 'y' (undefined-variable)\"\nexit 2\n")

	stdout, _, err := execute("--config", p.config)
	require.Error(t, err)
	assert.True(t, lint.IsLintFindingError(err))
	assert.Equal(t, 2, gate.ExitCode(err))
	assert.Contains(t, stdout, "E0602", "linter diagnostics stream to stdout")
	assert.NotContains(t, stdout, "Passes pylint check")
}

func TestRootCommand_MissingRoot(t *testing.T) {
	p := newProject(t, "exit 0\n")
	require.NoError(t, os.RemoveAll(filepath.Join(p.dir, "pepnet")))

	stdout, stderr, err := execute("--config", p.config)
	require.Error(t, err)
	assert.True(t, lint.IsDiscoveryError(err))
	assert.Equal(t, 1, gate.ExitCode(err))
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "[ERROR]")
}

func TestRootCommand_LinterMissing(t *testing.T) {
	p := newProject(t, "exit 0\n")
	require.NoError(t, os.Remove(filepath.Join(p.dir, "fake-pylint")))

	_, _, err := execute("--config", p.config)
	require.Error(t, err)
	assert.Equal(t, gate.ExitToolNotFound, gate.ExitCode(err))
}

func TestRootCommand_InvalidLogLevelFlag(t *testing.T) {
	p := newProject(t, "exit 0\n")

	_, _, err := execute("--config", p.config, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRootCommand_ReportLogAndHistory(t *testing.T) {
	p := newProject(t, "exit 0\n")
	reportPath := filepath.Join(p.dir, "out", "last-run.json")
	logDir := filepath.Join(p.dir, "logs")
	dbPath := filepath.Join(p.dir, "history.db")

	cfg := p.config
	f, err := os.OpenFile(cfg, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = fmt.Fprintf(f, "history:\n  enabled: true\n  db_path: %s\n", dbPath)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	stdout, stderr, err := execute("--config", cfg, "--report", reportPath, "--log-dir", logDir, "--log-level", "info")
	require.NoError(t, err)
	assert.Equal(t, "Passes pylint check\n", stdout)
	assert.Contains(t, stderr, "PASSED: 3 files")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "PASSED", summary["status"])

	_, err = os.Lstat(filepath.Join(logDir, "latest.log"))
	assert.NoError(t, err)

	stdout, _, err = execute("history", "--config", cfg, "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 of 1 runs passed.")
	assert.Contains(t, stdout, "| PASSED | 0 | 3 | 0 |")
}
