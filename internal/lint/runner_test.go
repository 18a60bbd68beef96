package lint

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecCommandRunner_ExitCodes(t *testing.T) {
	requireShell(t)
	r := NewExecCommandRunner("")

	tests := []struct {
		name     string
		script   string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{name: "clean exit", script: "echo ok", wantCode: 0, wantOut: "ok\n"},
		{name: "error exit", script: "echo bad; exit 2", wantCode: 2, wantOut: "bad\n"},
		{name: "stderr only", script: "echo oops >&2; exit 32", wantCode: 32, wantErr: "oops\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code, err := r.Run(context.Background(), "sh", []string{"-c", tt.script}, &stdout, &stderr)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, stdout.String())
			assert.Equal(t, tt.wantErr, stderr.String())
		})
	}
}

func TestExecCommandRunner_MissingBinary(t *testing.T) {
	r := NewExecCommandRunner("")
	var buf bytes.Buffer

	_, err := r.Run(context.Background(), "lintgate-no-such-linter", nil, &buf, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolNotFound), "got %v", err)

	_, err = r.Run(context.Background(), filepath.Join(t.TempDir(), "missing-pylint"), nil, &buf, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolNotFound), "got %v", err)
}

func TestExecCommandRunner_WorkDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.py"), nil, 0644))

	r := NewExecCommandRunner(dir)
	var stdout bytes.Buffer
	code, err := r.Run(context.Background(), "sh", []string{"-c", "ls"}, &stdout, &stdout)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "marker.py")
}

func TestInvoke_WithScriptLinter(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-pylint")
	body := "#!/bin/sh\n" +
		"for f in \"$@\"; do echo \"$f:1:0: E0001: Parsing failed (syntax-error)\"; done\n" +
		"exit 2\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0755))

	var stdout bytes.Buffer
	inv := &Invoker{
		Linter:         script,
		ErrorsOnly:     true,
		SuppressedRule: "print-statement",
		Runner:         NewExecCommandRunner(""),
		Stdout:         &stdout,
		Stderr:         &stdout,
	}

	result, err := inv.Invoke(context.Background(), []string{"bad.py"})
	var findingErr *LintFindingError
	require.ErrorAs(t, err, &findingErr)
	assert.Equal(t, 2, findingErr.ExitCode)
	require.NotNil(t, result)

	// Flags are passed through as positional parameters too.
	paths := make([]string, 0, len(result.Findings))
	for _, f := range result.Findings {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"--errors-only", "--disable=print-statement", "bad.py"}, paths)
}
