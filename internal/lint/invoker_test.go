package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"testing"
)

// FakeCommandRunner implements CommandRunner for testing
type FakeCommandRunner struct {
	stdout   string
	stderr   string
	exitCode int
	runErr   error
	lookErr  error
	calls    [][]string
}

// Run records the invocation and replays the configured output
func (f *FakeCommandRunner) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error) {
	f.calls = append(f.calls, append([]string{name}, args...))

	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	if f.runErr != nil {
		return 0, f.runErr
	}

	io.WriteString(stdout, f.stdout)
	io.WriteString(stderr, f.stderr)
	return f.exitCode, nil
}

// LookPath succeeds unless lookErr is set
func (f *FakeCommandRunner) LookPath(name string) (string, error) {
	if f.lookErr != nil {
		return "", f.lookErr
	}
	return "/usr/bin/" + name, nil
}

func TestInvokerArgs(t *testing.T) {
	tests := []struct {
		name string
		inv  Invoker
		in   []string
		want []string
	}{
		{
			name: "both flags",
			inv:  Invoker{ErrorsOnly: true, SuppressedRule: "print-statement"},
			in:   []string{"pepnet/a.py", "test/test_a.py"},
			want: []string{"--errors-only", "--disable=print-statement", "pepnet/a.py", "test/test_a.py"},
		},
		{
			name: "errors only",
			inv:  Invoker{ErrorsOnly: true},
			in:   []string{"a.py"},
			want: []string{"--errors-only", "a.py"},
		},
		{
			name: "no flags",
			inv:  Invoker{},
			in:   []string{"a.py"},
			want: []string{"a.py"},
		},
		{
			name: "no files",
			inv:  Invoker{ErrorsOnly: true, SuppressedRule: "x"},
			in:   nil,
			want: []string{"--errors-only", "--disable=x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.inv.Args(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvoke_Success(t *testing.T) {
	runner := &FakeCommandRunner{stdout: "\n"}
	var out, errOut bytes.Buffer
	inv := &Invoker{
		Linter:         "pylint",
		ErrorsOnly:     true,
		SuppressedRule: "print-statement",
		Runner:         runner,
		Stdout:         &out,
		Stderr:         &errOut,
	}

	result, err := inv.Invoke(context.Background(), []string{"a.py"})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !result.Passed() {
		t.Errorf("expected pass, got exit code %d", result.ExitCode)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(runner.calls))
	}
	want := []string{"pylint", "--errors-only", "--disable=print-statement", "a.py"}
	if !reflect.DeepEqual(runner.calls[0], want) {
		t.Errorf("call = %v, want %v", runner.calls[0], want)
	}
	if out.String() != "\n" {
		t.Errorf("stdout not streamed, got %q", out.String())
	}
}

func TestInvoke_FindingsPropagateExitCode(t *testing.T) {
	diag := "************* Module a\na.py:1:0: E0001: Parsing failed: 'invalid syntax (a, line 1)' (syntax-error)\n"
	runner := &FakeCommandRunner{stdout: diag, exitCode: 2}
	var out bytes.Buffer
	inv := &Invoker{Runner: runner, Stdout: &out, Stderr: io.Discard}

	result, err := inv.Invoke(context.Background(), []string{"a.py"})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}

	var findingErr *LintFindingError
	if !errors.As(err, &findingErr) {
		t.Fatalf("expected *LintFindingError, got %T", err)
	}
	if findingErr.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", findingErr.ExitCode)
	}
	if findingErr.Linter != DefaultLinter {
		t.Errorf("Linter = %s, want %s", findingErr.Linter, DefaultLinter)
	}
	if result == nil || result.ExitCode != 2 {
		t.Fatalf("expected result with exit code 2, got %+v", result)
	}
	if len(result.Findings) != 1 || result.Findings[0].Symbol != "syntax-error" {
		t.Errorf("Findings = %+v", result.Findings)
	}
	if out.String() != diag {
		t.Errorf("diagnostics not streamed: %q", out.String())
	}
}

func TestInvoke_ToolNotFound(t *testing.T) {
	runner := &FakeCommandRunner{runErr: &ToolNotFoundError{Linter: "pylint", Err: errors.New("executable file not found in $PATH")}}
	inv := &Invoker{Runner: runner, Stdout: io.Discard, Stderr: io.Discard}

	result, err := inv.Invoke(context.Background(), []string{"a.py"})
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}

func TestInvoke_RunFailureWrapped(t *testing.T) {
	runner := &FakeCommandRunner{runErr: fmt.Errorf("boom")}
	inv := &Invoker{Runner: runner, Stdout: io.Discard, Stderr: io.Discard}

	_, err := inv.Invoke(context.Background(), []string{"a.py"})
	if err == nil {
		t.Fatal("expected error")
	}
	if IsLintFindingError(err) {
		t.Error("launch failure must not be a finding error")
	}
}

func TestInvoke_CancelledContext(t *testing.T) {
	runner := &FakeCommandRunner{}
	inv := &Invoker{Runner: runner}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := inv.Invoke(ctx, []string{"a.py"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Error("runner should not be called with a cancelled context")
	}
}

func TestPreflight(t *testing.T) {
	ok := &Invoker{Linter: "pylint", Runner: &FakeCommandRunner{}}
	if err := ok.Preflight(); err != nil {
		t.Errorf("Preflight() error = %v", err)
	}

	missing := &Invoker{Linter: "pylint", Runner: &FakeCommandRunner{lookErr: errors.New("not found")}}
	err := missing.Preflight()
	var nf *ToolNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *ToolNotFoundError, got %v", err)
	}
	if nf.Linter != "pylint" {
		t.Errorf("Linter = %s, want pylint", nf.Linter)
	}
}

func TestLintFindingErrorMessage(t *testing.T) {
	tests := []struct {
		err  *LintFindingError
		want string
	}{
		{&LintFindingError{Linter: "pylint", ExitCode: 2}, "pylint exited with status 2"},
		{&LintFindingError{Linter: "pylint", ExitCode: 2, Findings: []Finding{{}}}, "pylint exited with status 2 (1 finding)"},
		{&LintFindingError{Linter: "pylint", ExitCode: 6, Findings: []Finding{{}, {}}}, "pylint exited with status 6 (2 findings)"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
