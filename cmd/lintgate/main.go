package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/harrison/lintgate/internal/cmd"
	"github.com/harrison/lintgate/internal/gate"
	"github.com/harrison/lintgate/internal/lint"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.NewRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitStatus(err, os.Stderr))
}

// exitStatus prints err to stderr and returns the process exit code.
// Finding errors are not printed: the linter already wrote its diagnostics.
func exitStatus(err error, stderr io.Writer) int {
	if err != nil && !lint.IsLintFindingError(err) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return gate.ExitCode(err)
}
