// Package appshell wires a command's run function to the process.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ExitInterrupted is returned when a signal cancels an otherwise successful
// run.
const ExitInterrupted = 130

// Main runs run with a context cancelled on SIGINT or SIGTERM and exits
// with its code.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	argv := os.Args[1:]
	if len(argv) == 0 {
		argv = []string{"-h"}
	}

	code := run(ctx, argv, os.Stdout, os.Stderr)
	if ctx.Err() != nil && code == 0 {
		code = ExitInterrupted
	}

	stop()
	os.Exit(code)
}
