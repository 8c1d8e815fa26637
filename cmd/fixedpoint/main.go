// Command fixedpoint solves f(x) = 0 by fixed-point iteration, either once
// from the command line or as an HTTP service.
//
// Usage:
//
//	fixedpoint solve --equation "x**2 - 2" --guess 1
//	fixedpoint serve --config fixedpoint.hcl
//	fixedpoint config default > fixedpoint.hcl
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewCmdRoot(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// NewCmdRoot builds the command tree writing to out and errout.
func NewCmdRoot(out, errout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fixedpoint",
		Short:         "Find roots of f(x) = 0 by fixed-point iteration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errout)

	cmd.AddCommand(
		NewCmdSolve("fixedpoint", out, errout),
		NewCmdServe(errout),
		NewCmdConfig(out),
	)
	return cmd
}
