package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gofixedpoint/internal/config"
)

func NewCmdConfig(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect service configuration files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "default",
		Short: "Print the default configuration as HCL",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			_, err := out.Write(config.Default().HCL())
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check FILE",
		Short: "Validate a configuration file and print it with defaults filled in",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "# %s: ok\n", args[0])
			_, err = out.Write(cfg.HCL())
			return err
		},
	})

	return cmd
}
