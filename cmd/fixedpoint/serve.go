package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gofixedpoint/internal/config"
	"github.com/njchilds90/gofixedpoint/internal/logging"
	"github.com/njchilds90/gofixedpoint/internal/metrics"
	"github.com/njchilds90/gofixedpoint/internal/server"
)

type ServeFlags struct {
	ConfigFile string
	Listen     string
	LogLevel   string
	LogJSON    bool
}

// loadConfig reads the config file and applies flag overrides on top.
func (f *ServeFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.ConfigFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("listen") {
		cfg.Listen = f.Listen
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = f.LogLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = f.LogJSON
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func NewCmdServe(errout io.Writer) *cobra.Command {
	flags := &ServeFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /fixed_point over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(c)
			if err != nil {
				return err
			}
			logger := logging.New(logging.Config{
				Level:  cfg.LogLevel(),
				Output: errout,
				JSON:   cfg.Log.JSON,
			})
			logger.Info("starting", "listen", cfg.Listen, "config", flags.ConfigFile)
			return server.New(cfg, logger, metrics.New()).Run(c.Context())
		},
	}

	cmd.Flags().StringVarP(&flags.ConfigFile, "config", "c", "", "path to an .hcl or .json config file")
	cmd.Flags().StringVar(&flags.Listen, "listen", config.DefaultListen, "address to listen on")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&flags.LogJSON, "log-json", false, "emit JSON log lines")

	return cmd
}
