package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/gridstore/pkg/config"
	"github.com/ajitpratap0/gridstore/pkg/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "gridstore.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Newf(errors.ErrorTypeConfig, "%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, config.NewEngineConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			c := a.cfg
			fmt.Fprintf(out, "storage: initial_capacity=%d text_pool_size=%d date_pool_size=%d immediate_data=%t\n",
				c.Storage.InitialCapacity, c.Storage.TextPoolSize, c.Storage.DatePoolSize, c.Storage.ImmediateData)
			fmt.Fprintf(out, "logging: level=%s encoding=%s development=%t\n",
				c.Logging.Level, c.Logging.Encoding, c.Logging.Development)
			fmt.Fprintf(out, "metrics: enabled=%t namespace=%s\n", c.Metrics.Enabled, c.Metrics.Namespace)
			fmt.Fprintf(out, "export: format=%s compression=%s\n", c.Export.Format, c.Export.Compression)
			return nil
		},
	})
	return cmd
}
