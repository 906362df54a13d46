package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/gridstore/internal/loader"
	"github.com/ajitpratap0/gridstore/pkg/compression"
	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/export"
	"github.com/ajitpratap0/gridstore/pkg/logger"
)

func newExportCmd(a *app) *cobra.Command {
	var out, format, algo, comma string
	var sample int

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Load a delimited file and write a snapshot as Arrow IPC or JSON lines",
		Long: `Load a delimited file and write a snapshot of the whole table.

Cells that failed to parse are written as nulls with their message in a
companion "<column>__error" field.

Example:
  gridstore export orders.csv --format arrow --compression zstd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.exportOptions(cmd, format, algo)
			if err != nil {
				return err
			}
			lopts, err := a.loaderOptions(comma, sample)
			if err != nil {
				return err
			}
			tbl, err := loader.LoadFile(cmd.Context(), args[0], lopts)
			if err != nil {
				return err
			}
			snap, err := tbl.Snapshot(0, tbl.Rows())
			if err != nil {
				return err
			}

			if out == "" {
				out = defaultOutput(args[0], opts)
			}
			f, err := os.Create(out)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "create output").WithDetail("path", out)
			}
			if err := export.Write(f, snap, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "close output").WithDetail("path", out)
			}
			logger.Info("snapshot exported",
				zap.String("path", out),
				zap.String("format", string(opts.Format)),
				zap.String("compression", string(opts.Compression)),
				zap.Int("rows", snap.Rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (defaults to the input name with the format extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format (arrow, json); defaults to the configuration")
	cmd.Flags().StringVar(&algo, "compression", "", "Compression (none, zstd, snappy, s2, lz4); defaults to the configuration")
	addLoaderFlags(cmd, &comma, &sample)
	return cmd
}

// exportOptions merges flags over the export configuration.
func (a *app) exportOptions(cmd *cobra.Command, format, algo string) (export.Options, error) {
	opts := export.DefaultOptions()
	if !cmd.Flags().Changed("format") {
		format = a.cfg.Export.Format
	}
	if !cmd.Flags().Changed("compression") {
		algo = a.cfg.Export.Compression
	}
	var err error
	if opts.Format, err = export.ParseFormat(format); err != nil {
		return opts, err
	}
	if opts.Compression, err = compression.ParseAlgorithm(algo); err != nil {
		return opts, err
	}
	return opts, nil
}

func defaultOutput(input string, opts export.Options) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + opts.Format.Extension() + opts.Compression.Extension()
}
