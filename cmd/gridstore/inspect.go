package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/gridstore/internal/loader"
	"github.com/ajitpratap0/gridstore/internal/table"
	"github.com/ajitpratap0/gridstore/pkg/errors"
)

func newInspectCmd(a *app) *cobra.Command {
	var comma string
	var sample int

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Load a delimited file and report how each column is stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.loaderOptions(comma, sample)
			if err != nil {
				return err
			}
			tbl, err := loader.LoadFile(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return a.report(cmd.OutOrStdout(), tbl)
		},
	}
	addLoaderFlags(cmd, &comma, &sample)
	return cmd
}

func addLoaderFlags(cmd *cobra.Command, comma *string, sample *int) {
	cmd.Flags().StringVar(comma, "delimiter", ",", "Field delimiter")
	cmd.Flags().IntVar(sample, "sample", loader.DefaultOptions().SampleSize, "Non-empty cells per column used for type inference")
}

func (a *app) loaderOptions(comma string, sample int) (loader.Options, error) {
	opts := loader.DefaultOptions()
	opts.Storage = a.cfg.Storage.StorageOptions()
	opts.SampleSize = sample
	runes := []rune(comma)
	if len(runes) != 1 {
		return opts, errors.Newf(errors.ErrorTypeConfig, "delimiter must be a single character, got %q", comma)
	}
	opts.Comma = runes[0]
	return opts, nil
}

func (a *app) report(out io.Writer, tbl *table.Table) error {
	stats, err := tbl.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Table %s: %d rows, %d columns\n\n", tbl.Name(), tbl.Rows(), len(stats))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tROWS\tERRORS\tRUNG")
	for _, s := range stats {
		rung := s.Rung
		if rung == "" {
			rung = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", s.Name, s.Type, s.Rows, s.Errors, rung)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if rss, err := residentMemory(); err == nil {
		fmt.Fprintf(out, "\nProcess RSS: %.1f MiB\n", float64(rss)/(1<<20))
	}

	if a.collector != nil {
		fmt.Fprintln(out, "\nMetrics:")
		all := a.collector.GetAll()
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %s = %g\n", k, all[k])
		}
	}
	return nil
}

func residentMemory() (uint64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}
