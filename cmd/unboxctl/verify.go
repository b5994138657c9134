package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/unboxed/snapshot"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>...",
		Short: "Check snapshot checksums and contents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				if err := verifyFile(cmd, a, path); err != nil {
					failed++
					_, _ = color.New(color.FgRed).Fprint(w, "FAIL")
					_, _ = fmt.Fprintf(w, " %s: %v\n", path, err)
					continue
				}
				_, _ = color.New(color.FgGreen).Fprint(w, "ok")
				_, _ = fmt.Fprintf(w, "   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d snapshots failed verification", failed, len(args))
			}
			return nil
		},
	}
}

func verifyFile(cmd *cobra.Command, a *app, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := snapshot.Verify(cmd.Context(), f, a.readOptions()...)
	if err != nil {
		return err
	}
	a.logger.Debug("verified snapshot", "path", path, "length", m.Length, "columns", len(m.Columns))
	return nil
}
