package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/unboxed/snapshot"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the manifest of a snapshot",
		Long:  "Print the header and manifest of a snapshot without reading its columns. The checksum is not verified.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			m, err := snapshot.ReadManifest(cmd.Context(), f, a.readOptions()...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			printManifest(cmd.OutOrStdout(), m)
			return nil
		},
	}
}

func printManifest(w io.Writer, m *snapshot.Manifest) {
	label := color.New(color.Bold)
	_, _ = label.Fprint(w, "version:     ")
	_, _ = fmt.Fprintln(w, m.Version)
	_, _ = label.Fprint(w, "length:      ")
	_, _ = fmt.Fprintln(w, m.Length)
	_, _ = label.Fprint(w, "byte order:  ")
	_, _ = fmt.Fprintln(w, m.ByteOrder)
	_, _ = label.Fprint(w, "compression: ")
	_, _ = fmt.Fprintln(w, m.Compression)
	if m.Compression != snapshot.CompressionNone {
		_, _ = label.Fprint(w, "block size:  ")
		_, _ = fmt.Fprintln(w, m.BlockSize)
	}
	_, _ = label.Fprintf(w, "columns:     ")
	_, _ = fmt.Fprintln(w, len(m.Columns))

	kind := color.New(color.FgCyan)
	for i, c := range m.Columns {
		ratio := 1.0
		if c.Bytes > 0 {
			ratio = float64(c.Stored) / float64(c.Bytes)
		}
		_, _ = fmt.Fprintf(w, "  [%d] ", i)
		_, _ = kind.Fprintf(w, "%-10s", c.Kind)
		_, _ = fmt.Fprintf(w, " width=%d bytes=%d stored=%d (%.2f)\n", c.Width, c.Bytes, c.Stored, ratio)
	}
}
