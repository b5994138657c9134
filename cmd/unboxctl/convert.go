package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hupe1980/unboxed/snapshot"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		compression string
		blockSize   int
	)

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite a snapshot with different compression",
		Long:  "Decode a snapshot, verify it, and write it again with the requested compression and block size. Column data is not interpreted.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("compression") {
				a.cfg.Snapshot.Compression = compression
			}
			if cmd.Flags().Changed("block-size") {
				a.cfg.Snapshot.BlockSize = blockSize
			}
			if err := a.cfg.validate(); err != nil {
				return err
			}

			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			raw, err := snapshot.DecodeRaw(cmd.Context(), in, a.readOptions()...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			err = writeFileAtomic(args[1], func(f *os.File) error {
				return snapshot.EncodeRaw(cmd.Context(), f, raw, a.writeOptions()...)
			})
			if err != nil {
				return err
			}

			a.logger.Info("converted snapshot",
				"from", args[0],
				"to", args[1],
				"compression", a.cfg.Snapshot.Compression,
				"length", raw.Len(),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&compression, "compression", "none", "section compression (none|lz4|zstd)")
	cmd.Flags().IntVar(&blockSize, "block-size", snapshot.DefaultBlockSize, "uncompressed block size of compressed sections")
	return cmd
}

// writeFileAtomic writes path through a temporary file in the same directory
// and renames it into place once fn succeeds.
func writeFileAtomic(path string, fn func(*os.File) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".unboxctl-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := fn(tmp); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
