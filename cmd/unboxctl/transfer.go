package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/unboxed/blobstore"
	"github.com/hupe1980/unboxed/snapshot"
)

func newPushCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "push <file> [name]",
		Short: "Verify a snapshot and upload it to the store",
		Long:  "Verify a local snapshot and store it under name (the file's base name by default).",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := filepath.Base(args[0])
			if len(args) > 1 {
				name = args[1]
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			m, err := snapshot.Verify(ctx, bytes.NewReader(data), a.readOptions()...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			store, err := openStore(ctx, a.cfg.Store)
			if err != nil {
				return err
			}
			if err := store.Put(ctx, name, data); err != nil {
				return fmt.Errorf("push %s: %w", name, err)
			}

			a.logger.Info("pushed snapshot", "store", a.cfg.Store.Kind, "name", name, "bytes", len(data), "length", m.Length)
			_, _ = color.New(color.FgGreen).Fprint(cmd.OutOrStdout(), "pushed")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), " %s (%d bytes)\n", name, len(data))
			return nil
		},
	}
}

func newPullCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pull <name> [file]",
		Short: "Download a snapshot from the store and verify it",
		Long:  "Download the snapshot stored under name, verify it, and write it to file (the name's base by default).",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			path := filepath.Base(name)
			if len(args) > 1 {
				path = args[1]
			}

			store, err := openStore(ctx, a.cfg.Store)
			if err != nil {
				return err
			}
			blob, err := store.Open(ctx, name)
			if err != nil {
				return fmt.Errorf("pull %s: %w", name, err)
			}
			data, err := blobstore.ReadAll(ctx, blob)
			_ = blob.Close()
			if err != nil {
				return fmt.Errorf("pull %s: %w", name, err)
			}

			m, err := snapshot.Verify(ctx, bytes.NewReader(data), a.readOptions()...)
			if err != nil {
				return fmt.Errorf("pull %s: %w", name, err)
			}

			err = writeFileAtomic(path, func(f *os.File) error {
				_, err := f.Write(data)
				return err
			})
			if err != nil {
				return err
			}

			a.logger.Info("pulled snapshot", "store", a.cfg.Store.Kind, "name", name, "bytes", len(data), "length", m.Length)
			_, _ = color.New(color.FgGreen).Fprint(cmd.OutOrStdout(), "pulled")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), " %s -> %s\n", name, path)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [prefix]",
		Short: "List snapshots in the store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}

			store, err := openStore(ctx, a.cfg.Store)
			if err != nil {
				return err
			}
			names, err := store.List(ctx, prefix)
			if err != nil {
				return err
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
