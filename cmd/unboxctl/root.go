package main

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/unboxed"
	"github.com/hupe1980/unboxed/resource"
	"github.com/hupe1980/unboxed/snapshot"
)

// app holds the state shared by every subcommand. It is populated by the
// root command's PersistentPreRunE.
type app struct {
	configPath string
	storeKind  string
	storePath  string
	noColor    bool

	cfg    config
	logger *unboxed.Logger
	rc     *resource.Controller
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "unboxctl",
		Short:         "Inspect and move unboxed snapshots",
		Long:          "unboxctl inspects, verifies and converts unboxed column snapshots and transfers them to and from blob stores.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a TOML config file")
	flags.StringVar(&a.storeKind, "store", "", "blob store (local|s3|minio), overrides store.kind")
	flags.StringVar(&a.storePath, "path", "", "root directory of the local store, overrides store.path")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newInspectCmd(a),
		newVerifyCmd(a),
		newConvertCmd(a),
		newPushCmd(a),
		newPullCmd(a),
		newListCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.storeKind != "" {
		cfg.Store.Kind = a.storeKind
	}
	if a.storePath != "" {
		cfg.Store.Path = a.storePath
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := cfg.logLevel()
	a.logger = unboxed.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if cfg.Resource.IOLimit > 0 {
		a.rc = resource.NewController(resource.Config{IOLimitBytesPerSec: cfg.Resource.IOLimit})
	}

	if a.noColor {
		color.NoColor = true
	}
	return nil
}

// readOptions are the snapshot options for decoding.
func (a *app) readOptions() []snapshot.Option {
	return []snapshot.Option{snapshot.WithIOController(a.rc)}
}

// writeOptions are the snapshot options for encoding with the configured
// compression and block size.
func (a *app) writeOptions() []snapshot.Option {
	c, _ := a.cfg.compression()
	return []snapshot.Option{
		snapshot.WithIOController(a.rc),
		snapshot.WithCompression(c),
		snapshot.WithBlockSize(a.cfg.Snapshot.BlockSize),
	}
}
