package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hupe1980/unboxed/snapshot"
)

type config struct {
	Snapshot snapshotConfig `toml:"snapshot"`
	Store    storeConfig    `toml:"store"`
	Resource resourceConfig `toml:"resource"`
	Log      logConfig      `toml:"log"`
}

type snapshotConfig struct {
	Compression string `toml:"compression"`
	BlockSize   int    `toml:"block_size"`
}

type storeConfig struct {
	Kind string `toml:"kind"`

	// local
	Path string `toml:"path"`

	// s3 and minio
	Bucket   string `toml:"bucket"`
	Prefix   string `toml:"prefix"`
	Endpoint string `toml:"endpoint"`

	// s3
	Region    string `toml:"region"`
	PathStyle bool   `toml:"path_style"`

	// minio
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Secure    bool   `toml:"secure"`
}

type resourceConfig struct {
	// IOLimit caps snapshot reads and writes in bytes per second.
	IOLimit int64 `toml:"io_limit"`
}

type logConfig struct {
	Level string `toml:"level"`
}

func defaultConfig() config {
	return config{
		Snapshot: snapshotConfig{
			Compression: "none",
			BlockSize:   snapshot.DefaultBlockSize,
		},
		Store: storeConfig{
			Kind: "local",
			Path: ".",
		},
		Log: logConfig{Level: "warn"},
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
	}
	if err := cfg.validate(); err != nil {
		return config{}, fmt.Errorf("%s: %w", displayPath(path), err)
	}
	return cfg, nil
}

func displayPath(path string) string {
	if path == "" {
		return "config"
	}
	return path
}

func (c config) validate() error {
	if _, err := c.compression(); err != nil {
		return err
	}
	if c.Snapshot.BlockSize <= 0 {
		return errors.New("snapshot.block_size must be positive")
	}
	if c.Resource.IOLimit < 0 {
		return errors.New("resource.io_limit must not be negative")
	}
	if _, err := c.logLevel(); err != nil {
		return err
	}
	switch c.Store.Kind {
	case "local":
	case "s3", "minio":
		if c.Store.Bucket == "" {
			return fmt.Errorf("store.bucket is required for %s", c.Store.Kind)
		}
		if c.Store.Kind == "minio" && c.Store.Endpoint == "" {
			return errors.New("store.endpoint is required for minio")
		}
	default:
		return fmt.Errorf("unsupported store kind %q (must be local, s3 or minio)", c.Store.Kind)
	}
	return nil
}

func (c config) compression() (snapshot.Compression, error) {
	return snapshot.ParseCompression(c.Snapshot.Compression)
}

func (c config) logLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
