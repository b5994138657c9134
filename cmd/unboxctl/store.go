package main

import (
	"context"
	"fmt"

	"github.com/hupe1980/unboxed/blobstore"
	"github.com/hupe1980/unboxed/blobstore/minio"
	"github.com/hupe1980/unboxed/blobstore/s3"
)

func openStore(ctx context.Context, cfg storeConfig) (blobstore.BlobStore, error) {
	switch cfg.Kind {
	case "local":
		return blobstore.NewLocalStore(cfg.Path), nil
	case "s3":
		opts := []s3.Option{s3.WithPrefix(cfg.Prefix)}
		if cfg.Region != "" {
			opts = append(opts, s3.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.Endpoint))
		}
		if cfg.PathStyle {
			opts = append(opts, s3.WithPathStyle())
		}
		return s3.New(ctx, cfg.Bucket, opts...)
	case "minio":
		return minio.Connect(ctx, minio.Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Secure:    cfg.Secure,
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
		})
	default:
		return nil, fmt.Errorf("unsupported store kind %q", cfg.Kind)
	}
}
