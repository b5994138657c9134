// Package minio provides a blobstore.BlobStore for MinIO and other
// S3-compatible object stores, built on minio-go.
//
//	store, err := minio.Connect(ctx, minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "snapshots",
//	})
package minio
