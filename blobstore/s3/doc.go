// Package s3 stores snapshots in Amazon S3 or an S3-compatible service.
//
//	store, err := s3.New(ctx, "columns",
//	    s3.WithPrefix("prod/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	if err != nil {
//	    return err
//	}
//	err = snapshot.Publish(ctx, store, "prices.ubx", v)
//
// Small snapshots are written with a single PutObject carrying a CRC32C
// checksum; larger ones go through the multipart uploader. Blob reads are
// ranged GetObject calls, so snapshot.ReadManifest only transfers the header.
package s3
