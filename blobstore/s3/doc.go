// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	client := s3.NewFromConfig(cfg)
//	store := s3blob.NewStore(client, "my-bucket", "dictionaries/ipadic/")
//
//	loader, err := dictload.New(dictload.WithSource(store))
//
// # Features
//
//   - Whole-object downloads through the s3 transfer manager (parallel parts)
//   - Range reads for Blob.ReadAt
//   - Configurable prefix for multi-tenant isolation
package s3
