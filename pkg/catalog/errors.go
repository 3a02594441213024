package catalog

import "errors"

var (
	ErrNotFound        = errors.New("catalog: feature not found")
	ErrInvalidMeta     = errors.New("catalog: invalid feature metadata")
	ErrInvalidAliases  = errors.New("catalog: invalid alias table")
	ErrInvalidVariant  = errors.New("catalog: invalid source variant")
	ErrInvalidName     = errors.New("catalog: invalid feature name")
	ErrBackendFailure  = errors.New("catalog: backend operation failed")
	ErrCatalogNotFound = errors.New("catalog: catalog directory not found")

	// S3 specific
	ErrInvalidS3Config    = errors.New("catalog: invalid s3 configuration")
	ErrFailedToLoadConfig = errors.New("catalog: failed to load AWS config")
	ErrAccessDenied       = errors.New("catalog: access denied")
	ErrBucketNotFound     = errors.New("catalog: bucket not found")
)
