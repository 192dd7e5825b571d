// Package storage wraps the S3-compatible object store that holds uploaded
// media binaries (sermon videos, event images, praise-song audio). Rows in
// the database reference objects by path only; public URLs are derived here
// on demand and never persisted.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/victorypower/church-backend/internal/config"
)

// ObjectStore is the narrow contract the upload pipeline and content service
// need from the object store. Implementations must be safe for concurrent
// use.
type ObjectStore interface {
	// Upload stores body under bucket/name and returns the stored object
	// path (the key the caller should persist).
	Upload(ctx context.Context, bucket, name string, body io.Reader, contentType string) (string, error)
	// Delete removes bucket/path. Used as the compensating action when a
	// metadata insert fails after a successful upload.
	Delete(ctx context.Context, bucket, path string) error
	// PublicURL resolves the externally reachable URL for bucket/path.
	PublicURL(bucket, path string) string
}

// S3Store implements ObjectStore against any S3-compatible endpoint
// (AWS S3, MinIO, or a managed store exposing the S3 API).
type S3Store struct {
	client        *s3.Client
	publicBaseURL string
}

// NewS3Store builds an S3 client from static credentials and a custom base
// endpoint, with path-style addressing for MinIO-style deployments.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Store{
		client:        client,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores body under bucket/name. The returned path equals name; it is
// what callers persist in the referencing row.
func (s *S3Store) Upload(ctx context.Context, bucket, name string, body io.Reader, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(name),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", bucket, name, err)
	}
	return name, nil
}

// Delete removes bucket/path from the store.
func (s *S3Store) Delete(ctx context.Context, bucket, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("delete object %s/%s: %w", bucket, path, err)
	}
	return nil
}

// PublicURL derives the externally reachable URL for bucket/path.
func (s *S3Store) PublicURL(bucket, path string) string {
	return s.publicBaseURL + "/" + bucket + "/" + strings.TrimLeft(path, "/")
}
