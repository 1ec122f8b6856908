// Package storage archives exported reports in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/haccp/backend/internal/application/costing"
	"github.com/haccp/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ costing.ReportArchive = (*S3ReportArchive)(nil)

const defaultDownloadTTL = 15 * time.Minute

// S3ReportArchive stores rendered reports in a bucket and presigns GET links.
// Works with AWS S3, MinIO, RustFS and other S3-compatible servers.
type S3ReportArchive struct {
	client      *s3.Client
	presign     *s3.PresignClient
	bucket      string
	downloadTTL time.Duration
	logger      *zap.Logger
}

// Option configures an S3ReportArchive
type Option func(*S3ReportArchive)

// WithLogger sets the archive logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *S3ReportArchive) {
		a.logger = logger
	}
}

// NewS3ReportArchive builds an archive from storage configuration
func NewS3ReportArchive(ctx context.Context, cfg config.StorageConfig, opts ...Option) (*S3ReportArchive, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	var endpoint string
	if cfg.Endpoint != "" {
		endpoint = cfg.Endpoint
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	a := &S3ReportArchive{
		client:      client,
		presign:     s3.NewPresignClient(client),
		bucket:      cfg.Bucket,
		downloadTTL: cfg.DownloadTTL,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.downloadTTL <= 0 {
		a.downloadTTL = defaultDownloadTTL
	}
	return a, nil
}

// Bucket returns the bucket name
func (a *S3ReportArchive) Bucket() string {
	return a.bucket
}

// EnsureBucket creates the bucket when it is missing
func (a *S3ReportArchive) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	a.logger.Info("Creating report bucket", zap.String("bucket", a.bucket))
	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.bucket)})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// PutObject uploads body under key
func (a *S3ReportArchive) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	a.logger.Debug("Report archived", zap.String("key", key), zap.Int("bytes", len(body)))
	return nil
}

// PresignDownload returns a time-limited GET URL for key. A non-positive
// expiresIn falls back to the configured download TTL.
func (a *S3ReportArchive) PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = a.downloadTTL
	}
	req, err := a.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, time.Now().Add(expiresIn), nil
}

// DeleteObject removes key from the bucket
func (a *S3ReportArchive) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	if _, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
