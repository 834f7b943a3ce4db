// Package storage archives raw marketplace responses in S3-compatible
// object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/erp/sale-ebay/internal/application/integration"
	"github.com/erp/sale-ebay/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const orderContentType = "application/xml"

var _ integration.OrderArchive = (*S3OrderArchive)(nil)

// S3OrderArchive stores GetOrders responses under
// <prefix>/<channel id>/<order id>.xml. It works with AWS S3 and
// S3-compatible servers such as MinIO.
type S3OrderArchive struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// S3OrderArchiveOption is a functional option for configuring S3OrderArchive
type S3OrderArchiveOption func(*S3OrderArchive)

// WithLogger sets a custom logger for S3OrderArchive
func WithLogger(logger *zap.Logger) S3OrderArchiveOption {
	return func(a *S3OrderArchive) {
		a.logger = logger
	}
}

// NewS3OrderArchive creates an archive from storage configuration. Without
// an access key the default AWS credential chain is used.
func NewS3OrderArchive(ctx context.Context, cfg *config.StorageConfig, opts ...S3OrderArchiveOption) (*S3OrderArchive, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if (cfg.AccessKey == "") != (cfg.SecretKey == "") {
		return nil, errors.New("storage access key and secret key must be set together")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	archive := &S3OrderArchive{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(archive)
	}
	return archive, nil
}

// normalizeEndpoint adds a scheme to a bare host. An empty endpoint means AWS.
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		return "", nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if useSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid storage endpoint %q", endpoint)
	}
	return endpoint, nil
}

// Key returns the object key of an order
func (a *S3OrderArchive) Key(channelID uuid.UUID, orderID string) string {
	name := url.PathEscape(orderID) + ".xml"
	if a.prefix == "" {
		return path.Join(channelID.String(), name)
	}
	return path.Join(a.prefix, channelID.String(), name)
}

// Store uploads raw, replacing any earlier copy of the same order.
func (a *S3OrderArchive) Store(ctx context.Context, channelID uuid.UUID, orderID string, raw []byte) error {
	if orderID == "" {
		return errors.New("order id is required")
	}
	key := a.Key(channelID, orderID)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(raw),
		ContentLength: aws.Int64(int64(len(raw))),
		ContentType:   aws.String(orderContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to archive order %s: %w", orderID, err)
	}

	a.logger.Debug("Archived eBay order",
		zap.String("bucket", a.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(raw)),
	)
	return nil
}

// Fetch returns an archived response. A missing object is reported as
// ErrObjectNotFound.
func (a *S3OrderArchive) Fetch(ctx context.Context, channelID uuid.UUID, orderID string) ([]byte, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.Key(channelID, orderID)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to fetch archived order %s: %w", orderID, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived order %s: %w", orderID, err)
	}
	return data, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (a *S3OrderArchive) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	a.logger.Info("Creating order archive bucket", zap.String("bucket", a.bucket))
	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Bucket returns the configured bucket name
func (a *S3OrderArchive) Bucket() string {
	return a.bucket
}

// ErrObjectNotFound is returned by Fetch for orders that were never archived
var ErrObjectNotFound = errors.New("archived order not found")
