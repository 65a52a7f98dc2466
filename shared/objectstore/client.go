package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds object-storage connection configuration
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicBaseURL overrides the endpoint when building public URLs,
	// e.g. a CDN or reverse proxy in front of the store
	PublicBaseURL string
}

// Client represents an S3-compatible object-storage client
type Client struct {
	mc     *minio.Client
	config *Config
	logger *slog.Logger
}

// NewClient creates a new object-storage client and ensures the configured
// bucket exists with a public-read policy, so public URLs resolve
// immediately after upload.
func NewClient(config *Config, logger *slog.Logger) (*Client, error) {
	if config == nil || config.Endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint is required")
	}

	mc, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	client := &Client{
		mc:     mc,
		config: config,
		logger: logger,
	}

	if err := client.ensureBucket(); err != nil {
		return nil, err
	}

	logger.Info("Object storage ready",
		slog.String("endpoint", config.Endpoint),
		slog.String("bucket", config.Bucket),
	)

	return client, nil
}

// ensureBucket creates the bucket if missing and applies a download policy
// to fresh buckets.
func (c *Client) ensureBucket() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := c.mc.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, existsErr := c.mc.BucketExists(ctx, c.config.Bucket)
		if existsErr != nil || !exists {
			return fmt.Errorf("failed to ensure bucket %q: %w", c.config.Bucket, err)
		}
		return nil
	}

	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, c.config.Bucket)
	if err := c.mc.SetBucketPolicy(ctx, c.config.Bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy on %q: %w", c.config.Bucket, err)
	}

	return nil
}

// Upload stores data under the given key with the given content type.
func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.mc.PutObject(ctx, c.config.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %q: %w", key, err)
	}

	c.logger.Debug("Object uploaded",
		slog.String("key", key),
		slog.Int("size", len(data)),
		slog.String("content_type", contentType),
	)

	return nil
}

// PublicURL returns the stable, internet-reachable URL of a stored object.
// The bucket carries a public-read policy, so no signing is involved.
func (c *Client) PublicURL(key string) string {
	base := c.config.PublicBaseURL
	if base == "" {
		base = c.mc.EndpointURL().String()
	}
	return strings.TrimRight(base, "/") + "/" + c.config.Bucket + "/" + key
}

// HealthCheck verifies the store is reachable and the bucket exists.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	exists, err := c.mc.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return fmt.Errorf("object storage health check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("object storage bucket %q does not exist", c.config.Bucket)
	}

	return nil
}
