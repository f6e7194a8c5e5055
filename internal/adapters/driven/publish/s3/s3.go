// Package s3 publishes finalized bundles to an S3 bucket.
package s3

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
	"github.com/custodia-labs/aipsync/internal/logger"
)

// Ensure Publisher implements the interface.
var _ driven.Publisher = (*Publisher)(nil)

// PutObjectAPI is the subset of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads bundles to s3://<bucket>/<prefix><file name>.
type Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// New creates a publisher using the default AWS credential chain.
func New(ctx context.Context, bucket, prefix string) (*Publisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewWithClient(s3.NewFromConfig(cfg), bucket, prefix)
}

// NewWithClient creates a publisher using client.
func NewWithClient(client PutObjectAPI, bucket, prefix string) (*Publisher, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: empty bucket", domain.ErrInvalidInput)
	}
	return &Publisher{client: client, bucket: bucket, prefix: prefix}, nil
}

// Key returns the object key for the file at localPath.
func (p *Publisher) Key(localPath string) string {
	return path.Clean(p.prefix + filepath.Base(localPath))
}

// Publish uploads the file at localPath and returns its s3:// location.
func (p *Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	key := p.Key(localPath)
	location := fmt.Sprintf("s3://%s/%s", p.bucket, key)
	logger.Info("Publishing %q to %q", localPath, location)

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(domain.DocumentContentType),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", location, err)
	}
	return location, nil
}
