// Package media stores uploaded course files in an S3-compatible bucket.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "github.com/learnhub/elearning-api/internal/config"
)

// Store puts an object and returns the URL it can be fetched from.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Store struct {
	client   putObjectAPI
	bucket   string
	endpoint string
}

// NewS3Store builds a path-style client so MinIO endpoints work unchanged.
func NewS3Store(ctx context.Context, cfg appconfig.S3Config) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
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
		o.UsePathStyle = true
	})

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, endpoint: strings.TrimRight(endpoint, "/")}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.endpoint + "/" + s.bucket + "/" + key, nil
}

// CourseKey names a new object for a course upload, keeping the original
// file extension.
func CourseKey(courseID, filename string) string {
	return fmt.Sprintf("courses/%s/%s%s", courseID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
}
