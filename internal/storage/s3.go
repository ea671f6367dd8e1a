package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"uniapply/internal/config"
)

// S3Storage stores files in an S3-compatible bucket (AWS, DigitalOcean Spaces, MinIO).
type S3Storage struct {
	client   s3iface.S3API
	bucket   string
	endpoint string
	region   string
	cdnURL   string
}

// NewS3Storage creates an S3 client from static credentials.
func NewS3Storage(cfg config.S3Config) (*S3Storage, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}
	return newS3Storage(s3.New(sess), cfg), nil
}

func newS3Storage(client s3iface.S3API, cfg config.S3Config) *S3Storage {
	return &S3Storage{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://"),
		region:   cfg.Region,
		cdnURL:   strings.TrimSuffix(cfg.CDNURL, "/"),
	}
}

// Store uploads data as a public-read object and returns its URL.
func (s *S3Storage) Store(ctx context.Context, data io.Reader, filename, prefix string) (string, error) {
	key := GenerateKey(prefix, filename)

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        aws.ReadSeekCloser(data),
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
		ContentType: aws.String(ContentType(filename)),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.URL(key), nil
}

// URL returns the public URL of key, preferring the CDN when configured.
func (s *S3Storage) URL(key string) string {
	switch {
	case s.cdnURL != "":
		return fmt.Sprintf("%s/%s", s.cdnURL, key)
	case s.endpoint != "":
		return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpoint, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}
