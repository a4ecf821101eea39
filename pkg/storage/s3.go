package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Storage uploads launch assets (token image, metadata document) to an
// S3 bucket and returns their public URLs.
type S3Storage struct {
	uploader *s3manager.Uploader
	bucket   string
}

// NewS3Storage builds an uploader from the environment (S3_BUCKET,
// AWS_REGION plus the standard AWS credential variables).
func NewS3Storage() (*S3Storage, error) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET environment variable is not set")
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Storage{
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
	}, nil
}

// Upload stores body under key and returns the object URL.
func (s *S3Storage) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return out.Location, nil
}
