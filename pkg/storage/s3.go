package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"postbox-backend/internal/email/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MessageKey is the content key under which a message's HTML body is stored.
func MessageKey(messageID string) string {
	return "message-" + messageID
}

// S3LinkStore implements domain.LinkStore on top of an S3 bucket, minting
// presigned GET URLs as signed read links.
type S3LinkStore struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// NewS3LinkStore builds a link store from the ambient AWS credential chain.
func NewS3LinkStore(ctx context.Context, bucket, region string) (*S3LinkStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3LinkStore{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}, nil
}

func (s *S3LinkStore) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("%w: key %s: %v", domain.ErrStorageWrite, key, err)
	}
	return nil
}

func (s *S3LinkStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: key %s: %v", domain.ErrStorageRead, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: key %s: %v", domain.ErrStorageRead, key, err)
	}
	return data, nil
}

func (s *S3LinkStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", fmt.Errorf("%w: key %s: %v", domain.ErrStorageRead, key, err)
	}
	return req.URL, nil
}
