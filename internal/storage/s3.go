package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"supacoach/coach-api/internal/config"
	"supacoach/coach-api/internal/logger"
)

type deleter interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// s3Storage implements FileStorage on S3 or any S3-compatible service.
type s3Storage struct {
	client        deleter
	presignClient *s3.PresignClient
	bucketName    string
	expiry        time.Duration
	logg          *logger.Logger
	now           func() time.Time
}

// NewS3Storage builds the storage client. A configured endpoint switches to
// path-style addressing, which MinIO and most compatible services need.
func NewS3Storage(ctx context.Context, cfg config.S3Config, logg *logger.Logger) (FileStorage, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("s3.bucket_name is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config for s3: %w", err)
	}

	endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = DefaultPresignedURLExpiry
	}

	logg.Info(logg.WithFields(ctx, map[string]any{"endpoint": endpoint, "bucket": cfg.BucketName}), "storage.s3.ready")

	return &s3Storage{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucketName:    cfg.BucketName,
		expiry:        expiry,
		logg:          logg,
		now:           time.Now,
	}, nil
}

// endpointURL adds a scheme to bare host:port endpoints.
func endpointURL(endpoint string, useSSL bool) string {
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func (s *s3Storage) PresignUpload(ctx context.Context, objectKey, contentType string) (string, time.Time, error) {
	expiresAt := s.now().Add(s.expiry).UTC()
	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "object_key", objectKey), "storage.presign_put_failed", err)
		return "", time.Time{}, err
	}
	return req.URL, expiresAt, nil
}

func (s *s3Storage) PresignDownload(ctx context.Context, objectKey string) (string, error) {
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "object_key", objectKey), "storage.presign_get_failed", err)
		return "", err
	}
	return req.URL, nil
}

func (s *s3Storage) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "object_key", objectKey), "storage.delete_failed", err)
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "object_key", objectKey), "storage.deleted")
	return nil
}
