package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supacoach/coach-api/internal/config"
)

func newTestStorage(t *testing.T) *s3Storage {
	t.Helper()
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		BucketName:      "photos",
		PresignExpiry:   10 * time.Minute,
	}, nil)
	require.NoError(t, err)
	return fs.(*s3Storage)
}

func TestPresignUploadIsPathStyle(t *testing.T) {
	s := newTestStorage(t)
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	raw, expiresAt, err := s.PresignUpload(context.Background(), "progress/a/b/c", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(10*time.Minute), expiresAt)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/photos/progress/a/b/c", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
}

func TestPresignDownload(t *testing.T) {
	s := newTestStorage(t)
	raw, err := s.PresignDownload(context.Background(), "progress/a/b/c")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "http://localhost:9000/photos/progress/a/b/c?"))
}

type fakeDeleter struct {
	key string
	err error
}

func (f *fakeDeleter) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.key = aws.ToString(params.Key)
	return &s3.DeleteObjectOutput{}, f.err
}

func TestDeleteObject(t *testing.T) {
	s := newTestStorage(t)
	fake := &fakeDeleter{}
	s.client = fake

	require.NoError(t, s.DeleteObject(context.Background(), "progress/x"))
	assert.Equal(t, "progress/x", fake.key)

	fake.err = errors.New("boom")
	assert.Error(t, s.DeleteObject(context.Background(), "progress/x"))
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{Region: "us-east-1"}, nil)
	assert.Error(t, err)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "https://s3.example.com", endpointURL("s3.example.com", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
}

func TestCheckKey(t *testing.T) {
	clientID, logID := uuid.New(), uuid.New()
	prefix := ProgressPhotoPrefix(clientID, logID)

	assert.NoError(t, CheckKey(NewProgressPhotoKey(clientID, logID), prefix))
	assert.ErrorIs(t, CheckKey(prefix, prefix), ErrInvalidKey)
	assert.ErrorIs(t, CheckKey(prefix+"a/b", prefix), ErrInvalidKey)
	assert.ErrorIs(t, CheckKey(ProgressPhotoPrefix(clientID, uuid.New())+"x", prefix), ErrInvalidKey)
}
