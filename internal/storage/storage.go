// Package storage issues presigned object-store URLs for user uploads.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrInvalidKey = errors.New("object key outside the expected prefix")

// FileStorage is the object-store surface the services depend on. Bytes
// never pass through the API; clients upload and download through the
// presigned URLs directly.
type FileStorage interface {
	// PresignUpload returns a URL accepting a single PUT with contentType.
	PresignUpload(ctx context.Context, objectKey, contentType string) (string, time.Time, error)
	// PresignDownload returns a temporary GET URL.
	PresignDownload(ctx context.Context, objectKey string) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// ProgressPhotoPrefix is the key prefix every photo of a progress log lives under.
func ProgressPhotoPrefix(clientID, logID uuid.UUID) string {
	return "progress/" + clientID.String() + "/" + logID.String() + "/"
}

// NewProgressPhotoKey allocates a fresh key under ProgressPhotoPrefix.
func NewProgressPhotoKey(clientID, logID uuid.UUID) string {
	return ProgressPhotoPrefix(clientID, logID) + uuid.NewString()
}

// CheckKey rejects keys that do not sit directly under prefix.
func CheckKey(objectKey, prefix string) error {
	rest, ok := strings.CutPrefix(objectKey, prefix)
	if !ok || rest == "" || strings.Contains(rest, "/") || strings.Contains(rest, "..") {
		return ErrInvalidKey
	}
	return nil
}
