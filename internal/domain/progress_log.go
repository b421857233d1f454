package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProgressLog is a dated body measurement entry of a client.
type ProgressLog struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID          uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`
	Date              Date      `gorm:"not null" json:"date"`
	Weight            *float64  `json:"weight,omitempty"`
	BodyFatPercentage *float64  `json:"bodyFatPercentage,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Photos []ProgressPhoto `gorm:"foreignKey:ProgressLogID" json:"photos,omitempty"`
}

type ProgressLogInput struct {
	ClientID          uuid.UUID `json:"clientId" binding:"required"`
	Date              Date      `json:"date" binding:"required"`
	Weight            *float64  `json:"weight" binding:"omitempty,gt=0"`
	BodyFatPercentage *float64  `json:"bodyFatPercentage" binding:"omitempty,min=0,max=100"`
	Notes             string    `json:"notes" binding:"omitempty,max=2000"`
}

type ProgressLogPatch struct {
	Date              *Date    `json:"date"`
	Weight            *float64 `json:"weight" binding:"omitempty,gt=0"`
	BodyFatPercentage *float64 `json:"bodyFatPercentage" binding:"omitempty,min=0,max=100"`
	Notes             *string  `json:"notes" binding:"omitempty,max=2000"`
}

func (p ProgressLogPatch) Changes() map[string]any {
	changes := map[string]any{}
	if p.Date != nil {
		changes["date"] = *p.Date
	}
	if p.Weight != nil {
		changes["weight"] = *p.Weight
	}
	if p.BodyFatPercentage != nil {
		changes["body_fat_percentage"] = *p.BodyFatPercentage
	}
	if p.Notes != nil {
		changes["notes"] = *p.Notes
	}
	return changes
}

// ProgressPhoto stores metadata about a photo attached to a progress log.
// The file itself lives in object storage.
type ProgressPhoto struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProgressLogID uuid.UUID `gorm:"type:uuid;not null;index" json:"progressLogId"`
	ClientID      uuid.UUID `gorm:"type:uuid;not null" json:"clientId"`
	ObjectKey     string    `gorm:"uniqueIndex;not null" json:"-"` // internal use
	FileName      string    `json:"fileName"`
	ContentType   string    `json:"contentType"`
	Size          int64     `json:"size"`
	UploadedAt    time.Time `json:"uploadedAt"`

	DownloadURL string `gorm:"-" json:"downloadUrl,omitempty"` // generated per request, not stored
}

// PhotoUploadRequest is what a caller sends to obtain an upload URL.
type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required,startswith=image/"`
}

// PhotoUploadTicket is returned with a presigned PUT URL.
type PhotoUploadTicket struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PhotoConfirmation records a finished direct upload.
type PhotoConfirmation struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required,startswith=image/"`
	Size        int64  `json:"size" binding:"required,gt=0"`
}
