package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between a coach and one of their clients.
type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"senderId"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipientId"`
	Content     string    `gorm:"not null" json:"content"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

type MessageInput struct {
	RecipientID uuid.UUID `json:"recipientId" binding:"required"`
	Content     string    `json:"content" binding:"required,min=1,max=5000"`
}
