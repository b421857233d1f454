package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository stores messages in the relational database. The
// mongo package offers a document-store alternative.
func NewMessageRepository(db *gorm.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	ensureID(&msg.ID)
	return translate(r.db.WithContext(ctx).Create(msg).Error)
}

func (r *messageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	var msg domain.Message
	if err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}

func (r *messageRepository) Conversation(ctx context.Context, a, b uuid.UUID, limit int) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, translate(err)
}

func (r *messageRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return affected(r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true))
}

func (r *messageRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, translate(err)
}
