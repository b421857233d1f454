package service

import (
	"context"

	"github.com/google/uuid"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/repository"
)

const (
	DefaultConversationLimit = 50
	MaxConversationLimit     = 200
)

type MessageService interface {
	Send(ctx context.Context, actor domain.Actor, in domain.MessageInput) (*domain.Message, error)
	// Conversation returns the newest messages between the actor and other.
	Conversation(ctx context.Context, actor domain.Actor, other uuid.UUID, limit int) ([]domain.Message, error)
	MarkRead(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	UnreadCount(ctx context.Context, actor domain.Actor) (int64, error)
}

type messageService struct {
	messages repository.MessageRepository
	access   access
	logg     *logger.Logger
}

func NewMessageService(messages repository.MessageRepository, relationships repository.RelationshipRepository, logg *logger.Logger) MessageService {
	if logg == nil {
		logg = logger.Nop()
	}
	return &messageService{
		messages: messages,
		access:   access{relationships: relationships},
		logg:     logg,
	}
}

func (s *messageService) Send(ctx context.Context, actor domain.Actor, in domain.MessageInput) (*domain.Message, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := s.access.related(ctx, actor, in.RecipientID); err != nil {
		return nil, hideAs(err, "recipient")
	}
	msg := &domain.Message{
		SenderID:    actor.UserID,
		RecipientID: in.RecipientID,
		Content:     in.Content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, storeErr(err, "message")
	}
	s.logg.Debug(s.logg.WithField(ctx, "message_id", msg.ID.String()), "message.sent")
	return msg, nil
}

func (s *messageService) Conversation(ctx context.Context, actor domain.Actor, other uuid.UUID, limit int) ([]domain.Message, error) {
	if err := s.access.related(ctx, actor, other); err != nil {
		return nil, hideAs(err, "conversation")
	}
	switch {
	case limit <= 0:
		limit = DefaultConversationLimit
	case limit > MaxConversationLimit:
		limit = MaxConversationLimit
	}
	msgs, err := s.messages.Conversation(ctx, actor.UserID, other, limit)
	if err != nil {
		return nil, storeErr(err, "message")
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

// MarkRead only succeeds for the recipient; anyone else sees not-found.
func (s *messageService) MarkRead(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	return storeErr(s.messages.MarkRead(ctx, id, actor.UserID), "message")
}

func (s *messageService) UnreadCount(ctx context.Context, actor domain.Actor) (int64, error) {
	n, err := s.messages.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, storeErr(err, "message")
	}
	return n, nil
}
