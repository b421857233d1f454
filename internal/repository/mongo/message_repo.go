package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

const messageCollectionName = "messages"

// messageDocument is the stored shape of a message. IDs are kept as their
// canonical string form so documents stay readable in the shell.
type messageDocument struct {
	ID          string    `bson:"_id"`
	SenderID    string    `bson:"senderId"`
	RecipientID string    `bson:"recipientId"`
	Content     string    `bson:"content"`
	Read        bool      `bson:"read"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func toDocument(msg *domain.Message) messageDocument {
	return messageDocument{
		ID:          msg.ID.String(),
		SenderID:    msg.SenderID.String(),
		RecipientID: msg.RecipientID.String(),
		Content:     msg.Content,
		Read:        msg.Read,
		CreatedAt:   msg.CreatedAt,
	}
}

func (d messageDocument) toDomain() (domain.Message, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Message{}, err
	}
	sender, err := uuid.Parse(d.SenderID)
	if err != nil {
		return domain.Message{}, err
	}
	recipient, err := uuid.Parse(d.RecipientID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:          id,
		SenderID:    sender,
		RecipientID: recipient,
		Content:     d.Content,
		Read:        d.Read,
		CreatedAt:   d.CreatedAt.UTC(),
	}, nil
}

type messageRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMessageRepository stores messages in the messages collection of db.
func NewMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &messageRepository{
		collection: db.Collection(messageCollectionName),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		// Mongo keeps millisecond precision.
		msg.CreatedAt = r.now().Truncate(time.Millisecond)
	}
	_, err := r.collection.InsertOne(ctx, toDocument(msg))
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrConflict
	}
	return err
}

func (r *messageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	var doc messageDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	msg, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) Conversation(ctx context.Context, a, b uuid.UUID, limit int) ([]domain.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"senderId": a.String(), "recipientId": b.String()},
		bson.M{"senderId": b.String(), "recipientId": a.String()},
	}}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(docs))
	for _, doc := range docs {
		msg, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	filter := bson.M{"_id": id.String(), "recipientId": recipientID.String()}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *messageRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipientId": recipientID.String(), "read": false})
}

// EnsureMessageIndexes creates the indexes Conversation and CountUnread
// rely on. Safe to call on every startup.
func EnsureMessageIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "recipientId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "recipientId", Value: 1}, {Key: "read", Value: 1}},
		},
	}
	_, err := db.Collection(messageCollectionName).Indexes().CreateMany(ctx, indexes)
	return err
}
