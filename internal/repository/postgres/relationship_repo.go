package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type relationshipRepository struct {
	db *gorm.DB
}

func NewRelationshipRepository(db *gorm.DB) repository.RelationshipRepository {
	return &relationshipRepository{db: db}
}

// Create inserts the relationship. A second row for the same coach and
// client violates idx_relationship_pair and yields ErrConflict.
func (r *relationshipRepository) Create(ctx context.Context, rel *domain.CoachClientRelationship) error {
	ensureID(&rel.ID)
	return translate(r.db.WithContext(ctx).Omit("Coach", "Client").Create(rel).Error)
}

func (r *relationshipRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CoachClientRelationship, error) {
	var rel domain.CoachClientRelationship
	if err := r.db.WithContext(ctx).First(&rel, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rel, nil
}

func (r *relationshipRepository) Get(ctx context.Context, coachID, clientID uuid.UUID) (*domain.CoachClientRelationship, error) {
	var rel domain.CoachClientRelationship
	err := r.db.WithContext(ctx).
		Where("coach_id = ? AND client_id = ?", coachID, clientID).
		First(&rel).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rel, nil
}

func (r *relationshipRepository) ListByCoach(ctx context.Context, coachID uuid.UUID) ([]domain.CoachClientRelationship, error) {
	var rels []domain.CoachClientRelationship
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Client.Profile").
		Where("coach_id = ?", coachID).
		Order("created_at DESC").
		Find(&rels).Error
	return rels, translate(err)
}

func (r *relationshipRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.CoachClientRelationship, error) {
	var rels []domain.CoachClientRelationship
	err := r.db.WithContext(ctx).
		Preload("Coach").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&rels).Error
	return rels, translate(err)
}

func (r *relationshipRepository) UpdateStatus(ctx context.Context, coachID, clientID uuid.UUID, status domain.RelationshipStatus) error {
	return affected(r.db.WithContext(ctx).
		Model(&domain.CoachClientRelationship{}).
		Where("coach_id = ? AND client_id = ?", coachID, clientID).
		Update("status", status))
}

func (r *relationshipRepository) Confirm(ctx context.Context, id, clientID uuid.UUID) error {
	return affected(r.db.WithContext(ctx).
		Model(&domain.CoachClientRelationship{}).
		Where("id = ? AND client_id = ? AND status = ?", id, clientID, domain.RelationshipPending).
		Update("status", domain.RelationshipActive))
}

func (r *relationshipRepository) CountByCoach(ctx context.Context, coachID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.CoachClientRelationship{}).
		Where("coach_id = ?", coachID).
		Count(&count).Error
	return count, translate(err)
}
