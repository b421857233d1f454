package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type goalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) repository.GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	ensureID(&goal.ID)
	return translate(r.db.WithContext(ctx).Create(goal).Error)
}

func (r *goalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	var goal domain.Goal
	if err := r.db.WithContext(ctx).First(&goal, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &goal, nil
}

func (r *goalRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Goal, error) {
	var goals []domain.Goal
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&goals).Error
	return goals, translate(err)
}

func (r *goalRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]any) error {
	return affected(r.db.WithContext(ctx).
		Model(&domain.Goal{}).
		Where("id = ?", id).
		Updates(changes))
}

func (r *goalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Goal{}))
}
