package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type exerciseRepository struct {
	db *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) repository.ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	ensureID(&exercise.ID)
	if exercise.MusclesTargeted == nil {
		exercise.MusclesTargeted = []string{}
	}
	return translate(r.db.WithContext(ctx).Create(exercise).Error)
}

func (r *exerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := r.db.WithContext(ctx).First(&exercise, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &exercise, nil
}

func (r *exerciseRepository) ListVisible(ctx context.Context, coachID uuid.UUID) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	err := r.db.WithContext(ctx).
		Where("is_base_exercise = ? OR coach_id = ?", true, coachID).
		Order("name ASC").
		Find(&exercises).Error
	return exercises, translate(err)
}

// Update only touches custom exercises owned by coachID; base exercises
// never match the filter.
func (r *exerciseRepository) Update(ctx context.Context, id, coachID uuid.UUID, changes map[string]any) error {
	return affected(r.db.WithContext(ctx).
		Model(&domain.Exercise{}).
		Where("id = ? AND coach_id = ? AND is_base_exercise = ?", id, coachID, false).
		Updates(changes))
}

func (r *exerciseRepository) Delete(ctx context.Context, id, coachID uuid.UUID) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND coach_id = ? AND is_base_exercise = ?", id, coachID, false).
		Delete(&domain.Exercise{}))
}
