package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type workoutPlanRepository struct {
	db *gorm.DB
}

func NewWorkoutPlanRepository(db *gorm.DB) repository.WorkoutPlanRepository {
	return &workoutPlanRepository{db: db}
}

func (r *workoutPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) error {
	ensureID(&plan.ID)
	return translate(r.db.WithContext(ctx).Omit("Sessions").Create(plan).Error)
}

// GetByID loads the plan with its sessions in order.
func (r *workoutPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	err := r.db.WithContext(ctx).
		Preload("Sessions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") }).
		First(&plan, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

func (r *workoutPlanRepository) list(ctx context.Context, query string, args ...any) ([]domain.WorkoutPlan, error) {
	var plans []domain.WorkoutPlan
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, translate(err)
}

func (r *workoutPlanRepository) ListByCoach(ctx context.Context, coachID uuid.UUID) ([]domain.WorkoutPlan, error) {
	return r.list(ctx, "coach_id = ?", coachID)
}

func (r *workoutPlanRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.WorkoutPlan, error) {
	return r.list(ctx, "client_id = ?", clientID)
}

func (r *workoutPlanRepository) ListByCoachAndClient(ctx context.Context, coachID, clientID uuid.UUID) ([]domain.WorkoutPlan, error) {
	return r.list(ctx, "coach_id = ? AND client_id = ?", coachID, clientID)
}

func (r *workoutPlanRepository) Update(ctx context.Context, id, coachID uuid.UUID, changes map[string]any) error {
	return affected(r.db.WithContext(ctx).
		Model(&domain.WorkoutPlan{}).
		Where("id = ? AND coach_id = ?", id, coachID).
		Updates(changes))
}

func (r *workoutPlanRepository) Delete(ctx context.Context, id, coachID uuid.UUID) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND coach_id = ?", id, coachID).
		Delete(&domain.WorkoutPlan{}))
}

func (r *workoutPlanRepository) CountByCoach(ctx context.Context, coachID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.WorkoutPlan{}).
		Where("coach_id = ?", coachID).
		Count(&count).Error
	return count, translate(err)
}
