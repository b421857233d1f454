package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type workoutSessionRepository struct {
	db *gorm.DB
}

func NewWorkoutSessionRepository(db *gorm.DB) repository.WorkoutSessionRepository {
	return &workoutSessionRepository{db: db}
}

func (r *workoutSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) error {
	ensureID(&session.ID)
	return translate(r.db.WithContext(ctx).Omit("Exercises").Create(session).Error)
}

// GetByID loads the session with its exercises and their library entries.
func (r *workoutSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.db.WithContext(ctx).
		Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") }).
		Preload("Exercises.Exercise").
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *workoutSessionRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]domain.WorkoutSession, error) {
	var sessions []domain.WorkoutSession
	err := r.db.WithContext(ctx).
		Where("workout_plan_id = ?", planID).
		Order("sort_order ASC, created_at ASC").
		Find(&sessions).Error
	return sessions, translate(err)
}

func (r *workoutSessionRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]any) error {
	return affected(r.db.WithContext(ctx).
		Model(&domain.WorkoutSession{}).
		Where("id = ?", id).
		Updates(changes))
}

func (r *workoutSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.WorkoutSession{}))
}

type sessionExerciseRepository struct {
	db *gorm.DB
}

func NewSessionExerciseRepository(db *gorm.DB) repository.SessionExerciseRepository {
	return &sessionExerciseRepository{db: db}
}

func (r *sessionExerciseRepository) Create(ctx context.Context, se *domain.SessionExercise) error {
	ensureID(&se.ID)
	return translate(r.db.WithContext(ctx).Omit("Exercise").Create(se).Error)
}

func (r *sessionExerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SessionExercise, error) {
	var se domain.SessionExercise
	if err := r.db.WithContext(ctx).Preload("Exercise").First(&se, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &se, nil
}

func (r *sessionExerciseRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.SessionExercise, error) {
	var items []domain.SessionExercise
	err := r.db.WithContext(ctx).
		Preload("Exercise").
		Where("workout_session_id = ?", sessionID).
		Order("sort_order ASC, created_at ASC").
		Find(&items).Error
	return items, translate(err)
}

func (r *sessionExerciseRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]any) error {
	return affected(r.db.WithContext(ctx).
		Model(&domain.SessionExercise{}).
		Where("id = ?", id).
		Updates(changes))
}

func (r *sessionExerciseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.SessionExercise{}))
}
