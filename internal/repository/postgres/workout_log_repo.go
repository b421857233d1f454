package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type workoutLogRepository struct {
	db *gorm.DB
}

func NewWorkoutLogRepository(db *gorm.DB) repository.WorkoutLogRepository {
	return &workoutLogRepository{db: db}
}

// Create inserts the log row followed by its exercise logs. Callers that
// need both to land together run it inside a Transactor.
func (r *workoutLogRepository) Create(ctx context.Context, log *domain.WorkoutLog) error {
	ensureID(&log.ID)
	db := r.db.WithContext(ctx)
	if err := db.Omit("Session", "ExerciseLogs").Create(log).Error; err != nil {
		return translate(err)
	}
	for i := range log.ExerciseLogs {
		entry := &log.ExerciseLogs[i]
		ensureID(&entry.ID)
		entry.WorkoutLogID = log.ID
		if err := db.Create(entry).Error; err != nil {
			return translate(err)
		}
	}
	return nil
}

func (r *workoutLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	err := r.db.WithContext(ctx).
		Preload("Session").
		Preload("ExerciseLogs").
		First(&log, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &log, nil
}

func (r *workoutLogRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.WorkoutLog, error) {
	var logs []domain.WorkoutLog
	err := r.db.WithContext(ctx).
		Preload("Session").
		Preload("ExerciseLogs").
		Where("client_id = ?", clientID).
		Order("date_performed DESC, created_at DESC").
		Find(&logs).Error
	return logs, translate(err)
}

func (r *workoutLogRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]any) error {
	return affected(r.db.WithContext(ctx).
		Model(&domain.WorkoutLog{}).
		Where("id = ?", id).
		Updates(changes))
}

func (r *workoutLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("workout_log_id = ?", id).Delete(&domain.ExerciseLog{}).Error; err != nil {
		return translate(err)
	}
	return affected(db.Where("id = ?", id).Delete(&domain.WorkoutLog{}))
}

func (r *workoutLogRepository) RecentForCoach(ctx context.Context, coachID uuid.UUID, since domain.Date, limit int) ([]domain.RecentWorkoutLog, error) {
	var rows []domain.RecentWorkoutLog
	err := r.db.WithContext(ctx).
		Table("workout_logs AS wl").
		Select(`wl.id, wl.client_id, u.name AS client_name, wl.workout_session_id,
			ws.name AS session_name, wl.date_performed, wl.status, wl.notes`).
		Joins("JOIN coach_client_relationships ccr ON ccr.client_id = wl.client_id AND ccr.coach_id = ?", coachID).
		Joins("JOIN users u ON u.id = wl.client_id").
		Joins("JOIN workout_sessions ws ON ws.id = wl.workout_session_id").
		Where("wl.date_performed >= ?", since).
		Order("wl.date_performed DESC, wl.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	if rows == nil {
		rows = []domain.RecentWorkoutLog{}
	}
	return rows, nil
}
