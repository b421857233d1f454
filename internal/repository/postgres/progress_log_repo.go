package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type progressLogRepository struct {
	db *gorm.DB
}

func NewProgressLogRepository(db *gorm.DB) repository.ProgressLogRepository {
	return &progressLogRepository{db: db}
}

func (r *progressLogRepository) Create(ctx context.Context, log *domain.ProgressLog) error {
	ensureID(&log.ID)
	return translate(r.db.WithContext(ctx).Omit("Photos").Create(log).Error)
}

func (r *progressLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressLog, error) {
	var log domain.ProgressLog
	if err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &log, nil
}

func (r *progressLogRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.ProgressLog, error) {
	var logs []domain.ProgressLog
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date DESC, created_at DESC").
		Find(&logs).Error
	return logs, translate(err)
}

func (r *progressLogRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]any) error {
	return affected(r.db.WithContext(ctx).
		Model(&domain.ProgressLog{}).
		Where("id = ?", id).
		Updates(changes))
}

func (r *progressLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ProgressLog{}))
}

type progressPhotoRepository struct {
	db *gorm.DB
}

func NewProgressPhotoRepository(db *gorm.DB) repository.ProgressPhotoRepository {
	return &progressPhotoRepository{db: db}
}

func (r *progressPhotoRepository) Create(ctx context.Context, photo *domain.ProgressPhoto) error {
	ensureID(&photo.ID)
	return translate(r.db.WithContext(ctx).Create(photo).Error)
}

func (r *progressPhotoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressPhoto, error) {
	var photo domain.ProgressPhoto
	if err := r.db.WithContext(ctx).First(&photo, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &photo, nil
}

func (r *progressPhotoRepository) ListByLog(ctx context.Context, logID uuid.UUID) ([]domain.ProgressPhoto, error) {
	var photos []domain.ProgressPhoto
	err := r.db.WithContext(ctx).
		Where("progress_log_id = ?", logID).
		Order("uploaded_at ASC").
		Find(&photos).Error
	return photos, translate(err)
}

func (r *progressPhotoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ProgressPhoto{}))
}
