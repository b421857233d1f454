package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/repository"
	"supacoach/coach-api/internal/storage"
)

var errNoStorage = apperr.New(apperr.CodeDependency, "photo storage is not configured")

type ProgressLogService interface {
	List(ctx context.Context, actor domain.Actor, clientID uuid.UUID) ([]domain.ProgressLog, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.ProgressLog, error)
	Create(ctx context.Context, actor domain.Actor, in domain.ProgressLogInput) (*domain.ProgressLog, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ProgressLogPatch) (*domain.ProgressLog, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error

	// RequestPhotoUpload returns a presigned PUT URL. The photo exists only
	// once ConfirmPhotoUpload records it.
	RequestPhotoUpload(ctx context.Context, actor domain.Actor, logID uuid.UUID, req domain.PhotoUploadRequest) (*domain.PhotoUploadTicket, error)
	ConfirmPhotoUpload(ctx context.Context, actor domain.Actor, logID uuid.UUID, in domain.PhotoConfirmation) (*domain.ProgressPhoto, error)
	ListPhotos(ctx context.Context, actor domain.Actor, logID uuid.UUID) ([]domain.ProgressPhoto, error)
	DeletePhoto(ctx context.Context, actor domain.Actor, photoID uuid.UUID) error
}

type progressLogService struct {
	logs    repository.ProgressLogRepository
	photos  repository.ProgressPhotoRepository
	storage storage.FileStorage
	access  access
	logg    *logger.Logger
	now     func() time.Time
}

func NewProgressLogService(
	logs repository.ProgressLogRepository,
	photos repository.ProgressPhotoRepository,
	relationships repository.RelationshipRepository,
	fileStorage storage.FileStorage,
	logg *logger.Logger,
) ProgressLogService {
	if logg == nil {
		logg = logger.Nop()
	}
	return &progressLogService{
		logs:    logs,
		photos:  photos,
		storage: fileStorage,
		access:  access{relationships: relationships},
		logg:    logg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *progressLogService) List(ctx context.Context, actor domain.Actor, clientID uuid.UUID) ([]domain.ProgressLog, error) {
	if err := s.access.client(ctx, actor, clientID); err != nil {
		return nil, err
	}
	logs, err := s.logs.ListByClient(ctx, clientID)
	if err != nil {
		return nil, storeErr(err, "progress log")
	}
	return logs, nil
}

func (s *progressLogService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.ProgressLog, error) {
	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "progress log")
	}
	if err := s.access.client(ctx, actor, log.ClientID); err != nil {
		return nil, hideAs(err, "progress log")
	}
	return log, nil
}

func (s *progressLogService) Create(ctx context.Context, actor domain.Actor, in domain.ProgressLogInput) (*domain.ProgressLog, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := s.access.client(ctx, actor, in.ClientID); err != nil {
		return nil, err
	}
	log := &domain.ProgressLog{
		ClientID:          in.ClientID,
		Date:              in.Date,
		Weight:            in.Weight,
		BodyFatPercentage: in.BodyFatPercentage,
		Notes:             in.Notes,
	}
	if err := s.logs.Create(ctx, log); err != nil {
		return nil, storeErr(err, "progress log")
	}
	return log, nil
}

func (s *progressLogService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ProgressLogPatch) (*domain.ProgressLog, error) {
	if err := validate(patch); err != nil {
		return nil, err
	}
	log, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	changes := patch.Changes()
	if len(changes) == 0 {
		return log, nil
	}
	if err := s.logs.Update(ctx, id, changes); err != nil {
		return nil, storeErr(err, "progress log")
	}
	return s.Get(ctx, actor, id)
}

// Delete removes the log and, best effort, the stored photo objects.
func (s *progressLogService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	photos, err := s.photos.ListByLog(ctx, id)
	if err != nil {
		return storeErr(err, "progress photo")
	}
	for _, photo := range photos {
		if s.storage != nil {
			if err := s.storage.DeleteObject(ctx, photo.ObjectKey); err != nil {
				s.logg.Warn(s.logg.WithField(ctx, "object_key", photo.ObjectKey), "progress_photo.orphaned")
			}
		}
		if err := s.photos.Delete(ctx, photo.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return storeErr(err, "progress photo")
		}
	}
	return storeErr(s.logs.Delete(ctx, id), "progress log")
}

func (s *progressLogService) RequestPhotoUpload(ctx context.Context, actor domain.Actor, logID uuid.UUID, req domain.PhotoUploadRequest) (*domain.PhotoUploadTicket, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, errNoStorage
	}
	log, err := s.Get(ctx, actor, logID)
	if err != nil {
		return nil, err
	}

	key := storage.NewProgressPhotoKey(log.ClientID, log.ID)
	uploadURL, expiresAt, err := s.storage.PresignUpload(ctx, key, req.ContentType)
	if err != nil {
		return nil, apperr.Dependency(err, "could not prepare upload")
	}
	return &domain.PhotoUploadTicket{UploadURL: uploadURL, ObjectKey: key, ExpiresAt: expiresAt}, nil
}

func (s *progressLogService) ConfirmPhotoUpload(ctx context.Context, actor domain.Actor, logID uuid.UUID, in domain.PhotoConfirmation) (*domain.ProgressPhoto, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	log, err := s.Get(ctx, actor, logID)
	if err != nil {
		return nil, err
	}
	if err := storage.CheckKey(in.ObjectKey, storage.ProgressPhotoPrefix(log.ClientID, log.ID)); err != nil {
		return nil, apperr.Validation("validation failed", map[string]string{"objectKey": "does not belong to this progress log"})
	}

	photo := &domain.ProgressPhoto{
		ProgressLogID: log.ID,
		ClientID:      log.ClientID,
		ObjectKey:     in.ObjectKey,
		FileName:      in.FileName,
		ContentType:   in.ContentType,
		Size:          in.Size,
		UploadedAt:    s.now(),
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, storeErr(err, "progress photo")
	}
	if err := s.attachURL(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *progressLogService) attachURL(ctx context.Context, photo *domain.ProgressPhoto) error {
	if s.storage == nil {
		return nil
	}
	url, err := s.storage.PresignDownload(ctx, photo.ObjectKey)
	if err != nil {
		return apperr.Dependency(err, "could not prepare download")
	}
	photo.DownloadURL = url
	return nil
}

func (s *progressLogService) ListPhotos(ctx context.Context, actor domain.Actor, logID uuid.UUID) ([]domain.ProgressPhoto, error) {
	if _, err := s.Get(ctx, actor, logID); err != nil {
		return nil, err
	}
	photos, err := s.photos.ListByLog(ctx, logID)
	if err != nil {
		return nil, storeErr(err, "progress photo")
	}
	for i := range photos {
		if err := s.attachURL(ctx, &photos[i]); err != nil {
			return nil, err
		}
	}
	return photos, nil
}

// DeletePhoto removes the object first so a storage failure leaves the row
// in place to retry.
func (s *progressLogService) DeletePhoto(ctx context.Context, actor domain.Actor, photoID uuid.UUID) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return storeErr(err, "progress photo")
	}
	if err := s.access.client(ctx, actor, photo.ClientID); err != nil {
		return hideAs(err, "progress photo")
	}
	if s.storage == nil {
		return errNoStorage
	}
	if err := s.storage.DeleteObject(ctx, photo.ObjectKey); err != nil {
		return apperr.Dependency(err, "could not delete photo")
	}
	return storeErr(s.photos.Delete(ctx, photo.ID), "progress photo")
}
