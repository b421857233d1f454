package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type invitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) repository.InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	ensureID(&inv.ID)
	return translate(r.db.WithContext(ctx).Create(inv).Error)
}

func (r *invitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	var inv domain.Invitation
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	var inv domain.Invitation
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *invitationRepository) ListByCoach(ctx context.Context, coachID uuid.UUID) ([]domain.Invitation, error) {
	var invs []domain.Invitation
	err := r.db.WithContext(ctx).
		Where("coach_id = ?", coachID).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, translate(err)
}

// Claim is a compare-and-set on status: the WHERE clause re-checks every
// acceptance condition so concurrent claims cannot both succeed.
func (r *invitationRepository) Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	now = now.UTC()
	res := r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("id = ? AND status = ? AND expires_at > ?", id, domain.InvitationPending, now).
		Updates(map[string]any{
			"status":      domain.InvitationAccepted,
			"accepted_at": now,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}
