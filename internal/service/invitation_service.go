package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/mailer"
	"supacoach/coach-api/internal/metrics"
	"supacoach/coach-api/internal/repository"
)

const (
	invitationTokenBytes = 32
	DefaultInvitationTTL = 7 * 24 * time.Hour
)

// errClaimLost aborts the acceptance transaction when the conditional
// claim matched no row.
var errClaimLost = errors.New("invitation claimed concurrently or expired")

type AcceptInput struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type InvitationService interface {
	// Issue stores a pending invitation and emails its acceptance link. When
	// the email fails the invitation is kept and a DELIVERY_FAILED error
	// carrying its id is returned, so the coach can resend it.
	Issue(ctx context.Context, actor domain.Actor, form domain.ClientIntake) (*domain.Invitation, error)
	Resend(ctx context.Context, actor domain.Actor, invitationID uuid.UUID) (*domain.Invitation, error)
	ListInvitations(ctx context.Context, actor domain.Actor) ([]domain.Invitation, error)
	// Accept redeems token. Every way an invitation can be unusable yields
	// the same INVITATION_INVALID error.
	Accept(ctx context.Context, token string, in AcceptInput) (*domain.AcceptResult, error)
}

type InvitationOptions struct {
	AppOrigin string
	TTL       time.Duration
}

type invitationService struct {
	invitations repository.InvitationRepository
	users       repository.UserRepository
	tx          repository.Transactor
	sender      mailer.InvitationSender
	metrics     *metrics.Metrics
	logg        *logger.Logger
	appOrigin   string
	ttl         time.Duration
	now         func() time.Time
	newToken    func() (string, error)
}

func NewInvitationService(
	invitations repository.InvitationRepository,
	users repository.UserRepository,
	tx repository.Transactor,
	sender mailer.InvitationSender,
	m *metrics.Metrics,
	logg *logger.Logger,
	opts InvitationOptions,
) InvitationService {
	if opts.TTL <= 0 {
		opts.TTL = DefaultInvitationTTL
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &invitationService{
		invitations: invitations,
		users:       users,
		tx:          tx,
		sender:      sender,
		metrics:     m,
		logg:        logg,
		appOrigin:   strings.TrimRight(opts.AppOrigin, "/"),
		ttl:         opts.TTL,
		now:         func() time.Time { return time.Now().UTC() },
		newToken:    newInvitationToken,
	}
}

// newInvitationToken returns 32 random bytes, base64url encoded.
func newInvitationToken() (string, error) {
	buf := make([]byte, invitationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *invitationService) acceptURL(token string) string {
	return s.appOrigin + "/accept-invitation/" + url.PathEscape(token)
}

func (s *invitationService) Issue(ctx context.Context, actor domain.Actor, form domain.ClientIntake) (*domain.Invitation, error) {
	// 1. Only coaches invite, and only with a valid form
	if err := requireCoach(actor); err != nil {
		return nil, err
	}
	form.Email = domain.NormalizeEmail(form.Email)
	if err := validate(form); err != nil {
		return nil, err
	}

	// 2. An existing account is linked, not invited
	if _, err := s.users.GetByEmail(ctx, form.Email); err == nil {
		return nil, apperr.New(apperr.CodeConflict, "an account with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err, "user")
	}

	// 3. Persist the pending invitation with the form snapshot
	token, err := s.newToken()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("generate invitation token: %w", err))
	}
	inv := &domain.Invitation{
		CoachID:   actor.UserID,
		Email:     form.Email,
		Token:     token,
		Payload:   domain.IntakePayload{Version: domain.IntakePayloadVersion, Form: form},
		Status:    domain.InvitationPending,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, storeErr(err, "invitation")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"invitation_id": inv.ID.String(), "coach_id": actor.UserID.String()})

	// 4. Email the link; the invitation survives a delivery failure
	if err := s.deliver(ctx, actor, inv); err != nil {
		return nil, err
	}

	s.metrics.IncInvitation(metrics.InvitationIssued)
	s.logg.Info(ctx, "invitation.issued")
	return inv, nil
}

func (s *invitationService) deliver(ctx context.Context, actor domain.Actor, inv *domain.Invitation) error {
	coachName := ""
	if coach, err := s.users.GetByID(ctx, actor.UserID); err == nil {
		coachName = coach.Name
	}

	err := s.sender.SendInvitation(ctx, mailer.Invitation{
		To:         inv.Email,
		ClientName: inv.Payload.Form.FullName(),
		CoachName:  coachName,
		AcceptURL:  s.acceptURL(inv.Token),
		ExpiresAt:  inv.ExpiresAt,
	})
	if err != nil {
		s.metrics.IncInvitation(metrics.InvitationDeliveryFailed)
		s.logg.Error(ctx, "invitation.delivery_failed", err)
		return apperr.Wrap(apperr.CodeDeliveryFailed, err, "invitation saved but email delivery failed").
			WithDetails(map[string]string{"invitationId": inv.ID.String()})
	}
	return nil
}

func (s *invitationService) Resend(ctx context.Context, actor domain.Actor, invitationID uuid.UUID) (*domain.Invitation, error) {
	if err := requireCoach(actor); err != nil {
		return nil, err
	}
	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, storeErr(err, "invitation")
	}
	if inv.CoachID != actor.UserID {
		return nil, apperr.NotFound("invitation")
	}
	if !inv.IsOpen(s.now()) {
		return nil, apperr.New(apperr.CodeConflict, "invitation is no longer pending")
	}

	ctx = s.logg.WithField(ctx, "invitation_id", inv.ID.String())
	if err := s.deliver(ctx, actor, inv); err != nil {
		return nil, err
	}
	s.metrics.IncInvitation(metrics.InvitationResent)
	s.logg.Info(ctx, "invitation.resent")
	return inv, nil
}

func (s *invitationService) ListInvitations(ctx context.Context, actor domain.Actor) ([]domain.Invitation, error) {
	if err := requireCoach(actor); err != nil {
		return nil, err
	}
	invs, err := s.invitations.ListByCoach(ctx, actor.UserID)
	if err != nil {
		return nil, storeErr(err, "invitation")
	}
	return invs, nil
}

// reject logs the real reason and returns the generic error.
func (s *invitationService) reject(ctx context.Context, reason string) error {
	s.metrics.IncInvitation(metrics.InvitationRejected)
	s.logg.Warn(s.logg.WithField(ctx, "reason", reason), "invitation.rejected")
	return apperr.InvalidInvitation(reason)
}

func (s *invitationService) Accept(ctx context.Context, token string, in AcceptInput) (*domain.AcceptResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, s.reject(ctx, "empty token")
	}

	// 1. exists, pending, unexpired; in that order
	inv, err := s.invitations.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, s.reject(ctx, "unknown token")
	}
	if err != nil {
		return nil, storeErr(err, "invitation")
	}
	ctx = s.logg.WithField(ctx, "invitation_id", inv.ID.String())

	now := s.now()
	if inv.Status != domain.InvitationPending {
		return nil, s.reject(ctx, "invitation already accepted")
	}
	if inv.IsExpired(now) {
		return nil, s.reject(ctx, "invitation expired")
	}

	// 2. The stored form must still be one this version understands
	payload := inv.Payload
	if payload.Version != domain.IntakePayloadVersion {
		return nil, s.reject(ctx, fmt.Sprintf("unsupported payload version %d", payload.Version))
	}
	if err := validate(payload.Form); err != nil {
		return nil, s.reject(ctx, "stored intake form is invalid")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	// 3. Claim the invitation and create the account in one transaction
	form := payload.Form
	user := &domain.User{
		Name:         form.FullName(),
		Email:        inv.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		claimed, err := repos.Invitations.Claim(ctx, inv.ID, now)
		if err != nil {
			return err
		}
		if !claimed {
			return errClaimLost
		}

		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}

		profile := form.Profile()
		profile.UserID = user.ID
		if err := repos.Profiles.Create(ctx, &profile); err != nil {
			return err
		}

		invitationID := inv.ID
		if err := repos.Relationships.Create(ctx, &domain.CoachClientRelationship{
			CoachID:      inv.CoachID,
			ClientID:     user.ID,
			Status:       domain.RelationshipActive,
			InvitationID: &invitationID,
		}); err != nil {
			return err
		}

		for _, description := range form.FitnessGoals {
			description = strings.TrimSpace(description)
			if description == "" {
				continue
			}
			if err := repos.Goals.Create(ctx, &domain.Goal{
				ClientID:    user.ID,
				Description: description,
				Status:      domain.GoalActive,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	switch {
	case errors.Is(err, errClaimLost):
		return nil, s.reject(ctx, err.Error())
	case errors.Is(err, repository.ErrConflict):
		s.logg.Warn(ctx, "invitation.accept_conflict")
		return nil, apperr.Wrap(apperr.CodeConflict, err, "an account with this email already exists")
	case err != nil:
		s.logg.Error(ctx, "invitation.accept_failed", err)
		return nil, storeErr(err, "invitation")
	}

	s.metrics.IncInvitation(metrics.InvitationAccepted)
	s.logg.Info(s.logg.WithField(ctx, "user_id", user.ID.String()), "invitation.accepted")
	return &domain.AcceptResult{UserID: user.ID, CoachID: inv.CoachID}, nil
}
