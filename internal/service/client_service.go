package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/repository"
)

type ClientService interface {
	ListClients(ctx context.Context, actor domain.Actor) ([]domain.ClientSummary, error)
	GetClientDetails(ctx context.Context, actor domain.Actor, clientID uuid.UUID) (*domain.ClientDetails, error)
	UpdateClientStatus(ctx context.Context, actor domain.Actor, clientID uuid.UUID, status domain.RelationshipStatus) (*domain.CoachClientRelationship, error)
	// LinkExistingClient offers a relationship to a client who already has an
	// account. The client accepts it through UserService.ConfirmCoach.
	LinkExistingClient(ctx context.Context, actor domain.Actor, email string) (*domain.CoachClientRelationship, error)
}

type clientService struct {
	users         repository.UserRepository
	relationships repository.RelationshipRepository
	plans         repository.WorkoutPlanRepository
	progressLogs  repository.ProgressLogRepository
	goals         repository.GoalRepository
	logg          *logger.Logger
}

func NewClientService(
	users repository.UserRepository,
	relationships repository.RelationshipRepository,
	plans repository.WorkoutPlanRepository,
	progressLogs repository.ProgressLogRepository,
	goals repository.GoalRepository,
	logg *logger.Logger,
) ClientService {
	if logg == nil {
		logg = logger.Nop()
	}
	return &clientService{
		users:         users,
		relationships: relationships,
		plans:         plans,
		progressLogs:  progressLogs,
		goals:         goals,
		logg:          logg,
	}
}

func (s *clientService) ListClients(ctx context.Context, actor domain.Actor) ([]domain.ClientSummary, error) {
	if err := requireCoach(actor); err != nil {
		return nil, err
	}
	rels, err := s.relationships.ListByCoach(ctx, actor.UserID)
	if err != nil {
		return nil, storeErr(err, "client")
	}
	summaries := make([]domain.ClientSummary, 0, len(rels))
	for _, rel := range rels {
		if rel.Client == nil {
			continue
		}
		summaries = append(summaries, domain.ClientSummary{
			Client:       rel.Client,
			Status:       rel.Status,
			Relationship: rel.ID,
		})
	}
	return summaries, nil
}

func (s *clientService) GetClientDetails(ctx context.Context, actor domain.Actor, clientID uuid.UUID) (*domain.ClientDetails, error) {
	if err := requireCoach(actor); err != nil {
		return nil, err
	}
	rel, err := s.relationships.Get(ctx, actor.UserID, clientID)
	if err != nil {
		return nil, storeErr(err, "client")
	}
	client, err := s.users.GetWithProfile(ctx, clientID)
	if err != nil {
		return nil, storeErr(err, "client")
	}
	plans, err := s.plans.ListByCoachAndClient(ctx, actor.UserID, clientID)
	if err != nil {
		return nil, storeErr(err, "workout plan")
	}
	logs, err := s.progressLogs.ListByClient(ctx, clientID)
	if err != nil {
		return nil, storeErr(err, "progress log")
	}
	goals, err := s.goals.ListByClient(ctx, clientID)
	if err != nil {
		return nil, storeErr(err, "goal")
	}
	return &domain.ClientDetails{
		Client:       client,
		Relationship: rel,
		WorkoutPlans: plans,
		ProgressLogs: logs,
		Goals:        goals,
	}, nil
}

func (s *clientService) UpdateClientStatus(ctx context.Context, actor domain.Actor, clientID uuid.UUID, status domain.RelationshipStatus) (*domain.CoachClientRelationship, error) {
	if err := requireCoach(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.Validation("validation failed", map[string]string{"status": "must be one of: pending, active, terminated"})
	}
	if err := s.relationships.UpdateStatus(ctx, actor.UserID, clientID, status); err != nil {
		return nil, storeErr(err, "client")
	}
	rel, err := s.relationships.Get(ctx, actor.UserID, clientID)
	if err != nil {
		return nil, storeErr(err, "client")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"client_id": clientID.String(), "status": status}), "client.status_updated")
	return rel, nil
}

func (s *clientService) LinkExistingClient(ctx context.Context, actor domain.Actor, email string) (*domain.CoachClientRelationship, error) {
	if err := requireCoach(actor); err != nil {
		return nil, err
	}
	email = domain.NormalizeEmail(email)
	if err := validate(struct {
		Email string `json:"email" binding:"required,email"`
	}{email}); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeErr(err, "client")
	}
	if !user.IsClient() {
		return nil, apperr.Validation("validation failed", map[string]string{"email": "does not belong to a client account"})
	}

	existing, err := s.relationships.Get(ctx, actor.UserID, user.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err, "client")
	}

	rel := &domain.CoachClientRelationship{
		CoachID:  actor.UserID,
		ClientID: user.ID,
		Status:   domain.RelationshipPending,
	}
	if err := s.relationships.Create(ctx, rel); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost a race with a concurrent link.
			existing, err := s.relationships.Get(ctx, actor.UserID, user.ID)
			if err != nil {
				return nil, storeErr(err, "relationship")
			}
			return existing, nil
		}
		return nil, storeErr(err, "relationship")
	}
	s.logg.Info(s.logg.WithField(ctx, "client_id", user.ID.String()), "client.linked")
	return rel, nil
}
