package service

import (
	"context"

	"github.com/google/uuid"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type GoalService interface {
	List(ctx context.Context, actor domain.Actor, clientID uuid.UUID) ([]domain.Goal, error)
	Create(ctx context.Context, actor domain.Actor, in domain.GoalInput) (*domain.Goal, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.GoalPatch) (*domain.Goal, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

type goalService struct {
	goals  repository.GoalRepository
	access access
}

func NewGoalService(goals repository.GoalRepository, relationships repository.RelationshipRepository) GoalService {
	return &goalService{goals: goals, access: access{relationships: relationships}}
}

func (s *goalService) List(ctx context.Context, actor domain.Actor, clientID uuid.UUID) ([]domain.Goal, error) {
	if err := s.access.client(ctx, actor, clientID); err != nil {
		return nil, err
	}
	goals, err := s.goals.ListByClient(ctx, clientID)
	if err != nil {
		return nil, storeErr(err, "goal")
	}
	return goals, nil
}

func (s *goalService) Create(ctx context.Context, actor domain.Actor, in domain.GoalInput) (*domain.Goal, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := s.access.client(ctx, actor, in.ClientID); err != nil {
		return nil, err
	}
	goal := &domain.Goal{
		ClientID:    in.ClientID,
		Description: in.Description,
		TargetDate:  in.TargetDate,
		Status:      in.Status,
	}
	if goal.Status == "" {
		goal.Status = domain.GoalActive
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, storeErr(err, "goal")
	}
	return goal, nil
}

func (s *goalService) get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Goal, error) {
	goal, err := s.goals.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "goal")
	}
	if err := s.access.client(ctx, actor, goal.ClientID); err != nil {
		return nil, hideAs(err, "goal")
	}
	return goal, nil
}

func (s *goalService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.GoalPatch) (*domain.Goal, error) {
	if err := validate(patch); err != nil {
		return nil, err
	}
	goal, err := s.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	changes := patch.Changes()
	if len(changes) == 0 {
		return goal, nil
	}
	if err := s.goals.Update(ctx, id, changes); err != nil {
		return nil, storeErr(err, "goal")
	}
	return s.get(ctx, actor, id)
}

func (s *goalService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if _, err := s.get(ctx, actor, id); err != nil {
		return err
	}
	return storeErr(s.goals.Delete(ctx, id), "goal")
}
