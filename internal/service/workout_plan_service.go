package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type WorkoutPlanService interface {
	// List returns a coach's own plans or the plans assigned to a client.
	List(ctx context.Context, actor domain.Actor) ([]domain.WorkoutPlan, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.WorkoutPlan, error)
	Create(ctx context.Context, actor domain.Actor, in domain.WorkoutPlanInput) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.WorkoutPlanPatch) (*domain.WorkoutPlan, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

type workoutPlanService struct {
	plans  repository.WorkoutPlanRepository
	access access
}

func NewWorkoutPlanService(plans repository.WorkoutPlanRepository, relationships repository.RelationshipRepository) WorkoutPlanService {
	return &workoutPlanService{plans: plans, access: access{relationships: relationships}}
}

func checkPlanDates(start domain.Date, end *domain.Date) error {
	if end != nil && end.Before(start.Time) {
		return apperr.Validation("validation failed", map[string]string{"endDate": "must not be before startDate"})
	}
	return nil
}

func (s *workoutPlanService) List(ctx context.Context, actor domain.Actor) ([]domain.WorkoutPlan, error) {
	var (
		plans []domain.WorkoutPlan
		err   error
	)
	if actor.IsCoach() {
		plans, err = s.plans.ListByCoach(ctx, actor.UserID)
	} else {
		plans, err = s.plans.ListByClient(ctx, actor.UserID)
	}
	if err != nil {
		return nil, storeErr(err, "workout plan")
	}
	return plans, nil
}

func (s *workoutPlanService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.WorkoutPlan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "workout plan")
	}
	if !planReadable(actor, plan) {
		return nil, apperr.NotFound("workout plan")
	}
	return plan, nil
}

// ownedPlan loads a plan the coach may modify.
func (s *workoutPlanService) ownedPlan(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.WorkoutPlan, error) {
	if err := requireCoach(actor); err != nil {
		return nil, err
	}
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "workout plan")
	}
	if plan.CoachID != actor.UserID {
		return nil, apperr.NotFound("workout plan")
	}
	return plan, nil
}

func (s *workoutPlanService) Create(ctx context.Context, actor domain.Actor, in domain.WorkoutPlanInput) (*domain.WorkoutPlan, error) {
	if err := requireCoach(actor); err != nil {
		return nil, err
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := checkPlanDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	if err := s.access.coachOf(ctx, actor.UserID, in.ClientID); err != nil {
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		CoachID:       actor.UserID,
		ClientID:      in.ClientID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		DurationWeeks: in.DurationWeeks,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, storeErr(err, "workout plan")
	}
	return plan, nil
}

// Update changes only the fields present in patch.
func (s *workoutPlanService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.WorkoutPlanPatch) (*domain.WorkoutPlan, error) {
	patch.Name = trimmed(patch.Name)
	if err := validate(patch); err != nil {
		return nil, err
	}
	plan, err := s.ownedPlan(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	changes := patch.Changes()
	if len(changes) == 0 {
		return plan, nil
	}

	start, end := plan.StartDate, plan.EndDate
	if patch.StartDate != nil {
		start = *patch.StartDate
	}
	if patch.EndDate != nil {
		end = patch.EndDate
	}
	if err := checkPlanDates(start, end); err != nil {
		return nil, err
	}

	if err := s.plans.Update(ctx, id, actor.UserID, changes); err != nil {
		return nil, storeErr(err, "workout plan")
	}
	return s.Get(ctx, actor, id)
}

func (s *workoutPlanService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if err := requireCoach(actor); err != nil {
		return err
	}
	return storeErr(s.plans.Delete(ctx, id, actor.UserID), "workout plan")
}
