package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type ExerciseService interface {
	// List returns the base library plus the coach's custom exercises.
	List(ctx context.Context, actor domain.Actor) ([]domain.Exercise, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Exercise, error)
	Create(ctx context.Context, actor domain.Actor, in domain.ExerciseInput) (*domain.Exercise, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ExercisePatch) (*domain.Exercise, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

type exerciseService struct {
	exercises repository.ExerciseRepository
}

func NewExerciseService(exercises repository.ExerciseRepository) ExerciseService {
	return &exerciseService{exercises: exercises}
}

func (s *exerciseService) List(ctx context.Context, actor domain.Actor) ([]domain.Exercise, error) {
	if err := requireCoach(actor); err != nil {
		return nil, err
	}
	list, err := s.exercises.ListVisible(ctx, actor.UserID)
	if err != nil {
		return nil, storeErr(err, "exercise")
	}
	return list, nil
}

// Get hides other coaches' custom exercises. Clients may read any exercise
// since their sessions reference them.
func (s *exerciseService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "exercise")
	}
	if actor.IsCoach() && !exercise.IsBaseExercise && !exercise.OwnedBy(actor.UserID) {
		return nil, apperr.NotFound("exercise")
	}
	return exercise, nil
}

func (s *exerciseService) Create(ctx context.Context, actor domain.Actor, in domain.ExerciseInput) (*domain.Exercise, error) {
	if err := requireCoach(actor); err != nil {
		return nil, err
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	coachID := actor.UserID
	muscles := in.MusclesTargeted
	if muscles == nil {
		muscles = []string{}
	}
	exercise := &domain.Exercise{
		CoachID:           &coachID,
		Name:              strings.TrimSpace(in.Name),
		Description:       in.Description,
		Category:          in.Category,
		DifficultyLevel:   in.DifficultyLevel,
		EquipmentRequired: in.EquipmentRequired,
		MusclesTargeted:   muscles,
		IsBaseExercise:    false,
	}
	if err := s.exercises.Create(ctx, exercise); err != nil {
		return nil, storeErr(err, "exercise")
	}
	return exercise, nil
}

func (s *exerciseService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ExercisePatch) (*domain.Exercise, error) {
	if err := requireCoach(actor); err != nil {
		return nil, err
	}
	patch.Name = trimmed(patch.Name)
	if err := validate(patch); err != nil {
		return nil, err
	}
	if changes := patch.Changes(); len(changes) > 0 {
		if err := s.exercises.Update(ctx, id, actor.UserID, changes); err != nil {
			return nil, storeErr(err, "exercise")
		}
	}
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "exercise")
	}
	if !exercise.OwnedBy(actor.UserID) {
		return nil, apperr.NotFound("exercise")
	}
	return exercise, nil
}

func (s *exerciseService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if err := requireCoach(actor); err != nil {
		return err
	}
	return storeErr(s.exercises.Delete(ctx, id, actor.UserID), "exercise")
}
