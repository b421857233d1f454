package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type WorkoutSessionService interface {
	List(ctx context.Context, actor domain.Actor, planID uuid.UUID) ([]domain.WorkoutSession, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.WorkoutSession, error)
	Create(ctx context.Context, actor domain.Actor, in domain.WorkoutSessionInput) (*domain.WorkoutSession, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.WorkoutSessionPatch) (*domain.WorkoutSession, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error

	ListExercises(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) ([]domain.SessionExercise, error)
	AddExercise(ctx context.Context, actor domain.Actor, sessionID uuid.UUID, in domain.SessionExerciseInput) (*domain.SessionExercise, error)
	UpdateExercise(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.SessionExercisePatch) (*domain.SessionExercise, error)
	RemoveExercise(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

type workoutSessionService struct {
	plans            repository.WorkoutPlanRepository
	sessions         repository.WorkoutSessionRepository
	sessionExercises repository.SessionExerciseRepository
	exercises        repository.ExerciseRepository
}

func NewWorkoutSessionService(
	plans repository.WorkoutPlanRepository,
	sessions repository.WorkoutSessionRepository,
	sessionExercises repository.SessionExerciseRepository,
	exercises repository.ExerciseRepository,
) WorkoutSessionService {
	return &workoutSessionService{
		plans:            plans,
		sessions:         sessions,
		sessionExercises: sessionExercises,
		exercises:        exercises,
	}
}

// plan loads planID and checks the actor may read it, or modify it when
// write is set. Sessions inherit the access of their plan.
func (s *workoutSessionService) plan(ctx context.Context, actor domain.Actor, planID uuid.UUID, write bool) (*domain.WorkoutPlan, error) {
	if write {
		if err := requireCoach(actor); err != nil {
			return nil, err
		}
	}
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, storeErr(err, "workout plan")
	}
	if write && plan.CoachID != actor.UserID {
		return nil, apperr.NotFound("workout plan")
	}
	if !planReadable(actor, plan) {
		return nil, apperr.NotFound("workout plan")
	}
	return plan, nil
}

func (s *workoutSessionService) session(ctx context.Context, actor domain.Actor, id uuid.UUID, write bool) (*domain.WorkoutSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "workout session")
	}
	if _, err := s.plan(ctx, actor, session.WorkoutPlanID, write); err != nil {
		return nil, hideAs(err, "workout session")
	}
	return session, nil
}

func (s *workoutSessionService) List(ctx context.Context, actor domain.Actor, planID uuid.UUID) ([]domain.WorkoutSession, error) {
	if _, err := s.plan(ctx, actor, planID, false); err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListByPlan(ctx, planID)
	if err != nil {
		return nil, storeErr(err, "workout session")
	}
	return sessions, nil
}

func (s *workoutSessionService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.WorkoutSession, error) {
	return s.session(ctx, actor, id, false)
}

func (s *workoutSessionService) Create(ctx context.Context, actor domain.Actor, in domain.WorkoutSessionInput) (*domain.WorkoutSession, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if _, err := s.plan(ctx, actor, in.WorkoutPlanID, true); err != nil {
		return nil, err
	}
	session := &domain.WorkoutSession{
		WorkoutPlanID:      in.WorkoutPlanID,
		Name:               strings.TrimSpace(in.Name),
		Description:        in.Description,
		SuggestedDayOfWeek: in.SuggestedDayOfWeek,
		SuggestedWeek:      in.SuggestedWeek,
		Order:              in.Order,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, storeErr(err, "workout session")
	}
	return session, nil
}

func (s *workoutSessionService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.WorkoutSessionPatch) (*domain.WorkoutSession, error) {
	patch.Name = trimmed(patch.Name)
	if err := validate(patch); err != nil {
		return nil, err
	}
	session, err := s.session(ctx, actor, id, true)
	if err != nil {
		return nil, err
	}
	changes := patch.Changes()
	if len(changes) == 0 {
		return session, nil
	}
	if err := s.sessions.Update(ctx, id, changes); err != nil {
		return nil, storeErr(err, "workout session")
	}
	return s.Get(ctx, actor, id)
}

func (s *workoutSessionService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if _, err := s.session(ctx, actor, id, true); err != nil {
		return err
	}
	return storeErr(s.sessions.Delete(ctx, id), "workout session")
}

func (s *workoutSessionService) ListExercises(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) ([]domain.SessionExercise, error) {
	if _, err := s.session(ctx, actor, sessionID, false); err != nil {
		return nil, err
	}
	items, err := s.sessionExercises.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, storeErr(err, "session exercise")
	}
	return items, nil
}

func (s *workoutSessionService) AddExercise(ctx context.Context, actor domain.Actor, sessionID uuid.UUID, in domain.SessionExerciseInput) (*domain.SessionExercise, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if _, err := s.session(ctx, actor, sessionID, true); err != nil {
		return nil, err
	}

	// The coach may only prescribe exercises they can see.
	exercise, err := s.exercises.GetByID(ctx, in.ExerciseID)
	if err != nil {
		return nil, storeErr(err, "exercise")
	}
	if !exercise.IsBaseExercise && !exercise.OwnedBy(actor.UserID) {
		return nil, apperr.NotFound("exercise")
	}

	item := &domain.SessionExercise{
		WorkoutSessionID: sessionID,
		ExerciseID:       in.ExerciseID,
		Sets:             in.Sets,
		Reps:             in.Reps,
		Duration:         in.Duration,
		RestTime:         in.RestTime,
		Order:            in.Order,
		Notes:            in.Notes,
	}
	if err := s.sessionExercises.Create(ctx, item); err != nil {
		return nil, storeErr(err, "session exercise")
	}
	item.Exercise = exercise
	return item, nil
}

func (s *workoutSessionService) sessionExercise(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.SessionExercise, error) {
	item, err := s.sessionExercises.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "session exercise")
	}
	if _, err := s.session(ctx, actor, item.WorkoutSessionID, true); err != nil {
		return nil, hideAs(err, "session exercise")
	}
	return item, nil
}

func (s *workoutSessionService) UpdateExercise(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.SessionExercisePatch) (*domain.SessionExercise, error) {
	if err := validate(patch); err != nil {
		return nil, err
	}
	item, err := s.sessionExercise(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	changes := patch.Changes()
	if len(changes) == 0 {
		return item, nil
	}
	if err := s.sessionExercises.Update(ctx, id, changes); err != nil {
		return nil, storeErr(err, "session exercise")
	}
	updated, err := s.sessionExercises.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "session exercise")
	}
	return updated, nil
}

func (s *workoutSessionService) RemoveExercise(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if _, err := s.sessionExercise(ctx, actor, id); err != nil {
		return err
	}
	return storeErr(s.sessionExercises.Delete(ctx, id), "session exercise")
}
