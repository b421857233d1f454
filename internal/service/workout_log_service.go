package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type WorkoutLogService interface {
	List(ctx context.Context, actor domain.Actor, clientID uuid.UUID) ([]domain.WorkoutLog, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.WorkoutLog, error)
	Create(ctx context.Context, actor domain.Actor, in domain.WorkoutLogInput) (*domain.WorkoutLog, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.WorkoutLogPatch) (*domain.WorkoutLog, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

type workoutLogService struct {
	logs     repository.WorkoutLogRepository
	sessions repository.WorkoutSessionRepository
	plans    repository.WorkoutPlanRepository
	tx       repository.Transactor
	access   access
}

func NewWorkoutLogService(
	logs repository.WorkoutLogRepository,
	sessions repository.WorkoutSessionRepository,
	plans repository.WorkoutPlanRepository,
	relationships repository.RelationshipRepository,
	tx repository.Transactor,
) WorkoutLogService {
	return &workoutLogService{
		logs:     logs,
		sessions: sessions,
		plans:    plans,
		tx:       tx,
		access:   access{relationships: relationships},
	}
}

func (s *workoutLogService) List(ctx context.Context, actor domain.Actor, clientID uuid.UUID) ([]domain.WorkoutLog, error) {
	if err := s.access.client(ctx, actor, clientID); err != nil {
		return nil, err
	}
	logs, err := s.logs.ListByClient(ctx, clientID)
	if err != nil {
		return nil, storeErr(err, "workout log")
	}
	return logs, nil
}

func (s *workoutLogService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.WorkoutLog, error) {
	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "workout log")
	}
	if err := s.access.client(ctx, actor, log.ClientID); err != nil {
		return nil, hideAs(err, "workout log")
	}
	return log, nil
}

// Create records a performed session. The session must belong to a plan of
// the client, and every exercise log must point at one of its exercises.
func (s *workoutLogService) Create(ctx context.Context, actor domain.Actor, in domain.WorkoutLogInput) (*domain.WorkoutLog, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := s.access.client(ctx, actor, in.ClientID); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, in.WorkoutSessionID)
	if err != nil {
		return nil, storeErr(err, "workout session")
	}
	plan, err := s.plans.GetByID(ctx, session.WorkoutPlanID)
	if err != nil {
		return nil, storeErr(err, "workout plan")
	}
	if plan.ClientID != in.ClientID {
		return nil, apperr.Validation("validation failed", map[string]string{
			"workoutSessionId": "does not belong to a plan of this client",
		})
	}

	prescribed := make(map[uuid.UUID]bool, len(session.Exercises))
	for _, item := range session.Exercises {
		prescribed[item.ID] = true
	}

	log := &domain.WorkoutLog{
		ClientID:         in.ClientID,
		WorkoutSessionID: in.WorkoutSessionID,
		DatePerformed:    in.DatePerformed,
		Status:           in.Status,
		Notes:            in.Notes,
	}
	for i, entry := range in.ExerciseLogs {
		if !prescribed[entry.SessionExerciseID] {
			return nil, apperr.Validation("validation failed", map[string]string{
				fmt.Sprintf("exerciseLogs[%d].sessionExerciseId", i): "is not part of this session",
			})
		}
		log.ExerciseLogs = append(log.ExerciseLogs, domain.ExerciseLog{
			SessionExerciseID: entry.SessionExerciseID,
			SetsCompleted:     entry.SetsCompleted,
			RepsCompleted:     entry.RepsCompleted,
			DurationCompleted: entry.DurationCompleted,
			WeightUsed:        entry.WeightUsed,
			Notes:             entry.Notes,
		})
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		return repos.WorkoutLogs.Create(ctx, log)
	})
	if err != nil {
		return nil, storeErr(err, "workout log")
	}
	return log, nil
}

func (s *workoutLogService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.WorkoutLogPatch) (*domain.WorkoutLog, error) {
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
		return nil, storeErr(err, "workout log")
	}
	return s.Get(ctx, actor, id)
}

func (s *workoutLogService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		return storeErr(repos.WorkoutLogs.Delete(ctx, id), "workout log")
	})
}
