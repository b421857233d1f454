package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
)

func TestWorkoutLogCreateChecksSession(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	coach := st.user(t, "Coach", domain.RoleCoach)
	ann := st.user(t, "Ann", domain.RoleClient)
	ben := st.user(t, "Ben", domain.RoleClient)
	st.link(t, coach, ann, domain.RelationshipActive)
	st.link(t, coach, ben, domain.RelationshipActive)
	_, annSession, annItem := st.plan(t, coach, ann)
	_, benSession, benItem := st.plan(t, coach, ben)
	svc := NewWorkoutLogService(st.workoutLogs, st.sessions, st.plans, st.relationships, st.tx)
	today := domain.NewDate(time.Now())

	log, err := svc.Create(ctx, ann, domain.WorkoutLogInput{
		ClientID:         ann.UserID,
		WorkoutSessionID: annSession.ID,
		DatePerformed:    today,
		Status:           domain.WorkoutCompleted,
		ExerciseLogs:     []domain.ExerciseLogInput{{SessionExerciseID: annItem.ID, SetsCompleted: ptr(3), WeightUsed: ptr(60.0)}},
	})
	require.NoError(t, err)
	require.Len(t, log.ExerciseLogs, 1)

	_, err = svc.Create(ctx, ann, domain.WorkoutLogInput{
		ClientID:         ann.UserID,
		WorkoutSessionID: benSession.ID,
		DatePerformed:    today,
		Status:           domain.WorkoutCompleted,
	})
	require.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.Contains(t, apperr.As(err).Details(), "workoutSessionId")

	_, err = svc.Create(ctx, ann, domain.WorkoutLogInput{
		ClientID:         ann.UserID,
		WorkoutSessionID: annSession.ID,
		DatePerformed:    today,
		Status:           domain.WorkoutPartiallyCompleted,
		ExerciseLogs:     []domain.ExerciseLogInput{{SessionExerciseID: benItem.ID}},
	})
	require.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.Contains(t, apperr.As(err).Details(), "exerciseLogs[0].sessionExerciseId")

	_, err = svc.Create(ctx, ann, domain.WorkoutLogInput{
		ClientID:         ben.UserID,
		WorkoutSessionID: benSession.ID,
		DatePerformed:    today,
		Status:           domain.WorkoutCompleted,
	})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound), "a client cannot log for someone else")
}

func TestWorkoutLogUpdateAndDelete(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	coach := st.user(t, "Coach", domain.RoleCoach)
	ann := st.user(t, "Ann", domain.RoleClient)
	st.link(t, coach, ann, domain.RelationshipActive)
	_, session, _ := st.plan(t, coach, ann)
	svc := NewWorkoutLogService(st.workoutLogs, st.sessions, st.plans, st.relationships, st.tx)

	log, err := svc.Create(ctx, ann, domain.WorkoutLogInput{
		ClientID:         ann.UserID,
		WorkoutSessionID: session.ID,
		DatePerformed:    domain.NewDate(time.Now()),
		Status:           domain.WorkoutMissed,
	})
	require.NoError(t, err)

	status := domain.WorkoutCompleted
	updated, err := svc.Update(ctx, coach, log.ID, domain.WorkoutLogPatch{Status: &status, Notes: ptr("made it up on Sunday")})
	require.NoError(t, err)
	assert.Equal(t, domain.WorkoutCompleted, updated.Status)
	assert.Equal(t, "made it up on Sunday", updated.Notes)

	logs, err := svc.List(ctx, coach, ann.UserID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	require.NoError(t, svc.Delete(ctx, ann, log.ID))
	_, err = svc.Get(ctx, ann, log.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
