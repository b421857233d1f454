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

func dateOf(t *testing.T, value string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(value)
	require.NoError(t, err)
	return d
}

func TestWorkoutPlanLifecycle(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	coach := st.user(t, "Coach", domain.RoleCoach)
	client := st.user(t, "Ann", domain.RoleClient)
	st.link(t, coach, client, domain.RelationshipActive)
	svc := NewWorkoutPlanService(st.plans, st.relationships)

	end := dateOf(t, "2026-03-31")
	plan, err := svc.Create(ctx, coach, domain.WorkoutPlanInput{
		ClientID:    client.UserID,
		Name:        " Spring Block ",
		Description: "Base building",
		StartDate:   dateOf(t, "2026-03-01"),
		EndDate:     &end,
	})
	require.NoError(t, err)
	assert.Equal(t, "Spring Block", plan.Name)

	renamed, err := svc.Update(ctx, coach, plan.ID, domain.WorkoutPlanPatch{Name: ptr("  Summer Block\t")})
	require.NoError(t, err)
	assert.Equal(t, "Summer Block", renamed.Name)
	assert.Equal(t, "Base building", renamed.Description)
	require.NotNil(t, renamed.EndDate)
	assert.Equal(t, "2026-03-31", renamed.EndDate.String())

	_, err = svc.Update(ctx, coach, plan.ID, domain.WorkoutPlanPatch{Name: ptr("   ")})
	require.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.Contains(t, apperr.As(err).Details(), "name")

	unchanged, err := svc.Update(ctx, coach, plan.ID, domain.WorkoutPlanPatch{})
	require.NoError(t, err)
	assert.Equal(t, "Summer Block", unchanged.Name)

	_, err = svc.Update(ctx, coach, plan.ID, domain.WorkoutPlanPatch{StartDate: ptr(dateOf(t, "2026-04-15"))})
	require.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.Contains(t, apperr.As(err).Details(), "endDate")

	asClient, err := svc.List(ctx, client)
	require.NoError(t, err)
	require.Len(t, asClient, 1)

	got, err := svc.Get(ctx, client, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.ID)

	_, err = svc.Update(ctx, client, plan.ID, domain.WorkoutPlanPatch{Name: ptr("Mine")})
	assert.ErrorIs(t, err, ErrCoachOnly)

	require.NoError(t, svc.Delete(ctx, coach, plan.ID))
	_, err = svc.Get(ctx, coach, plan.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestWorkoutPlanCreateValidation(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	coach := st.user(t, "Coach", domain.RoleCoach)
	client := st.user(t, "Ann", domain.RoleClient)
	st.link(t, coach, client, domain.RelationshipActive)
	svc := NewWorkoutPlanService(st.plans, st.relationships)

	end := dateOf(t, "2026-02-01")
	_, err := svc.Create(ctx, coach, domain.WorkoutPlanInput{ClientID: client.UserID, Name: "Block", StartDate: dateOf(t, "2026-03-01"), EndDate: &end})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = svc.Create(ctx, coach, domain.WorkoutPlanInput{ClientID: client.UserID, Name: "Block"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation), "start date is required")

	stranger := st.user(t, "Stranger", domain.RoleClient)
	_, err = svc.Create(ctx, coach, domain.WorkoutPlanInput{ClientID: stranger.UserID, Name: "Block", StartDate: domain.NewDate(time.Now())})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestCoachCannotReachAnotherCoachesData(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	coach := st.user(t, "Coach", domain.RoleCoach)
	intruder := st.user(t, "Intruder", domain.RoleCoach)
	client := st.user(t, "Ann", domain.RoleClient)
	st.link(t, coach, client, domain.RelationshipActive)
	plan, session, _ := st.plan(t, coach, client)

	plans := NewWorkoutPlanService(st.plans, st.relationships)
	_, err := plans.Get(ctx, intruder, plan.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	err = plans.Delete(ctx, intruder, plan.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	sessions := NewWorkoutSessionService(st.plans, st.sessions, st.sessionExercises, st.exercises)
	_, err = sessions.Get(ctx, intruder, session.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	logs := NewWorkoutLogService(st.workoutLogs, st.sessions, st.plans, st.relationships, st.tx)
	_, err = logs.List(ctx, intruder, client.UserID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	clients := NewClientService(st.users, st.relationships, st.plans, st.progressLogs, st.goals, nil)
	_, err = clients.GetClientDetails(ctx, intruder, client.UserID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
