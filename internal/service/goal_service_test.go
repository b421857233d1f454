package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
)

func TestGoalLifecycle(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	coach := st.user(t, "Coach", domain.RoleCoach)
	ann := st.user(t, "Ann", domain.RoleClient)
	st.link(t, coach, ann, domain.RelationshipActive)
	svc := NewGoalService(st.goals, st.relationships)

	goal, err := svc.Create(ctx, coach, domain.GoalInput{ClientID: ann.UserID, Description: "Deadlift 140kg"})
	require.NoError(t, err)
	assert.Equal(t, domain.GoalActive, goal.Status)

	achieved := domain.GoalAchieved
	updated, err := svc.Update(ctx, ann, goal.ID, domain.GoalPatch{Status: &achieved})
	require.NoError(t, err)
	assert.Equal(t, domain.GoalAchieved, updated.Status)
	assert.Equal(t, "Deadlift 140kg", updated.Description)

	bogus := domain.GoalStatus("paused")
	_, err = svc.Update(ctx, ann, goal.ID, domain.GoalPatch{Status: &bogus})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	goals, err := svc.List(ctx, ann, ann.UserID)
	require.NoError(t, err)
	assert.Len(t, goals, 1)

	require.NoError(t, st.relationships.UpdateStatus(ctx, coach.UserID, ann.UserID, domain.RelationshipTerminated))
	_, err = svc.List(ctx, coach, ann.UserID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound), "terminated coaches lose access")

	require.NoError(t, svc.Delete(ctx, ann, goal.ID))
	goals, err = svc.List(ctx, ann, ann.UserID)
	require.NoError(t, err)
	assert.Empty(t, goals)
}
