package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
)

func TestLinkAndConfirmExistingClient(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	coach := st.user(t, "Coach", domain.RoleCoach)
	ann := st.user(t, "Ann", domain.RoleClient)
	annUser, err := st.users.GetByID(ctx, ann.UserID)
	require.NoError(t, err)

	clients := NewClientService(st.users, st.relationships, st.plans, st.progressLogs, st.goals, nil)
	users := NewUserService(st.users, st.relationships, st.tx)

	rel, err := clients.LinkExistingClient(ctx, coach, annUser.Email)
	require.NoError(t, err)
	assert.Equal(t, domain.RelationshipPending, rel.Status)

	again, err := clients.LinkExistingClient(ctx, coach, "  "+strings.ToUpper(annUser.Email)+" ")
	require.NoError(t, err)
	assert.Equal(t, rel.ID, again.ID)

	otherCoach := st.user(t, "Other", domain.RoleCoach)
	otherUser, err := st.users.GetByID(ctx, otherCoach.UserID)
	require.NoError(t, err)
	_, err = clients.LinkExistingClient(ctx, coach, otherUser.Email)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	confirmed, err := users.ConfirmCoach(ctx, ann, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RelationshipActive, confirmed.Status)

	_, err = users.ConfirmCoach(ctx, ann, rel.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound), "already active")

	coaches, err := users.ListCoaches(ctx, ann)
	require.NoError(t, err)
	require.Len(t, coaches, 1)
	assert.Equal(t, coach.UserID, coaches[0].CoachID)

	summaries, err := clients.ListClients(ctx, coach)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.RelationshipActive, summaries[0].Status)
}

func TestClientDetailsAndStatus(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	coach := st.user(t, "Coach", domain.RoleCoach)
	ann := st.user(t, "Ann", domain.RoleClient)
	st.link(t, coach, ann, domain.RelationshipActive)
	st.plan(t, coach, ann)
	require.NoError(t, st.goals.Create(ctx, &domain.Goal{ClientID: ann.UserID, Description: "Run", Status: domain.GoalActive}))
	svc := NewClientService(st.users, st.relationships, st.plans, st.progressLogs, st.goals, nil)

	details, err := svc.GetClientDetails(ctx, coach, ann.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", details.Client.Name)
	assert.NotNil(t, details.Client.Profile)
	assert.Len(t, details.WorkoutPlans, 1)
	assert.Len(t, details.Goals, 1)

	rel, err := svc.UpdateClientStatus(ctx, coach, ann.UserID, domain.RelationshipTerminated)
	require.NoError(t, err)
	assert.Equal(t, domain.RelationshipTerminated, rel.Status)

	_, err = svc.UpdateClientStatus(ctx, coach, ann.UserID, "archived")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = svc.ListClients(ctx, ann)
	assert.ErrorIs(t, err, ErrCoachOnly)
}

func TestUpdateProfile(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	ann := st.user(t, "Ann", domain.RoleClient)
	svc := NewUserService(st.users, st.relationships, st.tx)

	user, err := svc.UpdateProfile(ctx, ann, domain.ProfilePatch{Name: ptr(" Ann Smith "), Bio: ptr("Runner"), Height: ptr(170.0)})
	require.NoError(t, err)
	assert.Equal(t, "Ann Smith", user.Name)
	require.NotNil(t, user.Profile)
	assert.Equal(t, "Runner", user.Profile.Bio)
	assert.InDelta(t, 170.0, *user.Profile.Height, 0.001)

	same, err := svc.UpdateProfile(ctx, ann, domain.ProfilePatch{})
	require.NoError(t, err)
	assert.Equal(t, "Ann Smith", same.Name)
}
