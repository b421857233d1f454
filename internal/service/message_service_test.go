package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
)

func TestMessagesBetweenCoachAndClient(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	coach := st.user(t, "Coach", domain.RoleCoach)
	ann := st.user(t, "Ann", domain.RoleClient)
	st.link(t, coach, ann, domain.RelationshipActive)
	svc := NewMessageService(st.messages, st.relationships, nil)

	msg, err := svc.Send(ctx, coach, domain.MessageInput{RecipientID: ann.UserID, Content: "Great session today"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, ann, domain.MessageInput{RecipientID: coach.UserID, Content: "Thanks!"})
	require.NoError(t, err)

	unread, err := svc.UnreadCount(ctx, ann)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	convo, err := svc.Conversation(ctx, ann, coach.UserID, 0)
	require.NoError(t, err)
	assert.Len(t, convo, 2)

	err = svc.MarkRead(ctx, coach, msg.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound), "only the recipient marks read")
	require.NoError(t, svc.MarkRead(ctx, ann, msg.ID))

	unread, err = svc.UnreadCount(ctx, ann)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestMessagesRequireRelationship(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	coach := st.user(t, "Coach", domain.RoleCoach)
	stranger := st.user(t, "Stranger", domain.RoleClient)
	svc := NewMessageService(st.messages, st.relationships, nil)

	_, err := svc.Send(ctx, coach, domain.MessageInput{RecipientID: stranger.UserID, Content: "hello"})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = svc.Conversation(ctx, stranger, coach.UserID, 10)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = svc.Send(ctx, coach, domain.MessageInput{RecipientID: stranger.UserID})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}
