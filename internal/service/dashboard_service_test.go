package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supacoach/coach-api/internal/domain"
)

func TestDashboardStats(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)

	coach := st.user(t, "Coach", domain.RoleCoach)
	clients := []domain.Actor{
		st.user(t, "Ann", domain.RoleClient),
		st.user(t, "Ben", domain.RoleClient),
		st.user(t, "Cat", domain.RoleClient),
	}
	for _, client := range clients {
		st.link(t, coach, client, domain.RelationshipActive)
	}
	_, session, _ := st.plan(t, coach, clients[0])
	_, _, _ = st.plan(t, coach, clients[1])

	for day := 0; day < 5; day++ {
		require.NoError(t, st.workoutLogs.Create(ctx, &domain.WorkoutLog{
			ClientID:         clients[0].UserID,
			WorkoutSessionID: session.ID,
			DatePerformed:    domain.NewDate(now.AddDate(0, 0, -day)),
			Status:           domain.WorkoutCompleted,
		}))
	}
	require.NoError(t, st.workoutLogs.Create(ctx, &domain.WorkoutLog{
		ClientID:         clients[0].UserID,
		WorkoutSessionID: session.ID,
		DatePerformed:    domain.NewDate(now.AddDate(0, 0, -8)),
		Status:           domain.WorkoutMissed,
	}))

	// Another coach's data stays out.
	otherCoach := st.user(t, "Other", domain.RoleCoach)
	st.link(t, otherCoach, st.user(t, "Dan", domain.RoleClient), domain.RelationshipActive)

	svc := NewDashboardService(st.relationships, st.plans, st.workoutLogs).(*dashboardService)
	svc.now = func() time.Time { return now }

	stats, err := svc.GetStats(ctx, coach)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.ClientCount)
	assert.Equal(t, int64(2), stats.WorkoutPlanCount)
	require.Len(t, stats.RecentWorkoutLogs, 5)
	dates := make([]string, 0, len(stats.RecentWorkoutLogs))
	for _, entry := range stats.RecentWorkoutLogs {
		dates = append(dates, entry.DatePerformed.String())
		assert.Equal(t, "Ann", entry.ClientName)
		assert.Equal(t, "Push", entry.SessionName)
	}
	assert.Equal(t, []string{"2026-05-20", "2026-05-19", "2026-05-18", "2026-05-17", "2026-05-16"}, dates)
}

func TestDashboardStatsCapsRecentLogs(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)

	coach := st.user(t, "Coach", domain.RoleCoach)
	client := st.user(t, "Ann", domain.RoleClient)
	st.link(t, coach, client, domain.RelationshipActive)
	_, session, _ := st.plan(t, coach, client)

	for i := 0; i < domain.RecentWorkoutLogLimit+4; i++ {
		require.NoError(t, st.workoutLogs.Create(ctx, &domain.WorkoutLog{
			ClientID:         client.UserID,
			WorkoutSessionID: session.ID,
			DatePerformed:    domain.NewDate(now.AddDate(0, 0, -(i % 7))),
			Status:           domain.WorkoutCompleted,
		}))
	}

	svc := NewDashboardService(st.relationships, st.plans, st.workoutLogs).(*dashboardService)
	svc.now = func() time.Time { return now }

	stats, err := svc.GetStats(ctx, coach)
	require.NoError(t, err)
	require.Len(t, stats.RecentWorkoutLogs, domain.RecentWorkoutLogLimit)
	assert.Equal(t, "2026-05-20", stats.RecentWorkoutLogs[0].DatePerformed.String())
	for i := 1; i < len(stats.RecentWorkoutLogs); i++ {
		prev := stats.RecentWorkoutLogs[i-1].DatePerformed
		cur := stats.RecentWorkoutLogs[i].DatePerformed
		assert.False(t, cur.After(prev.Time), "entry %d (%s) is newer than entry %d (%s)", i, cur, i-1, prev)
	}
}

func TestDashboardStatsEmpty(t *testing.T) {
	st := newStores(t)
	coach := st.user(t, "Coach", domain.RoleCoach)

	stats, err := NewDashboardService(st.relationships, st.plans, st.workoutLogs).GetStats(context.Background(), coach)
	require.NoError(t, err)
	assert.Zero(t, stats.ClientCount)
	assert.NotNil(t, stats.RecentWorkoutLogs)
	assert.Empty(t, stats.RecentWorkoutLogs)

	_, err = NewDashboardService(st.relationships, st.plans, st.workoutLogs).GetStats(context.Background(), st.user(t, "Ann", domain.RoleClient))
	assert.ErrorIs(t, err, ErrCoachOnly)
}
