package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

// recentWindow is how far back the dashboard looks for workout logs.
const recentWindow = 7 * 24 * time.Hour

type DashboardService interface {
	GetStats(ctx context.Context, actor domain.Actor) (*domain.DashboardStats, error)
}

type dashboardService struct {
	relationships repository.RelationshipRepository
	plans         repository.WorkoutPlanRepository
	workoutLogs   repository.WorkoutLogRepository
	now           func() time.Time
}

func NewDashboardService(
	relationships repository.RelationshipRepository,
	plans repository.WorkoutPlanRepository,
	workoutLogs repository.WorkoutLogRepository,
) DashboardService {
	return &dashboardService{
		relationships: relationships,
		plans:         plans,
		workoutLogs:   workoutLogs,
		now:           time.Now,
	}
}

// GetStats issues the three independent reads concurrently. The first
// failure cancels the others.
func (s *dashboardService) GetStats(ctx context.Context, actor domain.Actor) (*domain.DashboardStats, error) {
	if err := requireCoach(actor); err != nil {
		return nil, err
	}

	since := domain.NewDate(s.now().Add(-recentWindow))
	var stats domain.DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.relationships.CountByCoach(gctx, actor.UserID)
		stats.ClientCount = count
		return err
	})
	g.Go(func() error {
		count, err := s.plans.CountByCoach(gctx, actor.UserID)
		stats.WorkoutPlanCount = count
		return err
	})
	g.Go(func() error {
		logs, err := s.workoutLogs.RecentForCoach(gctx, actor.UserID, since, domain.RecentWorkoutLogLimit)
		stats.RecentWorkoutLogs = logs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeErr(err, "dashboard")
	}

	if stats.RecentWorkoutLogs == nil {
		stats.RecentWorkoutLogs = []domain.RecentWorkoutLog{}
	}
	return &stats, nil
}
