package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"supacoach/coach-api/internal/database/dbtest"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/mailer"
	"supacoach/coach-api/internal/repository"
	"supacoach/coach-api/internal/repository/postgres"
)

// stores bundles the sqlite-backed repositories a test needs.
type stores struct {
	users            repository.UserRepository
	profiles         repository.ProfileRepository
	relationships    repository.RelationshipRepository
	invitations      repository.InvitationRepository
	exercises        repository.ExerciseRepository
	plans            repository.WorkoutPlanRepository
	sessions         repository.WorkoutSessionRepository
	sessionExercises repository.SessionExerciseRepository
	workoutLogs      repository.WorkoutLogRepository
	progressLogs     repository.ProgressLogRepository
	photos           repository.ProgressPhotoRepository
	goals            repository.GoalRepository
	messages         repository.MessageRepository
	tx               repository.Transactor
}

func newStores(t *testing.T) *stores {
	t.Helper()
	client := dbtest.New(t)
	db := client.DB()
	return &stores{
		users:            postgres.NewUserRepository(db),
		profiles:         postgres.NewProfileRepository(db),
		relationships:    postgres.NewRelationshipRepository(db),
		invitations:      postgres.NewInvitationRepository(db),
		exercises:        postgres.NewExerciseRepository(db),
		plans:            postgres.NewWorkoutPlanRepository(db),
		sessions:         postgres.NewWorkoutSessionRepository(db),
		sessionExercises: postgres.NewSessionExerciseRepository(db),
		workoutLogs:      postgres.NewWorkoutLogRepository(db),
		progressLogs:     postgres.NewProgressLogRepository(db),
		photos:           postgres.NewProgressPhotoRepository(db),
		goals:            postgres.NewGoalRepository(db),
		messages:         postgres.NewMessageRepository(db),
		tx:               postgres.NewTransactor(client),
	}
}

func (s *stores) user(t *testing.T, name string, role domain.Role) domain.Actor {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{Name: name, Email: uuid.NewString() + "@example.com", PasswordHash: string(hash), Role: role}
	require.NoError(t, s.users.Create(context.Background(), u))
	if role == domain.RoleClient {
		require.NoError(t, s.profiles.Create(context.Background(), &domain.Profile{UserID: u.ID}))
	}
	return domain.Actor{UserID: u.ID, Role: role}
}

func (s *stores) link(t *testing.T, coach, client domain.Actor, status domain.RelationshipStatus) {
	t.Helper()
	require.NoError(t, s.relationships.Create(context.Background(), &domain.CoachClientRelationship{
		CoachID:  coach.UserID,
		ClientID: client.UserID,
		Status:   status,
	}))
}

// plan creates a plan with one session holding one base exercise.
func (s *stores) plan(t *testing.T, coach, client domain.Actor) (*domain.WorkoutPlan, *domain.WorkoutSession, *domain.SessionExercise) {
	t.Helper()
	ctx := context.Background()
	plan := &domain.WorkoutPlan{CoachID: coach.UserID, ClientID: client.UserID, Name: "Block A", StartDate: domain.NewDate(time.Now())}
	require.NoError(t, s.plans.Create(ctx, plan))
	session := &domain.WorkoutSession{WorkoutPlanID: plan.ID, Name: "Push"}
	require.NoError(t, s.sessions.Create(ctx, session))
	exercise := &domain.Exercise{Name: "Bench Press " + uuid.NewString(), Category: domain.CategoryStrength, IsBaseExercise: true, MusclesTargeted: []string{"chest"}}
	require.NoError(t, s.exercises.Create(ctx, exercise))
	item := &domain.SessionExercise{WorkoutSessionID: session.ID, ExerciseID: exercise.ID}
	require.NoError(t, s.sessionExercises.Create(ctx, item))
	return plan, session, item
}

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent []mailer.Invitation
}

func (f *fakeSender) SendInvitation(_ context.Context, inv mailer.Invitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, inv)
	return f.err
}

func (f *fakeSender) last() mailer.Invitation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

var errInjected = errors.New("injected failure")

// faultyTx delegates to a real transactor but lets a test break one of the
// repositories handed to the callback.
type faultyTx struct {
	repository.Transactor
	wrap func(repos *repository.TxRepositories)
}

func (f faultyTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	return f.Transactor.WithinTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		f.wrap(&repos)
		return fn(ctx, repos)
	})
}

type failingGoals struct{ repository.GoalRepository }

func (failingGoals) Create(context.Context, *domain.Goal) error { return errInjected }

type failingRelationships struct{ repository.RelationshipRepository }

func (failingRelationships) Create(context.Context, *domain.CoachClientRelationship) error {
	return errInjected
}

func ptr[T any](v T) *T { return &v }
