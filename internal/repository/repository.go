package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"supacoach/coach-api/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Update methods take a column->value map built from a domain patch and
// return ErrNotFound when the scoped row does not exist.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetWithProfile(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, changes map[string]any) error
}

type RelationshipRepository interface {
	Create(ctx context.Context, rel *domain.CoachClientRelationship) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CoachClientRelationship, error)
	Get(ctx context.Context, coachID, clientID uuid.UUID) (*domain.CoachClientRelationship, error)
	// ListByCoach preloads each client with their profile.
	ListByCoach(ctx context.Context, coachID uuid.UUID) ([]domain.CoachClientRelationship, error)
	// ListByClient preloads each coach.
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.CoachClientRelationship, error)
	UpdateStatus(ctx context.Context, coachID, clientID uuid.UUID, status domain.RelationshipStatus) error
	// Confirm moves a pending relationship of clientID to active.
	Confirm(ctx context.Context, id, clientID uuid.UUID) error
	CountByCoach(ctx context.Context, coachID uuid.UUID) (int64, error)
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *domain.Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error)
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	ListByCoach(ctx context.Context, coachID uuid.UUID) ([]domain.Invitation, error)
	// Claim flips a pending, unexpired invitation to accepted. It reports
	// false when another caller got there first or the invitation expired.
	Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)
	// ListVisible returns the base library plus exercises owned by coachID.
	ListVisible(ctx context.Context, coachID uuid.UUID) ([]domain.Exercise, error)
	Update(ctx context.Context, id, coachID uuid.UUID, changes map[string]any) error
	Delete(ctx context.Context, id, coachID uuid.UUID) error
}

type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutPlan, error)
	ListByCoach(ctx context.Context, coachID uuid.UUID) ([]domain.WorkoutPlan, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.WorkoutPlan, error)
	ListByCoachAndClient(ctx context.Context, coachID, clientID uuid.UUID) ([]domain.WorkoutPlan, error)
	Update(ctx context.Context, id, coachID uuid.UUID, changes map[string]any) error
	Delete(ctx context.Context, id, coachID uuid.UUID) error
	CountByCoach(ctx context.Context, coachID uuid.UUID) (int64, error)
}

type WorkoutSessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutSession, error)
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]domain.WorkoutSession, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SessionExerciseRepository interface {
	Create(ctx context.Context, se *domain.SessionExercise) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SessionExercise, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.SessionExercise, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type WorkoutLogRepository interface {
	// Create persists the log and its ExerciseLogs.
	Create(ctx context.Context, log *domain.WorkoutLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutLog, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.WorkoutLog, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	// RecentForCoach returns logs of clients related to coachID performed on
	// or after since, newest first.
	RecentForCoach(ctx context.Context, coachID uuid.UUID, since domain.Date, limit int) ([]domain.RecentWorkoutLog, error)
}

type ProgressLogRepository interface {
	Create(ctx context.Context, log *domain.ProgressLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressLog, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.ProgressLog, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProgressPhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressPhoto, error)
	ListByLog(ctx context.Context, logID uuid.UUID) ([]domain.ProgressPhoto, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Goal, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	// Conversation returns messages exchanged between a and b, newest first.
	Conversation(ctx context.Context, a, b uuid.UUID, limit int) ([]domain.Message, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

// TxRepositories are repositories bound to one transaction.
type TxRepositories struct {
	Users         UserRepository
	Profiles      ProfileRepository
	Relationships RelationshipRepository
	Invitations   InvitationRepository
	Goals         GoalRepository
	WorkoutLogs   WorkoutLogRepository
}

// Transactor runs fn atomically. Any error returned by fn rolls back every
// write made through the supplied repositories.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
