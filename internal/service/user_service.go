package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

type UserService interface {
	GetCurrentUser(ctx context.Context, actor domain.Actor) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, patch domain.ProfilePatch) (*domain.User, error)
	// ListCoaches returns the relationships of a client, each with its coach.
	ListCoaches(ctx context.Context, actor domain.Actor) ([]domain.CoachClientRelationship, error)
	ConfirmCoach(ctx context.Context, actor domain.Actor, relationshipID uuid.UUID) (*domain.CoachClientRelationship, error)
}

type userService struct {
	users         repository.UserRepository
	relationships repository.RelationshipRepository
	tx            repository.Transactor
}

func NewUserService(users repository.UserRepository, relationships repository.RelationshipRepository, tx repository.Transactor) UserService {
	return &userService{users: users, relationships: relationships, tx: tx}
}

func (s *userService) GetCurrentUser(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	user, err := s.users.GetWithProfile(ctx, actor.UserID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return user, nil
}

// UpdateProfile writes the name and the profile columns in one transaction.
func (s *userService) UpdateProfile(ctx context.Context, actor domain.Actor, patch domain.ProfilePatch) (*domain.User, error) {
	if err := validate(patch); err != nil {
		return nil, err
	}

	changes := patch.ProfileChanges()
	if patch.Name == nil && len(changes) == 0 {
		return s.GetCurrentUser(ctx, actor)
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		if patch.Name != nil {
			if err := repos.Users.UpdateName(ctx, actor.UserID, strings.TrimSpace(*patch.Name)); err != nil {
				return err
			}
		}
		if len(changes) > 0 {
			return repos.Profiles.Update(ctx, actor.UserID, changes)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "profile")
	}
	return s.GetCurrentUser(ctx, actor)
}

func (s *userService) ListCoaches(ctx context.Context, actor domain.Actor) ([]domain.CoachClientRelationship, error) {
	if err := requireClient(actor); err != nil {
		return nil, err
	}
	rels, err := s.relationships.ListByClient(ctx, actor.UserID)
	if err != nil {
		return nil, storeErr(err, "relationship")
	}
	return rels, nil
}

func (s *userService) ConfirmCoach(ctx context.Context, actor domain.Actor, relationshipID uuid.UUID) (*domain.CoachClientRelationship, error) {
	if err := requireClient(actor); err != nil {
		return nil, err
	}
	if err := s.relationships.Confirm(ctx, relationshipID, actor.UserID); err != nil {
		return nil, storeErr(err, "relationship")
	}
	rel, err := s.relationships.GetByID(ctx, relationshipID)
	if err != nil {
		return nil, storeErr(err, "relationship")
	}
	return rel, nil
}
