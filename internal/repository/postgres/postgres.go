// Package postgres implements the repository interfaces with GORM.
package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supacoach/coach-api/internal/database"
	"supacoach/coach-api/internal/repository"
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return repository.ErrConflict
	}
	return err
}

// affected turns a write that matched nothing into ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

type transactor struct {
	client *database.Client
}

// NewTransactor returns a repository.Transactor backed by client.
func NewTransactor(client *database.Client) repository.Transactor {
	return &transactor{client: client}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	return t.client.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(ctx, repository.TxRepositories{
			Users:         NewUserRepository(tx),
			Profiles:      NewProfileRepository(tx),
			Relationships: NewRelationshipRepository(tx),
			Invitations:   NewInvitationRepository(tx),
			Goals:         NewGoalRepository(tx),
			WorkoutLogs:   NewWorkoutLogRepository(tx),
		})
	})
}
