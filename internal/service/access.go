package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
)

// access answers "may this actor touch that client's data". Denials are
// reported as not-found so callers cannot probe for other coaches' clients.
type access struct {
	relationships repository.RelationshipRepository
}

// client allows the client themself, or a coach whose relationship with the
// client is not terminated.
func (a access) client(ctx context.Context, actor domain.Actor, clientID uuid.UUID) error {
	switch {
	case actor.IsClient() && actor.UserID == clientID:
		return nil
	case actor.IsCoach():
		return a.coachOf(ctx, actor.UserID, clientID)
	}
	return apperr.NotFound("client")
}

// coachOf requires a non-terminated relationship between coachID and clientID.
func (a access) coachOf(ctx context.Context, coachID, clientID uuid.UUID) error {
	rel, err := a.relationships.Get(ctx, coachID, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("client")
	}
	if err != nil {
		return storeErr(err, "client")
	}
	if !rel.Grants() {
		return apperr.NotFound("client")
	}
	return nil
}

// related reports whether a and b are a coach and client sharing a
// non-terminated relationship, in either direction.
func (a access) related(ctx context.Context, actor domain.Actor, other uuid.UUID) error {
	switch {
	case actor.IsCoach():
		return a.coachOf(ctx, actor.UserID, other)
	case actor.IsClient():
		return a.coachOf(ctx, other, actor.UserID)
	}
	return apperr.NotFound("user")
}

// planReadable allows the owning coach and the assigned client.
func planReadable(actor domain.Actor, plan *domain.WorkoutPlan) bool {
	return plan.CoachID == actor.UserID || plan.ClientID == actor.UserID
}

// hideAs renames a not-found from an access check after the entity being
// looked up, leaving other failures untouched.
func hideAs(err error, what string) error {
	if apperr.Is(err, apperr.CodeNotFound) {
		return apperr.NotFound(what)
	}
	return err
}
