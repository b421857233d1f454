// Package service holds the business operations behind every API namespace.
// Each operation receives the authenticated caller as a domain.Actor.
package service

import (
	"errors"
	"strings"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/repository"
	"supacoach/coach-api/internal/validation"
)

var (
	ErrAuthenticationFailed = apperr.New(apperr.CodeUnauthorized, "invalid email or password")
	ErrCoachOnly            = apperr.New(apperr.CodeForbidden, "only coaches can perform this action")
	ErrClientOnly           = apperr.New(apperr.CodeForbidden, "only clients can perform this action")
)

// storeErr translates a repository failure into the API error taxonomy.
// what names the entity for not-found and conflict messages.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case apperr.As(err) != nil:
		return err
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(what)
	case errors.Is(err, repository.ErrConflict):
		return apperr.Wrap(apperr.CodeConflict, err, what+" conflicts with existing data")
	}
	return apperr.Dependency(err, "database unavailable")
}

// validate runs the shared validator, so services enforce input rules even
// when called outside the HTTP binding path.
func validate(obj any) error {
	if err := validation.Struct(obj); err != nil {
		return validation.FromError(err)
	}
	return nil
}

// trimmed trims a patch field in place so validation sees the stored value.
func trimmed(field *string) *string {
	if field == nil {
		return nil
	}
	v := strings.TrimSpace(*field)
	return &v
}

func requireCoach(actor domain.Actor) error {
	if !actor.IsCoach() {
		return ErrCoachOnly
	}
	return nil
}

func requireClient(actor domain.Actor) error {
	if !actor.IsClient() {
		return ErrClientOnly
	}
	return nil
}
