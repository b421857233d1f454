package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
)

func TestCustomExercisesBelongToTheirCoach(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	coach := st.user(t, "Coach", domain.RoleCoach)
	other := st.user(t, "Other", domain.RoleCoach)
	svc := NewExerciseService(st.exercises)

	require.NoError(t, st.exercises.Create(ctx, &domain.Exercise{Name: "Push-up", Category: domain.CategoryStrength, IsBaseExercise: true}))

	custom, err := svc.Create(ctx, coach, domain.ExerciseInput{Name: "Tempo Squat", Category: domain.CategoryStrength})
	require.NoError(t, err)
	assert.False(t, custom.IsBaseExercise)
	assert.NotNil(t, custom.MusclesTargeted)

	visible, err := svc.List(ctx, coach)
	require.NoError(t, err)
	assert.Len(t, visible, 2)
	visible, err = svc.List(ctx, other)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	_, err = svc.Get(ctx, other, custom.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	_, err = svc.Update(ctx, other, custom.ID, domain.ExercisePatch{Name: ptr("Mine now")})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	muscles := []string{"quads", "glutes"}
	updated, err := svc.Update(ctx, coach, custom.ID, domain.ExercisePatch{MusclesTargeted: &muscles})
	require.NoError(t, err)
	assert.Equal(t, muscles, updated.MusclesTargeted)
	assert.Equal(t, "Tempo Squat", updated.Name)

	_, err = svc.Create(ctx, coach, domain.ExerciseInput{Name: "Yoga", Category: "zen"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	require.NoError(t, svc.Delete(ctx, coach, custom.ID))
	_, err = svc.Get(ctx, coach, custom.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
