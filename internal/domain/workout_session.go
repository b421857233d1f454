package domain

import (
	"time"

	"github.com/google/uuid"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// WorkoutSession is one ordered workout within a plan.
type WorkoutSession struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutPlanID      uuid.UUID `gorm:"type:uuid;not null;index" json:"workoutPlanId"`
	Name               string    `gorm:"not null" json:"name"`
	Description        string    `json:"description,omitempty"`
	SuggestedDayOfWeek Weekday   `json:"suggestedDayOfWeek,omitempty"`
	SuggestedWeek      *int      `json:"suggestedWeek,omitempty"`
	Order              int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`

	Exercises []SessionExercise `gorm:"foreignKey:WorkoutSessionID" json:"exercises,omitempty"`
}

type WorkoutSessionInput struct {
	WorkoutPlanID      uuid.UUID `json:"workoutPlanId" binding:"required"`
	Name               string    `json:"name" binding:"required,min=1,max=200"`
	Description        string    `json:"description" binding:"omitempty,max=2000"`
	SuggestedDayOfWeek Weekday   `json:"suggestedDayOfWeek" binding:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	SuggestedWeek      *int      `json:"suggestedWeek" binding:"omitempty,min=1"`
	Order              int       `json:"order" binding:"min=0"`
}

type WorkoutSessionPatch struct {
	Name               *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Description        *string  `json:"description" binding:"omitempty,max=2000"`
	SuggestedDayOfWeek *Weekday `json:"suggestedDayOfWeek" binding:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	SuggestedWeek      *int     `json:"suggestedWeek" binding:"omitempty,min=1"`
	Order              *int     `json:"order" binding:"omitempty,min=0"`
}

func (p WorkoutSessionPatch) Changes() map[string]any {
	changes := map[string]any{}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	if p.SuggestedDayOfWeek != nil {
		changes["suggested_day_of_week"] = *p.SuggestedDayOfWeek
	}
	if p.SuggestedWeek != nil {
		changes["suggested_week"] = *p.SuggestedWeek
	}
	if p.Order != nil {
		changes["sort_order"] = *p.Order
	}
	return changes
}

// SessionExercise places a library exercise in a session with its prescription.
type SessionExercise struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutSessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"workoutSessionId"`
	ExerciseID       uuid.UUID `gorm:"type:uuid;not null" json:"exerciseId"`
	Sets             *int      `json:"sets,omitempty"`
	Reps             *int      `json:"reps,omitempty"`
	Duration         *int      `json:"duration,omitempty"` // seconds
	RestTime         *int      `json:"restTime,omitempty"` // seconds
	Order            int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	Exercise *Exercise `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`
}

type SessionExerciseInput struct {
	ExerciseID uuid.UUID `json:"exerciseId" binding:"required"`
	Sets       *int      `json:"sets" binding:"omitempty,min=1,max=100"`
	Reps       *int      `json:"reps" binding:"omitempty,min=1,max=1000"`
	Duration   *int      `json:"duration" binding:"omitempty,min=1"`
	RestTime   *int      `json:"restTime" binding:"omitempty,min=0"`
	Order      int       `json:"order" binding:"min=0"`
	Notes      string    `json:"notes" binding:"omitempty,max=2000"`
}

type SessionExercisePatch struct {
	Sets     *int    `json:"sets" binding:"omitempty,min=1,max=100"`
	Reps     *int    `json:"reps" binding:"omitempty,min=1,max=1000"`
	Duration *int    `json:"duration" binding:"omitempty,min=1"`
	RestTime *int    `json:"restTime" binding:"omitempty,min=0"`
	Order    *int    `json:"order" binding:"omitempty,min=0"`
	Notes    *string `json:"notes" binding:"omitempty,max=2000"`
}

func (p SessionExercisePatch) Changes() map[string]any {
	changes := map[string]any{}
	if p.Sets != nil {
		changes["sets"] = *p.Sets
	}
	if p.Reps != nil {
		changes["reps"] = *p.Reps
	}
	if p.Duration != nil {
		changes["duration"] = *p.Duration
	}
	if p.RestTime != nil {
		changes["rest_time"] = *p.RestTime
	}
	if p.Order != nil {
		changes["sort_order"] = *p.Order
	}
	if p.Notes != nil {
		changes["notes"] = *p.Notes
	}
	return changes
}
