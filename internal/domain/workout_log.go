package domain

import (
	"time"

	"github.com/google/uuid"
)

type WorkoutLogStatus string

const (
	WorkoutCompleted          WorkoutLogStatus = "completed"
	WorkoutPartiallyCompleted WorkoutLogStatus = "partially_completed"
	WorkoutMissed             WorkoutLogStatus = "missed"
)

// WorkoutLog records a client's execution of a session on a given day.
type WorkoutLog struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"clientId"`
	WorkoutSessionID uuid.UUID        `gorm:"type:uuid;not null;index" json:"workoutSessionId"`
	DatePerformed    Date             `gorm:"not null;index" json:"datePerformed"`
	Status           WorkoutLogStatus `gorm:"not null" json:"status"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`

	Session      *WorkoutSession `gorm:"foreignKey:WorkoutSessionID" json:"session,omitempty"`
	ExerciseLogs []ExerciseLog   `gorm:"foreignKey:WorkoutLogID" json:"exerciseLogs,omitempty"`
}

// ExerciseLog is the per-exercise detail of a workout log.
type ExerciseLog struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutLogID      uuid.UUID `gorm:"type:uuid;not null;index" json:"workoutLogId"`
	SessionExerciseID uuid.UUID `gorm:"type:uuid;not null" json:"sessionExerciseId"`
	SetsCompleted     *int      `json:"setsCompleted,omitempty"`
	RepsCompleted     *int      `json:"repsCompleted,omitempty"`
	DurationCompleted *int      `json:"durationCompleted,omitempty"`
	WeightUsed        *float64  `json:"weightUsed,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type ExerciseLogInput struct {
	SessionExerciseID uuid.UUID `json:"sessionExerciseId" binding:"required"`
	SetsCompleted     *int      `json:"setsCompleted" binding:"omitempty,min=0"`
	RepsCompleted     *int      `json:"repsCompleted" binding:"omitempty,min=0"`
	DurationCompleted *int      `json:"durationCompleted" binding:"omitempty,min=0"`
	WeightUsed        *float64  `json:"weightUsed" binding:"omitempty,min=0"`
	Notes             string    `json:"notes" binding:"omitempty,max=2000"`
}

type WorkoutLogInput struct {
	ClientID         uuid.UUID          `json:"clientId" binding:"required"`
	WorkoutSessionID uuid.UUID          `json:"workoutSessionId" binding:"required"`
	DatePerformed    Date               `json:"datePerformed" binding:"required"`
	Status           WorkoutLogStatus   `json:"status" binding:"required,oneof=completed partially_completed missed"`
	Notes            string             `json:"notes" binding:"omitempty,max=2000"`
	ExerciseLogs     []ExerciseLogInput `json:"exerciseLogs" binding:"omitempty,max=100,dive"`
}

type WorkoutLogPatch struct {
	DatePerformed *Date             `json:"datePerformed"`
	Status        *WorkoutLogStatus `json:"status" binding:"omitempty,oneof=completed partially_completed missed"`
	Notes         *string           `json:"notes" binding:"omitempty,max=2000"`
}

func (p WorkoutLogPatch) Changes() map[string]any {
	changes := map[string]any{}
	if p.DatePerformed != nil {
		changes["date_performed"] = *p.DatePerformed
	}
	if p.Status != nil {
		changes["status"] = *p.Status
	}
	if p.Notes != nil {
		changes["notes"] = *p.Notes
	}
	return changes
}
