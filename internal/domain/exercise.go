package domain

import (
	"time"

	"github.com/google/uuid"
)

type ExerciseCategory string

const (
	CategoryStrength    ExerciseCategory = "strength"
	CategoryCardio      ExerciseCategory = "cardio"
	CategoryFlexibility ExerciseCategory = "flexibility"
)

// Exercise is either part of the shared base library (no owner) or a custom
// exercise owned by a coach.
type Exercise struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CoachID           *uuid.UUID       `gorm:"type:uuid;index" json:"coachId,omitempty"` // nil for base exercises
	Name              string           `gorm:"not null" json:"name"`
	Description       string           `json:"description,omitempty"`
	Category          ExerciseCategory `gorm:"not null" json:"category"`
	DifficultyLevel   FitnessLevel     `json:"difficultyLevel,omitempty"`
	EquipmentRequired string           `json:"equipmentRequired,omitempty"`
	MusclesTargeted   []string         `gorm:"serializer:json;type:jsonb" json:"musclesTargeted"`
	IsBaseExercise    bool             `gorm:"not null;default:false" json:"isBaseExercise"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// OwnedBy reports whether the exercise is a custom exercise of coachID.
func (e *Exercise) OwnedBy(coachID uuid.UUID) bool {
	return e.CoachID != nil && *e.CoachID == coachID
}

type ExerciseInput struct {
	Name              string           `json:"name" binding:"required,min=1,max=200"`
	Description       string           `json:"description" binding:"omitempty,max=2000"`
	Category          ExerciseCategory `json:"category" binding:"required,oneof=strength cardio flexibility"`
	DifficultyLevel   FitnessLevel     `json:"difficultyLevel" binding:"omitempty,oneof=beginner intermediate advanced"`
	EquipmentRequired string           `json:"equipmentRequired" binding:"omitempty,max=500"`
	MusclesTargeted   []string         `json:"musclesTargeted" binding:"omitempty,max=30,dive,required,max=100"`
}

type ExercisePatch struct {
	Name              *string           `json:"name" binding:"omitempty,min=1,max=200"`
	Description       *string           `json:"description" binding:"omitempty,max=2000"`
	Category          *ExerciseCategory `json:"category" binding:"omitempty,oneof=strength cardio flexibility"`
	DifficultyLevel   *FitnessLevel     `json:"difficultyLevel" binding:"omitempty,oneof=beginner intermediate advanced"`
	EquipmentRequired *string           `json:"equipmentRequired" binding:"omitempty,max=500"`
	MusclesTargeted   *[]string         `json:"musclesTargeted" binding:"omitempty,max=30"`
}

func (p ExercisePatch) Changes() map[string]any {
	changes := map[string]any{}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	if p.Category != nil {
		changes["category"] = *p.Category
	}
	if p.DifficultyLevel != nil {
		changes["difficulty_level"] = *p.DifficultyLevel
	}
	if p.EquipmentRequired != nil {
		changes["equipment_required"] = *p.EquipmentRequired
	}
	if p.MusclesTargeted != nil {
		changes["muscles_targeted"] = StringList(*p.MusclesTargeted)
	}
	return changes
}
