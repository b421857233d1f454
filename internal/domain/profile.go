package domain

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
)

// Profile holds client-specific attributes. Height is stored in centimeters
// and weight in kilograms regardless of the units a coach entered.
type Profile struct {
	ID                   uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Bio                  string       `json:"bio,omitempty"`
	Phone                string       `json:"phone,omitempty"`
	DateOfBirth          *Date        `json:"dateOfBirth,omitempty"`
	Gender               Gender       `json:"gender,omitempty"`
	Height               *float64     `json:"height,omitempty"`
	Weight               *float64     `json:"weight,omitempty"`
	FitnessLevel         FitnessLevel `json:"fitnessLevel,omitempty"`
	PreferredWorkoutDays []Weekday    `gorm:"serializer:json;type:jsonb" json:"preferredWorkoutDays,omitempty"`
	PreferredWorkoutTime string       `json:"preferredWorkoutTime,omitempty"`
	MedicalConditions    string       `json:"medicalConditions,omitempty"`
	DietaryRestrictions  string       `json:"dietaryRestrictions,omitempty"`
	AdditionalNotes      string       `json:"additionalNotes,omitempty"`
	CreatedAt            time.Time    `json:"createdAt"`
	UpdatedAt            time.Time    `json:"updatedAt"`
}

// ProfilePatch carries the fields a user may change on their own record.
// Name lives on the user row, the rest on the profile row.
type ProfilePatch struct {
	Name         *string       `json:"name" binding:"omitempty,min=1,max=200"`
	Bio          *string       `json:"bio" binding:"omitempty,max=2000"`
	DateOfBirth  *Date         `json:"dateOfBirth"`
	Gender       *Gender       `json:"gender" binding:"omitempty,oneof=male female other"`
	Height       *float64      `json:"height" binding:"omitempty,gt=0"`
	Weight       *float64      `json:"weight" binding:"omitempty,gt=0"`
	FitnessLevel *FitnessLevel `json:"fitnessLevel" binding:"omitempty,oneof=beginner intermediate advanced"`
}

// ProfileChanges returns the column updates for the profile row.
func (p ProfilePatch) ProfileChanges() map[string]any {
	changes := map[string]any{}
	if p.Bio != nil {
		changes["bio"] = *p.Bio
	}
	if p.DateOfBirth != nil {
		changes["date_of_birth"] = *p.DateOfBirth
	}
	if p.Gender != nil {
		changes["gender"] = *p.Gender
	}
	if p.Height != nil {
		changes["height"] = *p.Height
	}
	if p.Weight != nil {
		changes["weight"] = *p.Weight
	}
	if p.FitnessLevel != nil {
		changes["fitness_level"] = *p.FitnessLevel
	}
	return changes
}
