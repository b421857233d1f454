package domain

import (
	"encoding/json"
	"strings"
)

type HeightUnit string

const (
	HeightCentimeters HeightUnit = "cm"
	HeightFeet        HeightUnit = "feet"
)

type WeightUnit string

const (
	WeightKilograms WeightUnit = "kg"
	WeightPounds    WeightUnit = "lbs"
)

const (
	centimetersPerFoot = 30.48
	kilogramsPerPound  = 0.45359237
)

// ClientIntake is the form a coach fills in when inviting a prospective client.
type ClientIntake struct {
	FirstName            string       `json:"firstName" binding:"required,min=2,max=100"`
	LastName             string       `json:"lastName" binding:"required,min=2,max=100"`
	Email                string       `json:"email" binding:"required,email"`
	Phone                string       `json:"phone,omitempty" binding:"omitempty,max=40"`
	DateOfBirth          *Date        `json:"dateOfBirth,omitempty"`
	Gender               Gender       `json:"gender,omitempty" binding:"omitempty,oneof=male female other"`
	Height               *float64     `json:"height,omitempty" binding:"omitempty,gt=0"`
	HeightUnit           HeightUnit   `json:"heightUnit" binding:"required,oneof=cm feet"`
	Weight               *float64     `json:"weight,omitempty" binding:"omitempty,gt=0"`
	WeightUnit           WeightUnit   `json:"weightUnit" binding:"required,oneof=kg lbs"`
	FitnessLevel         FitnessLevel `json:"fitnessLevel,omitempty" binding:"omitempty,oneof=beginner intermediate advanced"`
	FitnessGoals         []string     `json:"fitnessGoals,omitempty" binding:"omitempty,max=20,dive,required,max=500"`
	PreferredWorkoutDays []Weekday    `json:"preferredWorkoutDays,omitempty" binding:"omitempty,max=7,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	PreferredWorkoutTime string       `json:"preferredWorkoutTime,omitempty" binding:"omitempty,oneof=morning afternoon evening"`
	MedicalConditions    string       `json:"medicalConditions,omitempty" binding:"omitempty,max=2000"`
	DietaryRestrictions  string       `json:"dietaryRestrictions,omitempty" binding:"omitempty,max=2000"`
	AdditionalNotes      string       `json:"additionalNotes,omitempty" binding:"omitempty,max=2000"`
}

// UnmarshalJSON normalizes the email before binding validates it.
func (c *ClientIntake) UnmarshalJSON(data []byte) error {
	type plain ClientIntake
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = ClientIntake(p)
	c.Email = NormalizeEmail(c.Email)
	return nil
}

// FullName is the account display name derived from the intake.
func (c ClientIntake) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// HeightCM returns the height converted to centimeters.
func (c ClientIntake) HeightCM() *float64 {
	if c.Height == nil {
		return nil
	}
	v := *c.Height
	if c.HeightUnit == HeightFeet {
		v *= centimetersPerFoot
	}
	return &v
}

// WeightKG returns the weight converted to kilograms.
func (c ClientIntake) WeightKG() *float64 {
	if c.Weight == nil {
		return nil
	}
	v := *c.Weight
	if c.WeightUnit == WeightPounds {
		v *= kilogramsPerPound
	}
	return &v
}

// Profile builds the initial profile for the client account created from this intake.
func (c ClientIntake) Profile() Profile {
	return Profile{
		Phone:                c.Phone,
		DateOfBirth:          c.DateOfBirth,
		Gender:               c.Gender,
		Height:               c.HeightCM(),
		Weight:               c.WeightKG(),
		FitnessLevel:         c.FitnessLevel,
		PreferredWorkoutDays: c.PreferredWorkoutDays,
		PreferredWorkoutTime: c.PreferredWorkoutTime,
		MedicalConditions:    c.MedicalConditions,
		DietaryRestrictions:  c.DietaryRestrictions,
		AdditionalNotes:      c.AdditionalNotes,
	}
}
