package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutPlan is a coach-authored program assigned to one client.
type WorkoutPlan struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CoachID       uuid.UUID `gorm:"type:uuid;not null;index" json:"coachId"`
	ClientID      uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `json:"description,omitempty"`
	StartDate     Date      `gorm:"not null" json:"startDate"`
	EndDate       *Date     `json:"endDate,omitempty"`
	DurationWeeks *int      `json:"durationWeeks,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Sessions []WorkoutSession `gorm:"foreignKey:WorkoutPlanID" json:"sessions,omitempty"`
}

type WorkoutPlanInput struct {
	ClientID      uuid.UUID `json:"clientId" binding:"required"`
	Name          string    `json:"name" binding:"required,min=1,max=200"`
	Description   string    `json:"description" binding:"omitempty,max=2000"`
	StartDate     Date      `json:"startDate" binding:"required"`
	EndDate       *Date     `json:"endDate"`
	DurationWeeks *int      `json:"durationWeeks" binding:"omitempty,min=1,max=104"`
}

type WorkoutPlanPatch struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string `json:"description" binding:"omitempty,max=2000"`
	StartDate     *Date   `json:"startDate"`
	EndDate       *Date   `json:"endDate"`
	DurationWeeks *int    `json:"durationWeeks" binding:"omitempty,min=1,max=104"`
}

func (p WorkoutPlanPatch) Changes() map[string]any {
	changes := map[string]any{}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	if p.StartDate != nil {
		changes["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		changes["end_date"] = *p.EndDate
	}
	if p.DurationWeeks != nil {
		changes["duration_weeks"] = *p.DurationWeeks
	}
	return changes
}
