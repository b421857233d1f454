package domain

import (
	"time"

	"github.com/google/uuid"
)

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalAchieved  GoalStatus = "achieved"
	GoalAbandoned GoalStatus = "abandoned"
)

type Goal struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"clientId"`
	Description string     `gorm:"not null" json:"description"`
	TargetDate  *Date      `json:"targetDate,omitempty"`
	Status      GoalStatus `gorm:"not null" json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type GoalInput struct {
	ClientID    uuid.UUID  `json:"clientId" binding:"required"`
	Description string     `json:"description" binding:"required,min=1,max=500"`
	TargetDate  *Date      `json:"targetDate"`
	Status      GoalStatus `json:"status" binding:"omitempty,oneof=active achieved abandoned"`
}

type GoalPatch struct {
	Description *string     `json:"description" binding:"omitempty,min=1,max=500"`
	TargetDate  *Date       `json:"targetDate"`
	Status      *GoalStatus `json:"status" binding:"omitempty,oneof=active achieved abandoned"`
}

func (p GoalPatch) Changes() map[string]any {
	changes := map[string]any{}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	if p.TargetDate != nil {
		changes["target_date"] = *p.TargetDate
	}
	if p.Status != nil {
		changes["status"] = *p.Status
	}
	return changes
}
