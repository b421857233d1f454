package domain

import (
	"time"

	"github.com/google/uuid"
)

type RelationshipStatus string

const (
	RelationshipPending    RelationshipStatus = "pending"
	RelationshipActive     RelationshipStatus = "active"
	RelationshipTerminated RelationshipStatus = "terminated"
)

func (s RelationshipStatus) Valid() bool {
	switch s {
	case RelationshipPending, RelationshipActive, RelationshipTerminated:
		return true
	}
	return false
}

// CoachClientRelationship links a coach to a client. At most one exists per pair.
type CoachClientRelationship struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CoachID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_relationship_pair" json:"coachId"`
	ClientID     uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_relationship_pair;index" json:"clientId"`
	Status       RelationshipStatus `gorm:"not null" json:"status"`
	InvitationID *uuid.UUID         `gorm:"type:uuid" json:"invitationId,omitempty"` // Set when created by accepting an invitation
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`

	Coach  *User `gorm:"foreignKey:CoachID" json:"coach,omitempty"`
	Client *User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (CoachClientRelationship) TableName() string {
	return "coach_client_relationships"
}

// Grants reports whether the relationship still gives the coach access to the client.
func (r *CoachClientRelationship) Grants() bool {
	return r.Status != RelationshipTerminated
}
