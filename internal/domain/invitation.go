package domain

import (
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
)

// IntakePayloadVersion is the current shape of Invitation.Payload.
const IntakePayloadVersion = 1

// IntakePayload is the intake form snapshot stored with an invitation.
type IntakePayload struct {
	Version int          `json:"version"`
	Form    ClientIntake `json:"form"`
}

// Invitation is a single-use, time-limited offer for a prospective client to
// join a coach. Token is the capability that grants acceptance.
type Invitation struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CoachID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"coachId"`
	Email      string           `gorm:"not null" json:"email"`
	Token      string           `gorm:"uniqueIndex;not null" json:"-"` // Never serialized
	Payload    IntakePayload    `gorm:"serializer:json;type:jsonb;not null" json:"payload"`
	Status     InvitationStatus `gorm:"not null" json:"status"`
	ExpiresAt  time.Time        `gorm:"not null" json:"expiresAt"`
	AcceptedAt *time.Time       `json:"acceptedAt,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// IsExpired reports whether the invitation is past its expiry at now.
func (i *Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// IsOpen reports whether the invitation can still be accepted at now.
func (i *Invitation) IsOpen(now time.Time) bool {
	return i.Status == InvitationPending && !i.IsExpired(now)
}

// AcceptResult is returned to the prospective client after acceptance.
type AcceptResult struct {
	UserID  uuid.UUID `json:"userId"`
	CoachID uuid.UUID `json:"coachId"`
}
