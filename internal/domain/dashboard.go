package domain

import "github.com/google/uuid"

// RecentWorkoutLogLimit caps DashboardStats.RecentWorkoutLogs.
const RecentWorkoutLogLimit = 10

// DashboardStats is the coach landing page summary.
type DashboardStats struct {
	ClientCount       int64              `json:"clientCount"`
	WorkoutPlanCount  int64              `json:"workoutPlanCount"`
	RecentWorkoutLogs []RecentWorkoutLog `json:"recentWorkoutLogs"`
}

// RecentWorkoutLog is a workout log joined with the client and session names.
type RecentWorkoutLog struct {
	ID               uuid.UUID        `json:"id"`
	ClientID         uuid.UUID        `json:"clientId"`
	ClientName       string           `json:"clientName"`
	WorkoutSessionID uuid.UUID        `json:"workoutSessionId"`
	SessionName      string           `json:"sessionName"`
	DatePerformed    Date             `json:"datePerformed"`
	Status           WorkoutLogStatus `json:"status"`
	Notes            string           `json:"notes,omitempty"`
}

// ClientDetails is the coach's view of one client.
type ClientDetails struct {
	Client       *User                    `json:"client"`
	Relationship *CoachClientRelationship `json:"relationship"`
	WorkoutPlans []WorkoutPlan            `json:"workoutPlans"`
	ProgressLogs []ProgressLog            `json:"progressLogs"`
	Goals        []Goal                   `json:"goals"`
}

// ClientSummary is one row of a coach's client list.
type ClientSummary struct {
	Client       *User              `json:"client"`
	Status       RelationshipStatus `json:"status"`
	Relationship uuid.UUID          `json:"relationshipId"`
}
