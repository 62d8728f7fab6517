package models

import "time"

// Trip statuses follow the planning lifecycle.
const (
	TripStatusDraft     = "draft"
	TripStatusPlanning  = "planning"
	TripStatusConfirmed = "confirmed"
	TripStatusCompleted = "completed"
)

// Trip is a user's travel plan with its day-by-day schedule.
type Trip struct {
	TripID        string    `json:"tripid" bson:"tripid"`
	UserID        string    `json:"user_id" bson:"user_id"`
	Name          string    `json:"name" bson:"name"`
	Destination   string    `json:"destination" bson:"destination"`
	Description   string    `json:"description" bson:"description"`
	StartDate     string    `json:"start_date" bson:"start_date"`
	EndDate       string    `json:"end_date" bson:"end_date"`
	Status        string    `json:"status" bson:"status"`
	BudgetCents   int64     `json:"budget_cents" bson:"budget_cents"`
	Currency      string    `json:"currency" bson:"currency"`
	Collaborators []string  `json:"collaborators,omitempty" bson:"collaborators,omitempty"`
	CopiedFrom    *string   `json:"copied_from,omitempty" bson:"copied_from,omitempty"`
	Days          []Day     `json:"days" bson:"days"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
	Deleted       bool      `json:"-" bson:"deleted,omitempty"`
}

type Day struct {
	Date   string  `json:"date" bson:"date"`
	Visits []Visit `json:"visits" bson:"visits"`
}

type Visit struct {
	Location  string `json:"location" bson:"location"`
	StartTime string `json:"start_time" bson:"start_time"`
	EndTime   string `json:"end_time" bson:"end_time"`
	// nil for the very first visit of a day
	Transport *string `json:"transport,omitempty" bson:"transport,omitempty"`
}

// CanEdit reports whether userID may modify the trip.
func (t *Trip) CanEdit(userID string) bool {
	if t.UserID == userID {
		return true
	}
	for _, c := range t.Collaborators {
		if c == userID {
			return true
		}
	}
	return false
}
