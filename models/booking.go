package models

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking ties a saved flight or accommodation to a confirmation
// lifecycle. No payment is captured here; the price is a snapshot of
// the offer at booking time.
type Booking struct {
	BookingID   string    `json:"bookingid" bson:"bookingid"`
	TripID      string    `json:"trip_id" bson:"trip_id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	ItemType    string    `json:"item_type" bson:"item_type"` // flight or stay
	ItemID      string    `json:"item_id" bson:"item_id"`
	ProviderRef string    `json:"provider_ref,omitempty" bson:"provider_ref,omitempty"`
	Status      string    `json:"status" bson:"status"`
	PriceCents  int64     `json:"price_cents" bson:"price_cents"`
	Currency    string    `json:"currency" bson:"currency"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
	Deleted     bool      `json:"-" bson:"deleted,omitempty"`
}
