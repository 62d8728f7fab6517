package models

import "time"

// Accommodation is a saved lodging offer attached to a trip.
type Accommodation struct {
	StayID           string    `json:"stayid" bson:"stayid"`
	TripID           string    `json:"trip_id" bson:"trip_id"`
	UserID           string    `json:"user_id" bson:"user_id"`
	Provider         string    `json:"provider" bson:"provider"`
	OfferRef         string    `json:"offer_ref" bson:"offer_ref"`
	Name             string    `json:"name" bson:"name"`
	Address          string    `json:"address,omitempty" bson:"address,omitempty"`
	Destination      string    `json:"destination" bson:"destination"`
	CheckIn          string    `json:"check_in" bson:"check_in"`
	CheckOut         string    `json:"check_out" bson:"check_out"`
	Guests           int       `json:"guests" bson:"guests"`
	NightlyCents     int64     `json:"nightly_cents" bson:"nightly_cents"`
	TotalCents       int64     `json:"total_cents" bson:"total_cents"`
	Currency         string    `json:"currency" bson:"currency"`
	Rating           float64   `json:"rating,omitempty" bson:"rating,omitempty"`
	CancellationFree bool      `json:"cancellation_free" bson:"cancellation_free"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
	Deleted          bool      `json:"-" bson:"deleted,omitempty"`
}
