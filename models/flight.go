package models

import "time"

// Flight is a saved flight offer attached to a trip.
type Flight struct {
	FlightID      string    `json:"flightid" bson:"flightid"`
	TripID        string    `json:"trip_id" bson:"trip_id"`
	UserID        string    `json:"user_id" bson:"user_id"`
	Provider      string    `json:"provider" bson:"provider"`
	OfferRef      string    `json:"offer_ref" bson:"offer_ref"`
	Origin        string    `json:"origin" bson:"origin"`
	Destination   string    `json:"destination" bson:"destination"`
	DepartureTime string    `json:"departure_time" bson:"departure_time"`
	ArrivalTime   string    `json:"arrival_time" bson:"arrival_time"`
	Carrier       string    `json:"carrier" bson:"carrier"`
	FlightNumber  string    `json:"flight_number" bson:"flight_number"`
	CabinClass    string    `json:"cabin_class,omitempty" bson:"cabin_class,omitempty"`
	Passengers    int       `json:"passengers" bson:"passengers"`
	PriceCents    int64     `json:"price_cents" bson:"price_cents"`
	Currency      string    `json:"currency" bson:"currency"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
	Deleted       bool      `json:"-" bson:"deleted,omitempty"`
}
