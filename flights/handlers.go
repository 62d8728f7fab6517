package flights

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tripsage/db"
	"tripsage/globals"
	"tripsage/models"
	"tripsage/ops"
	"tripsage/rdx"
	"tripsage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const searchCacheTTL = 5 * time.Minute

func requestingUserID(r *http.Request) string {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	return userID
}

// loadTripForEdit fetches a live trip the user may modify.
func loadTripForEdit(ctx context.Context, tripID, userID string) (*models.Trip, int, string) {
	var trip models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"tripid": tripID, "deleted": bson.M{"$ne": true}}).Decode(&trip)
	if err != nil {
		return nil, http.StatusNotFound, "Trip not found"
	}
	if !trip.CanEdit(userID) {
		return nil, http.StatusForbidden, "Forbidden"
	}
	return &trip, 0, ""
}

// SearchHandler returns an httprouter handle bound to the provider
// client.
//
// GET /api/flights/search?origin=LIS&destination=NRT&date=2026-05-01&passengers=2
func SearchHandler(client *Client) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		q := SearchQuery{
			Origin:      r.URL.Query().Get("origin"),
			Destination: r.URL.Query().Get("destination"),
			Date:        r.URL.Query().Get("date"),
			Passengers:  1,
		}
		if p, err := strconv.Atoi(r.URL.Query().Get("passengers")); err == nil && p > 0 {
			q.Passengers = p
		}
		if q.Origin == "" || q.Destination == "" || q.Date == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "origin, destination and date are required")
			return
		}
		if !client.Enabled() {
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Flight search is not configured")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		var offers []Offer
		if rdx.GetJSON(ctx, q.CacheKey(), &offers) {
			utils.RespondWithJSON(w, http.StatusOK, offers)
			return
		}

		offers, err := client.Search(ctx, q)
		if err != nil {
			ops.Alert("flight_provider_error", ops.SeverityError, "flights", map[string]any{
				"origin":      q.Origin,
				"destination": q.Destination,
				"error":       err.Error(),
			})
			utils.RespondWithError(w, http.StatusBadGateway, "Flight provider unavailable")
			return
		}

		rdx.SetJSON(ctx, q.CacheKey(), offers, searchCacheTTL)
		utils.RespondWithJSON(w, http.StatusOK, offers)
	}
}

// POST /api/trips/:id/flights
func SaveFlight(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tripID := ps.ByName("id")

	var input struct {
		Offer      Offer `json:"offer"`
		Passengers int   `json:"passengers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if input.Offer.Origin == "" || input.Offer.Destination == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Offer origin and destination are required")
		return
	}
	if input.Passengers <= 0 {
		input.Passengers = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, code, msg := loadTripForEdit(ctx, tripID, userID); code != 0 {
		utils.RespondWithError(w, code, msg)
		return
	}

	now := time.Now()
	flight := models.Flight{
		FlightID:      utils.GenerateRandomString(13),
		TripID:        tripID,
		UserID:        userID,
		Provider:      "flights",
		OfferRef:      input.Offer.OfferRef,
		Origin:        input.Offer.Origin,
		Destination:   input.Offer.Destination,
		DepartureTime: input.Offer.DepartureTime,
		ArrivalTime:   input.Offer.ArrivalTime,
		Carrier:       input.Offer.Carrier,
		FlightNumber:  input.Offer.FlightNumber,
		CabinClass:    input.Offer.CabinClass,
		Passengers:    input.Passengers,
		PriceCents:    input.Offer.PriceCents,
		Currency:      input.Offer.Currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := db.FlightsCollection.InsertOne(ctx, flight); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving flight")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, flight)
}

// GET /api/trips/:id/flights
func GetTripFlights(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tripID := ps.ByName("id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, code, msg := loadTripForEdit(ctx, tripID, userID); code != 0 {
		utils.RespondWithError(w, code, msg)
		return
	}

	filter := bson.M{"trip_id": tripID, "deleted": bson.M{"$ne": true}}
	flights, err := utils.FindAndDecode[models.Flight](ctx, db.FlightsCollection, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching flights")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, flights)
}

// DELETE /api/trips/:id/flights/:flightid
func DeleteFlight(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tripID := ps.ByName("id")
	flightID := ps.ByName("flightid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, code, msg := loadTripForEdit(ctx, tripID, userID); code != 0 {
		utils.RespondWithError(w, code, msg)
		return
	}

	result, err := db.FlightsCollection.UpdateOne(ctx,
		bson.M{"flightid": flightID, "trip_id": tripID, "deleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting flight")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Flight not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bson.M{"message": "Flight removed"})
}
