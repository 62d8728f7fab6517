package bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tripsage/db"
	"tripsage/globals"
	"tripsage/models"
	"tripsage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var bookableItemTypes = []string{"flight", "stay"}

func genID() string {
	return utils.GenerateRandomDigitString(22)
}

func requestingUserID(r *http.Request) string {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	return userID
}

// itemSnapshot resolves the booked item's price at booking time.
func itemSnapshot(ctx context.Context, itemType, itemID, tripID string) (int64, string, string, bool) {
	switch itemType {
	case "flight":
		var f models.Flight
		err := db.FlightsCollection.FindOne(ctx, bson.M{
			"flightid": itemID, "trip_id": tripID, "deleted": bson.M{"$ne": true},
		}).Decode(&f)
		if err != nil {
			return 0, "", "", false
		}
		return f.PriceCents, f.Currency, f.OfferRef, true
	case "stay":
		var s models.Accommodation
		err := db.StaysCollection.FindOne(ctx, bson.M{
			"stayid": itemID, "trip_id": tripID, "deleted": bson.M{"$ne": true},
		}).Decode(&s)
		if err != nil {
			return 0, "", "", false
		}
		return s.TotalCents, s.Currency, s.OfferRef, true
	}
	return 0, "", "", false
}

// POST /api/bookings
func CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		TripID   string `json:"trip_id"`
		ItemType string `json:"item_type"`
		ItemID   string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if input.TripID == "" || input.ItemID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "trip_id and item_id are required")
		return
	}
	if !utils.Contains(bookableItemTypes, input.ItemType) {
		utils.RespondWithError(w, http.StatusBadRequest, "item_type must be flight or stay")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var trip models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"tripid": input.TripID, "deleted": bson.M{"$ne": true}}).Decode(&trip)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}
	if !trip.CanEdit(userID) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	price, currency, providerRef, ok := itemSnapshot(ctx, input.ItemType, input.ItemID, input.TripID)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Item not found on this trip")
		return
	}

	// one live booking per item
	count, err := db.BookingsCollection.CountDocuments(ctx, bson.M{
		"item_id": input.ItemID,
		"status":  bson.M{"$ne": models.BookingCancelled},
		"deleted": bson.M{"$ne": true},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Item already has an active booking")
		return
	}

	now := time.Now()
	booking := models.Booking{
		BookingID:   genID(),
		TripID:      input.TripID,
		UserID:      userID,
		ItemType:    input.ItemType,
		ItemID:      input.ItemID,
		ProviderRef: providerRef,
		Status:      models.BookingPending,
		PriceCents:  price,
		Currency:    currency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := db.BookingsCollection.InsertOne(ctx, booking); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating booking")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, booking)
}

// GET /api/trips/:id/bookings
func GetTripBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tripID := ps.ByName("id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var trip models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"tripid": tripID, "deleted": bson.M{"$ne": true}}).Decode(&trip)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}
	if !trip.CanEdit(userID) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	filter := bson.M{"trip_id": tripID, "deleted": bson.M{"$ne": true}}
	bookings, err := utils.FindAndDecode[models.Booking](ctx, db.BookingsCollection, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching bookings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

// transition moves a booking along pending -> confirmed | cancelled.
func transition(w http.ResponseWriter, r *http.Request, bookingID, to string) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": bookingID, "deleted": bson.M{"$ne": true}}).Decode(&booking)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if booking.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	switch {
	case to == models.BookingConfirmed && booking.Status != models.BookingPending:
		utils.RespondWithError(w, http.StatusConflict, "Only pending bookings can be confirmed")
		return
	case to == models.BookingCancelled && booking.Status == models.BookingCancelled:
		utils.RespondWithError(w, http.StatusConflict, "Booking is already cancelled")
		return
	}

	_, err = db.BookingsCollection.UpdateOne(ctx,
		bson.M{"bookingid": bookingID},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating booking")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bson.M{"bookingid": bookingID, "status": to})
}

// PUT /api/bookings/:bookingid/confirm
func ConfirmBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	transition(w, r, ps.ByName("bookingid"), models.BookingConfirmed)
}

// PUT /api/bookings/:bookingid/cancel
func CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	transition(w, r, ps.ByName("bookingid"), models.BookingCancelled)
}
