package stays

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

func loadTripForEdit(ctx context.Context, tripID, userID string) (int, string) {
	var trip models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"tripid": tripID, "deleted": bson.M{"$ne": true}}).Decode(&trip)
	if err != nil {
		return http.StatusNotFound, "Trip not found"
	}
	if !trip.CanEdit(userID) {
		return http.StatusForbidden, "Forbidden"
	}
	return 0, ""
}

// SearchHandler returns an httprouter handle bound to the provider
// client.
//
// GET /api/stays/search?destination=Lisbon&check_in=2026-05-01&check_out=2026-05-08&guests=2
func SearchHandler(client *Client) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		q := SearchQuery{
			Destination: r.URL.Query().Get("destination"),
			CheckIn:     r.URL.Query().Get("check_in"),
			CheckOut:    r.URL.Query().Get("check_out"),
			Guests:      1,
		}
		if g, err := strconv.Atoi(r.URL.Query().Get("guests")); err == nil && g > 0 {
			q.Guests = g
		}
		if q.Destination == "" || q.CheckIn == "" || q.CheckOut == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "destination, check_in and check_out are required")
			return
		}
		if !client.Enabled() {
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Accommodation search is not configured")
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
			ops.Alert("stay_provider_error", ops.SeverityError, "stays", map[string]any{
				"destination": q.Destination,
				"error":       err.Error(),
			})
			utils.RespondWithError(w, http.StatusBadGateway, "Accommodation provider unavailable")
			return
		}

		rdx.SetJSON(ctx, q.CacheKey(), offers, searchCacheTTL)
		utils.RespondWithJSON(w, http.StatusOK, offers)
	}
}

// POST /api/trips/:id/stays
func SaveStay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tripID := ps.ByName("id")

	var input struct {
		Offer  Offer `json:"offer"`
		Guests int   `json:"guests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if input.Offer.Name == "" || input.Offer.CheckIn == "" || input.Offer.CheckOut == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Offer name, check_in and check_out are required")
		return
	}
	if input.Guests <= 0 {
		input.Guests = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if code, msg := loadTripForEdit(ctx, tripID, userID); code != 0 {
		utils.RespondWithError(w, code, msg)
		return
	}

	now := time.Now()
	stay := models.Accommodation{
		StayID:           utils.GenerateRandomString(13),
		TripID:           tripID,
		UserID:           userID,
		Provider:         "stays",
		OfferRef:         input.Offer.OfferRef,
		Name:             input.Offer.Name,
		Address:          input.Offer.Address,
		Destination:      input.Offer.Destination,
		CheckIn:          input.Offer.CheckIn,
		CheckOut:         input.Offer.CheckOut,
		Guests:           input.Guests,
		NightlyCents:     input.Offer.NightlyCents,
		TotalCents:       input.Offer.TotalCents,
		Currency:         input.Offer.Currency,
		Rating:           input.Offer.Rating,
		CancellationFree: input.Offer.CancellationFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := db.StaysCollection.InsertOne(ctx, stay); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving accommodation")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, stay)
}

// GET /api/trips/:id/stays
func GetTripStays(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tripID := ps.ByName("id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if code, msg := loadTripForEdit(ctx, tripID, userID); code != 0 {
		utils.RespondWithError(w, code, msg)
		return
	}

	filter := bson.M{"trip_id": tripID, "deleted": bson.M{"$ne": true}}
	stays, err := utils.FindAndDecode[models.Accommodation](ctx, db.StaysCollection, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching accommodations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, stays)
}

// DELETE /api/trips/:id/stays/:stayid
func DeleteStay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tripID := ps.ByName("id")
	stayID := ps.ByName("stayid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if code, msg := loadTripForEdit(ctx, tripID, userID); code != 0 {
		utils.RespondWithError(w, code, msg)
		return
	}

	result, err := db.StaysCollection.UpdateOne(ctx,
		bson.M{"stayid": stayID, "trip_id": tripID, "deleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting accommodation")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Accommodation not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bson.M{"message": "Accommodation removed"})
}
