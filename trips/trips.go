package trips

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tripsage/db"
	"tripsage/globals"
	"tripsage/models"
	"tripsage/mq"
	"tripsage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func requestingUserID(r *http.Request) string {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	return userID
}

func validStatus(s string) bool {
	switch s {
	case models.TripStatusDraft, models.TripStatusPlanning, models.TripStatusConfirmed, models.TripStatusCompleted:
		return true
	}
	return false
}

// validateDates checks the YYYY-MM-DD range; both empty is allowed for
// early drafts.
func validateDates(start, end string) error {
	if start == "" && end == "" {
		return nil
	}
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return fmt.Errorf("invalid start_date %q", start)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return fmt.Errorf("invalid end_date %q", end)
	}
	if e.Before(s) {
		return fmt.Errorf("end_date before start_date")
	}
	return nil
}

// POST /api/trips
func CreateTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var trip models.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if trip.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Trip name is required")
		return
	}
	if err := validateDates(trip.StartDate, trip.EndDate); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	trip.TripID = utils.GenerateRandomString(13)
	trip.UserID = userID
	trip.Collaborators = nil
	trip.CopiedFrom = nil
	trip.CreatedAt = now
	trip.UpdatedAt = now
	trip.Deleted = false
	if trip.Status == "" {
		trip.Status = models.TripStatusDraft
	}
	if !validStatus(trip.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if trip.Days == nil {
		trip.Days = []models.Day{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.TripsCollection.InsertOne(ctx, trip); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating trip")
		return
	}

	mq.Emit(ctx, models.Index{EntityType: "trip", Method: "POST", EntityId: trip.TripID})

	utils.RespondWithJSON(w, http.StatusCreated, trip)
}

// GET /api/trips
func GetTrips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"deleted": bson.M{"$ne": true},
		"$or":     []bson.M{{"user_id": userID}, {"collaborators": userID}},
	}
	trips, err := utils.FindAndDecode[models.Trip](ctx, db.TripsCollection, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching trips")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, trips)
}

// GET /api/trips/:id
func GetTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
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

	utils.RespondWithJSON(w, http.StatusOK, trip)
}

// PUT /api/trips/:id
func UpdateTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tripID := ps.ByName("id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var existing models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"tripid": tripID, "deleted": bson.M{"$ne": true}}).Decode(&existing)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}
	if !existing.CanEdit(userID) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var updated models.Trip
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateDates(updated.StartDate, updated.EndDate); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if updated.Status != "" && !validStatus(updated.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if updated.Status == "" {
		updated.Status = existing.Status
	}
	if updated.Days == nil {
		updated.Days = existing.Days
	}

	update := bson.M{"$set": bson.M{
		"name":         updated.Name,
		"destination":  updated.Destination,
		"description":  updated.Description,
		"start_date":   updated.StartDate,
		"end_date":     updated.EndDate,
		"status":       updated.Status,
		"budget_cents": updated.BudgetCents,
		"currency":     updated.Currency,
		"days":         updated.Days,
		"updated_at":   time.Now(),
	}}

	if _, err := db.TripsCollection.UpdateOne(ctx, bson.M{"tripid": tripID}, update); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating trip")
		return
	}

	mq.Emit(ctx, models.Index{EntityType: "trip", Method: "PUT", EntityId: tripID})

	utils.RespondWithJSON(w, http.StatusOK, bson.M{"message": "Trip updated successfully"})
}

// DELETE /api/trips/:id
func DeleteTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
	if trip.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Only the owner can delete a trip")
		return
	}

	update := bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now()}}
	if _, err := db.TripsCollection.UpdateOne(ctx, bson.M{"tripid": tripID}, update); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting trip")
		return
	}

	mq.Emit(ctx, models.Index{EntityType: "trip", Method: "DELETE", EntityId: tripID})

	utils.RespondWithJSON(w, http.StatusOK, bson.M{"message": "Trip deleted successfully"})
}

// POST /api/trips/:id/duplicate
func DuplicateTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	originalID := ps.ByName("id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var original models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"tripid": originalID, "deleted": bson.M{"$ne": true}}).Decode(&original)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Original trip not found")
		return
	}
	if !original.CanEdit(userID) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	now := time.Now()
	copyTrip := models.Trip{
		TripID:      utils.GenerateRandomString(13),
		UserID:      userID,
		Name:        "Copy of " + original.Name,
		Destination: original.Destination,
		Description: original.Description,
		StartDate:   original.StartDate,
		EndDate:     original.EndDate,
		Status:      models.TripStatusDraft,
		BudgetCents: original.BudgetCents,
		Currency:    original.Currency,
		CopiedFrom:  &originalID,
		Days:        original.Days,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := db.TripsCollection.InsertOne(ctx, copyTrip); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error duplicating trip")
		return
	}

	mq.Emit(ctx, models.Index{EntityType: "trip", Method: "POST", EntityId: copyTrip.TripID})

	utils.RespondWithJSON(w, http.StatusCreated, copyTrip)
}

// GET /api/search/trips/filter
func SearchTrips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query()
	filter := bson.M{
		"deleted": bson.M{"$ne": true},
		"$or":     []bson.M{{"user_id": userID}, {"collaborators": userID}},
	}
	if destination := query.Get("destination"); destination != "" {
		filter["destination"] = bson.M{"$regex": destination, "$options": "i"}
	}
	if start := query.Get("start_date"); start != "" {
		filter["start_date"] = bson.M{"$gte": start}
	}
	if end := query.Get("end_date"); end != "" {
		filter["end_date"] = bson.M{"$lte": end}
	}
	if status := query.Get("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	trips, err := utils.FindAndDecode[models.Trip](ctx, db.TripsCollection, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching trips")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, trips)
}
