package trips

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tripsage/db"
	"tripsage/models"
	"tripsage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// POST /api/trips/:id/collaborators
func AddCollaborator(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tripID := ps.ByName("id")

	var input struct {
		UserID string `json:"userid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.UserID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Collaborator userid is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var trip models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"tripid": tripID, "deleted": bson.M{"$ne": true}}).Decode(&trip)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}
	if trip.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Only the owner can add collaborators")
		return
	}
	if input.UserID == trip.UserID {
		utils.RespondWithError(w, http.StatusBadRequest, "Owner is already on the trip")
		return
	}

	// the collaborator must be a real, live account
	err = db.UserCollection.FindOne(ctx, bson.M{"userid": input.UserID, "deleted": bson.M{"$ne": true}}).Err()
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	_, err = db.TripsCollection.UpdateOne(ctx,
		bson.M{"tripid": tripID},
		bson.M{
			"$addToSet": bson.M{"collaborators": input.UserID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error adding collaborator")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bson.M{"message": "Collaborator added"})
}

// DELETE /api/trips/:id/collaborators/:userid
func RemoveCollaborator(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tripID := ps.ByName("id")
	collaboratorID := ps.ByName("userid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var trip models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"tripid": tripID, "deleted": bson.M{"$ne": true}}).Decode(&trip)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}

	// collaborators may remove themselves; otherwise owner only
	if trip.UserID != userID && collaboratorID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	_, err = db.TripsCollection.UpdateOne(ctx,
		bson.M{"tripid": tripID},
		bson.M{
			"$pull": bson.M{"collaborators": collaboratorID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error removing collaborator")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bson.M{"message": "Collaborator removed"})
}
