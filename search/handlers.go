package search

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"tripsage/db"
	"tripsage/globals"
	"tripsage/models"
	"tripsage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func requestingUserID(r *http.Request) string {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	return userID
}

// visibleTrips restricts a query to trips the user owns or
// collaborates on.
func visibleTrips(userID string) []bson.M {
	return []bson.M{{"user_id": userID}, {"collaborators": userID}}
}

func indexedResultsFilter(userID string, ids []string) bson.M {
	return bson.M{
		"tripid":  bson.M{"$in": ids},
		"deleted": bson.M{"$ne": true},
		"$or":     visibleTrips(userID),
	}
}

func fallbackFilter(userID, query string) bson.M {
	return bson.M{
		"deleted": bson.M{"$ne": true},
		"$and": []bson.M{
			{"$or": visibleTrips(userID)},
			{"$or": []bson.M{
				{"name": bson.M{"$regex": query, "$options": "i"}},
				{"destination": bson.M{"$regex": query, "$options": "i"}},
			}},
		},
	}
}

// GET /api/search/trips?q=...
func SearchTrips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Query is required")
		return
	}

	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ids, err := GetIndexedResults(ctx, query, limit)
	if err != nil {
		// degraded index: fall back to a direct database scan
		fallbackSearch(ctx, w, userID, query)
		return
	}
	if len(ids) == 0 {
		utils.RespondWithJSON(w, http.StatusOK, []models.Trip{})
		return
	}

	trips, err := utils.FindAndDecode[models.Trip](ctx, db.TripsCollection, indexedResultsFilter(userID, ids))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching trips")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, trips)
}

func fallbackSearch(ctx context.Context, w http.ResponseWriter, userID, query string) {
	trips, err := utils.FindAndDecode[models.Trip](ctx, db.TripsCollection, fallbackFilter(userID, query))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching trips")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trips)
}

// GET /api/search/destinations?q=...
func AutocompleteDestinations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	prefix := r.URL.Query().Get("q")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	suggestions, err := SuggestDestinations(ctx, prefix, 10)
	if err != nil {
		// degraded cache: no suggestions is better than an error page
		utils.RespondWithJSON(w, http.StatusOK, []string{})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, suggestions)
}
