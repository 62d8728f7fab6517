package profile

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"tripsage/db"
	"tripsage/globals"
	"tripsage/models"
	"tripsage/rdx"
	"tripsage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func profileCacheKey(username string) string {
	return "profile:" + username
}

// GET /api/profile/profile
func GetOwnProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID, "deleted": bson.M{"$ne": true}}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// GET /api/user/:username
func GetUserProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	username := ps.ByName("username")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var cached models.UserProfileResponse
	if rdx.GetJSON(ctx, profileCacheKey(username), &cached) {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"username": username, "deleted": bson.M{"$ne": true}}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	resp := models.UserProfileResponse{
		UserID:       user.UserID,
		Username:     user.Username,
		Name:         user.Name,
		Bio:          user.Bio,
		Avatar:       user.Avatar,
		AvatarThumb:  user.AvatarThumb,
		HomeCurrency: user.HomeCurrency,
		SocialLinks:  user.SocialLinks,
		LastLogin:    user.LastLogin,
	}

	rdx.SetJSON(ctx, profileCacheKey(username), resp, 10*time.Minute)
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PUT /api/profile/edit
func EditProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Name         *string           `json:"name"`
		Bio          *string           `json:"bio"`
		HomeCurrency *string           `json:"home_currency"`
		SocialLinks  map[string]string `json:"social_links"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.Bio != nil {
		update["bio"] = *input.Bio
	}
	if input.HomeCurrency != nil {
		update["home_currency"] = *input.HomeCurrency
	}
	if input.SocialLinks != nil {
		update["social_links"] = input.SocialLinks
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOneAndUpdate(ctx,
		bson.M{"userid": userID, "deleted": bson.M{"$ne": true}},
		bson.M{"$set": update},
	).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := rdx.RdxDel(profileCacheKey(user.Username)); err != nil {
		log.Printf("Cache invalidation failed for %s: %v", user.Username, err)
	}

	utils.SendResponse(w, http.StatusOK, nil, "Profile updated", nil)
}

// DELETE /api/profile/delete
func DeleteProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOneAndUpdate(ctx,
		bson.M{"userid": userID, "deleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now()}},
	).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := rdx.RdxDel(profileCacheKey(user.Username)); err != nil {
		log.Printf("Cache invalidation failed for %s: %v", user.Username, err)
	}

	utils.SendResponse(w, http.StatusOK, nil, "Account deleted", nil)
}
