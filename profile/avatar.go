package profile

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"tripsage/db"
	"tripsage/filemgr"
	"tripsage/globals"
	"tripsage/models"
	"tripsage/rdx"
	"tripsage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// PUT /api/profile/avatar
func UploadAvatar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	update, err := saveAvatar(r, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	update["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err = db.UserCollection.FindOneAndUpdate(ctx,
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

	utils.SendResponse(w, http.StatusOK, update, "Avatar updated", nil)
}

func saveAvatar(r *http.Request, userID string) (bson.M, error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return nil, fmt.Errorf("error parsing form data: %w", err)
	}

	file, header, err := r.FormFile("avatar_picture")
	if err != nil {
		return nil, fmt.Errorf("avatar upload failed: %w", err)
	}
	defer file.Close()

	origName, thumbName, err := filemgr.SaveImageWithThumb(file, header, filemgr.EntityUser, filemgr.PicPhoto, 100, userID)
	if err != nil {
		return nil, fmt.Errorf("save image with thumb failed: %w", err)
	}

	return bson.M{
		"avatar":       origName,
		"avatar_thumb": thumbName,
	}, nil
}
