package health

import (
	"context"
	"net/http"
	"time"

	"tripsage/db"
	"tripsage/rdx"
	"tripsage/utils"

	"github.com/julienschmidt/httprouter"
)

// Check reports liveness of the API and its backing stores.
//
// A degraded cache keeps the service up: reads fall through to the
// primary store, so the endpoint still answers 200. A dead primary
// store does not.
func Check(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	dbOK := db.Ping(ctx) == nil
	cacheOK := rdx.Ping(ctx) == nil

	status := "ok"
	code := http.StatusOK
	switch {
	case !dbOK:
		status = "unavailable"
		code = http.StatusServiceUnavailable
	case !cacheOK:
		status = "degraded"
	}

	utils.RespondWithJSON(w, code, utils.M{
		"status": status,
		"checks": utils.M{
			"database": dbOK,
			"cache":    cacheOK,
		},
	})
}
