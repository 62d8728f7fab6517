package trips

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tripsage/db"
	"tripsage/globals"
	"tripsage/models"
	"tripsage/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// shareQRPayload returns tripid|timestamp|signature so a scanned share
// code can be verified server-side.
func shareQRPayload(tripID string) string {
	data := fmt.Sprintf("%s|%d", tripID, time.Now().Unix())
	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifySharePayload checks a scanned share code and returns the trip
// ID it names.
func VerifySharePayload(payload string) (string, bool) {
	parts := strings.SplitN(payload, "|", 3)
	if len(parts) != 3 {
		return "", false
	}
	data := parts[0] + "|" + parts[1]
	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(parts[2]), []byte(expected)) {
		return "", false
	}
	return parts[0], true
}

// GET /api/trips/:id/export
func ExportTripPDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tripID := ps.ByName("id")
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
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

	flights, _ := utils.FindAndDecode[models.Flight](ctx, db.FlightsCollection,
		bson.M{"trip_id": tripID, "deleted": bson.M{"$ne": true}})
	stays, _ := utils.FindAndDecode[models.Accommodation](ctx, db.StaysCollection,
		bson.M{"trip_id": tripID, "deleted": bson.M{"$ne": true}})

	qrPNG, err := qrcode.Encode(shareQRPayload(tripID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, trip.Name)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Destination: %s", trip.Destination))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Dates: %s to %s", trip.StartDate, trip.EndDate))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", trip.Status))
	pdf.Ln(12)

	if len(flights) > 0 {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Flights")
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 11)
		for _, f := range flights {
			pdf.Cell(0, 7, fmt.Sprintf("%s %s  %s -> %s  departs %s",
				f.Carrier, f.FlightNumber, f.Origin, f.Destination, f.DepartureTime))
			pdf.Ln(7)
		}
		pdf.Ln(4)
	}

	if len(stays) > 0 {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Accommodation")
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 11)
		for _, s := range stays {
			pdf.Cell(0, 7, fmt.Sprintf("%s, %s  %s to %s", s.Name, s.Destination, s.CheckIn, s.CheckOut))
			pdf.Ln(7)
		}
		pdf.Ln(4)
	}

	for _, day := range trip.Days {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, day.Date)
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 11)
		for _, v := range day.Visits {
			line := fmt.Sprintf("%s - %s  %s", v.StartTime, v.EndTime, v.Location)
			if v.Transport != nil {
				line += fmt.Sprintf("  (via %s)", *v.Transport)
			}
			pdf.Cell(0, 7, line)
			pdf.Ln(7)
		}
		pdf.Ln(3)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 20, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=trip-"+tripID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
