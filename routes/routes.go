package routes

import (
	"net/http"

	"tripsage/assistant"
	"tripsage/auth"
	"tripsage/bookings"
	"tripsage/flights"
	"tripsage/middleware"
	"tripsage/profile"
	"tripsage/ratelim"
	"tripsage/search"
	"tripsage/stays"
	"tripsage/trips"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rateLimiter.Limit(auth.Register))
	router.POST("/api/auth/login", rateLimiter.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rateLimiter.Limit(auth.RefreshToken))
}

func AddProfileRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/profile/profile", middleware.Authenticate(profile.GetOwnProfile))
	router.GET("/api/user/:username", middleware.Authenticate(profile.GetUserProfile))
	router.PUT("/api/profile/edit", rateLimiter.Limit(middleware.Authenticate(profile.EditProfile)))
	router.PUT("/api/profile/avatar", rateLimiter.Limit(middleware.Authenticate(profile.UploadAvatar)))
	router.DELETE("/api/profile/delete", middleware.Authenticate(profile.DeleteProfile))
}

func AddTripRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/trips", rateLimiter.Limit(middleware.Authenticate(trips.CreateTrip)))
	router.GET("/api/trips", middleware.Authenticate(trips.GetTrips))
	router.GET("/api/trips/:id", middleware.Authenticate(trips.GetTrip))
	router.PUT("/api/trips/:id", middleware.Authenticate(trips.UpdateTrip))
	router.DELETE("/api/trips/:id", middleware.Authenticate(trips.DeleteTrip))
	router.POST("/api/trips/:id/duplicate", rateLimiter.Limit(middleware.Authenticate(trips.DuplicateTrip)))

	router.POST("/api/trips/:id/collaborators", middleware.Authenticate(trips.AddCollaborator))
	router.DELETE("/api/trips/:id/collaborators/:userid", middleware.Authenticate(trips.RemoveCollaborator))

	router.GET("/api/trips/:id/export", rateLimiter.Limit(middleware.Authenticate(trips.ExportTripPDF)))
}

func AddFlightRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, client *flights.Client) {
	router.GET("/api/flights/search", rateLimiter.Limit(middleware.Authenticate(flights.SearchHandler(client))))
	router.POST("/api/trips/:id/flights", middleware.Authenticate(flights.SaveFlight))
	router.GET("/api/trips/:id/flights", middleware.Authenticate(flights.GetTripFlights))
	router.DELETE("/api/trips/:id/flights/:flightid", middleware.Authenticate(flights.DeleteFlight))
}

func AddStayRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, client *stays.Client) {
	router.GET("/api/stays/search", rateLimiter.Limit(middleware.Authenticate(stays.SearchHandler(client))))
	router.POST("/api/trips/:id/stays", middleware.Authenticate(stays.SaveStay))
	router.GET("/api/trips/:id/stays", middleware.Authenticate(stays.GetTripStays))
	router.DELETE("/api/trips/:id/stays/:stayid", middleware.Authenticate(stays.DeleteStay))
}

func AddBookingRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/bookings", rateLimiter.Limit(middleware.Authenticate(bookings.CreateBooking)))
	router.GET("/api/trips/:id/bookings", middleware.Authenticate(bookings.GetTripBookings))
	router.PUT("/api/bookings/:bookingid/confirm", middleware.Authenticate(bookings.ConfirmBooking))
	router.PUT("/api/bookings/:bookingid/cancel", middleware.Authenticate(bookings.CancelBooking))
}

func AddSearchRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/search/trips", rateLimiter.Limit(middleware.Authenticate(search.SearchTrips)))
	router.GET("/api/search/trips/filter", middleware.Authenticate(trips.SearchTrips))
	router.GET("/api/search/destinations", search.AutocompleteDestinations)
}

// AddAssistantRoutes wires the REST chat surface and the websocket
// endpoint. The hub needs Run() started before the router serves.
func AddAssistantRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *assistant.Hub, client *assistant.Client) {
	router.POST("/api/assistant/conversations", rateLimiter.Limit(middleware.Authenticate(assistant.CreateConversation)))
	router.GET("/api/assistant/conversations", middleware.Authenticate(assistant.GetConversations))
	router.PUT("/api/assistant/conversations/:conversationid", middleware.Authenticate(assistant.RenameConversation))
	router.DELETE("/api/assistant/conversations/:conversationid", middleware.Authenticate(assistant.DeleteConversation))
	router.GET("/api/assistant/conversations/:conversationid/messages", middleware.Authenticate(assistant.GetMessages))
	router.POST("/api/assistant/conversations/:conversationid/messages", rateLimiter.Limit(middleware.Authenticate(assistant.SendMessageHandler(client))))

	router.GET("/ws/assistant/:conversationid", assistant.WebSocketHandler(hub, client))
}
