package routes

import (
	"tripsage/assistant"
	"tripsage/flights"
	"tripsage/ratelim"
	"tripsage/stays"

	"github.com/julienschmidt/httprouter"
)

// Deps carries the shared pieces handlers need beyond package globals.
type Deps struct {
	RateLimiter *ratelim.RateLimiter
	Flights     *flights.Client
	Stays       *stays.Client
	Assistant   *assistant.Client
	Hub         *assistant.Hub
}

func RoutesWrapper(router *httprouter.Router, deps Deps) {
	AddAuthRoutes(router, deps.RateLimiter)
	AddProfileRoutes(router, deps.RateLimiter)
	AddTripRoutes(router, deps.RateLimiter)
	AddFlightRoutes(router, deps.RateLimiter, deps.Flights)
	AddStayRoutes(router, deps.RateLimiter, deps.Stays)
	AddBookingRoutes(router, deps.RateLimiter)
	AddSearchRoutes(router, deps.RateLimiter)
	AddAssistantRoutes(router, deps.RateLimiter, deps.Hub, deps.Assistant)
	AddStaticRoutes(router)
}
