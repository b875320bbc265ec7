package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/i-am-feyi/ai-travel-planner/internal/api/trip"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	TripHandler            *trip.TripHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied before
// mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes. The recent trips list feeds the landing page and
		// needs no identity. Registered before /trips/{tripID} so chi does
		// not treat "recent" as a trip id.
		r.Group(func(r chi.Router) {
			r.Get("/trips/recent", cfg.TripHandler.GetRecentTrips)
		})

		// Protected routes.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/trips", cfg.TripHandler.CreateTrip)
			r.Get("/trips", cfg.TripHandler.GetUserTrips)
			r.Get("/trips/{tripID}", cfg.TripHandler.GetTrip)
		})
	})

	return r
}
