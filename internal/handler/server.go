// Package handler implements the HTTP handlers for the TravelMind planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, itinerary.go, route.go, export.go) but share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/travelmind/backend/internal/domain"
)

// ItineraryServicer defines the business operations the itinerary handlers
// depend on. Defining the interface here, in the consumer package, lets
// handler tests inject a mock without touching the database or service layer.
type ItineraryServicer interface {
	Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Itinerary, error)
	SelectDay(ctx context.Context, id uuid.UUID, dayIndex int) (domain.TripDay, int, error)
	ReorderActivities(ctx context.Context, id uuid.UUID, dayIndex int, activeID, overID uuid.UUID) (domain.Itinerary, error)
	DeleteActivity(ctx context.Context, id uuid.UUID, dayIndex int, activityID uuid.UUID) (domain.Itinerary, error)
	AddActivity(ctx context.Context, id uuid.UUID, dayIndex int, a domain.Activity) (domain.Itinerary, domain.Activity, error)
	Export(ctx context.Context, id uuid.UUID) (domain.Itinerary, []domain.ExportRow, error)
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
}

// RouteServicer defines the route computation the route handler depends on.
type RouteServicer interface {
	ComputeRoute(ctx context.Context, originPlaceID, destinationPlaceID string) (domain.Route, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	itineraries ItineraryServicer
	routes      RouteServicer
	log         *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(itineraries ItineraryServicer, routes RouteServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{itineraries: itineraries, routes: routes, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil)
}

// RegisterRoutes mounts every endpoint on r. main.go applies the global
// middleware to r before calling this.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/itineraries", func(r chi.Router) {
		r.Get("/", s.ListItineraries)
		r.Post("/", s.CreateItinerary)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetItinerary)
			r.Delete("/", s.DeleteItinerary)
			r.Put("/status", s.SetItineraryStatus)
			r.Get("/export", s.ExportItinerary)

			r.Route("/days/{dayIndex}", func(r chi.Router) {
				r.Get("/", s.GetDay)
				r.Post("/reorder", s.ReorderActivities)
				r.Post("/activities", s.AddActivity)
				r.Delete("/activities/{activityId}", s.DeleteActivity)
			})
		})
	})

	r.Get("/dashboard/stats", s.GetDashboardStats)
	r.Post("/routes", s.ComputeRoute)
}
