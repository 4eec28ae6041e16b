package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/travelmind/backend/internal/domain"
)

const itineraryNotFound = "itinerary not found"

// CreateItinerary handles POST /itineraries.
func (s *Server) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	var body CreateItineraryRequest
	if status, errBody, ok := decodeJSON(r, &body); !ok {
		writeJSON(w, status, errBody)
		return
	}

	created, err := s.itineraries.Create(r.Context(), requestToItinerary(body))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, itineraryToResponse(created))
}

// ListItineraries handles GET /itineraries.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListItineraries(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if !queryParam(w, r, "page", &page) || !queryParam(w, r, "limit", &limit) {
		return
	}
	params := domain.NewPaginationParams(page, limit)

	its, total, err := s.itineraries.ListPaged(r.Context(), params)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	data := make([]Itinerary, len(its))
	for i, it := range its {
		data[i] = itineraryToResponse(it)
	}
	writeJSON(w, http.StatusOK, ItineraryList{
		Data: data,
		Pagination: Pagination{
			Page:    params.Page,
			Limit:   params.Limit,
			Total:   int(total),
			HasNext: params.HasNext(total),
		},
	})
}

// GetItinerary handles GET /itineraries/{id}.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	it, err := s.itineraries.GetByID(r.Context(), id)
	if err != nil {
		s.writeItineraryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryToResponse(it))
}

// DeleteItinerary handles DELETE /itineraries/{id}.
func (s *Server) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.itineraries.Delete(r.Context(), id); err != nil {
		s.writeItineraryError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetItineraryStatus handles PUT /itineraries/{id}/status.
func (s *Server) SetItineraryStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body StatusRequest
	if status, errBody, ok := decodeJSON(r, &body); !ok {
		writeJSON(w, status, errBody)
		return
	}

	it, err := s.itineraries.SetStatus(r.Context(), id, domain.Status(body.Status))
	if err != nil {
		s.writeItineraryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryToResponse(it))
}

// GetDay handles GET /itineraries/{id}/days/{dayIndex}.
// An index outside the itinerary is a 404; there is no wraparound.
func (s *Server) GetDay(w http.ResponseWriter, r *http.Request) {
	id, dayIndex, ok := itineraryDayParams(w, r)
	if !ok {
		return
	}

	day, number, err := s.itineraries.SelectDay(r.Context(), id, dayIndex)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("day not found"))
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dayToResponse(dayIndex, number, day))
}

// ReorderActivities handles POST /itineraries/{id}/days/{dayIndex}/reorder.
// A stale drag event answers 200 with the unchanged itinerary.
func (s *Server) ReorderActivities(w http.ResponseWriter, r *http.Request) {
	id, dayIndex, ok := itineraryDayParams(w, r)
	if !ok {
		return
	}
	var body ReorderRequest
	if status, errBody, ok := decodeJSON(r, &body); !ok {
		writeJSON(w, status, errBody)
		return
	}

	it, err := s.itineraries.ReorderActivities(r.Context(), id, dayIndex, body.ActiveId, body.OverId)
	if err != nil {
		s.writeItineraryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryToResponse(it))
}

// AddActivity handles POST /itineraries/{id}/days/{dayIndex}/activities.
func (s *Server) AddActivity(w http.ResponseWriter, r *http.Request) {
	id, dayIndex, ok := itineraryDayParams(w, r)
	if !ok {
		return
	}
	var body ActivityRequest
	if status, errBody, ok := decodeJSON(r, &body); !ok {
		writeJSON(w, status, errBody)
		return
	}

	it, added, err := s.itineraries.AddActivity(r.Context(), id, dayIndex, requestToActivity(body))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("itinerary or day not found"))
			return
		}
		s.writeItineraryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, AddActivityResponse{
		Activity:  activityToResponse(added),
		Itinerary: itineraryToResponse(it),
	})
}

// DeleteActivity handles DELETE /itineraries/{id}/days/{dayIndex}/activities/{activityId}.
// Deleting an activity that is already gone answers 200 with the unchanged itinerary.
func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, dayIndex, ok := itineraryDayParams(w, r)
	if !ok {
		return
	}
	activityID, ok := pathUUID(w, r, "activityId")
	if !ok {
		return
	}

	it, err := s.itineraries.DeleteActivity(r.Context(), id, dayIndex, activityID)
	if err != nil {
		s.writeItineraryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryToResponse(it))
}

// GetDashboardStats handles GET /dashboard/stats.
func (s *Server) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.itineraries.DashboardStats(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardStats{
		TotalTrips:    stats.TotalTrips,
		UpcomingTrips: stats.UpcomingTrips,
		TotalSpent:    stats.TotalSpent,
	})
}

// writeItineraryError maps the itinerary service sentinels onto responses.
func (s *Server) writeItineraryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(itineraryNotFound))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	default:
		s.internalError(w, r, err)
	}
}
