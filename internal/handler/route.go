package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/travelmind/backend/internal/domain"
)

// ComputeRoute handles POST /routes.
// A missing place is a 422. Every other failure is a 502 with the same
// generic message; RouteService has already logged the cause.
func (s *Server) ComputeRoute(w http.ResponseWriter, r *http.Request) {
	var body RouteRequest
	if status, errBody, ok := decodeJSON(r, &body); !ok {
		writeJSON(w, status, errBody)
		return
	}

	route, err := s.routes.ComputeRoute(r.Context(), body.OriginPlaceId, body.DestinationPlaceId)
	if err != nil {
		if errors.Is(err, domain.ErrMissingSelection) {
			writeJSON(w, http.StatusUnprocessableEntity, missingSelectionBody())
			return
		}
		writeJSON(w, http.StatusBadGateway, routeUnavailableBody())
		return
	}

	writeJSON(w, http.StatusOK, routeToResponse(route))
}
