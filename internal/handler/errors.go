package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/travelmind/backend/internal/domain"
)

// routeFailureMessage is the only detail a client ever sees for a failed
// route computation. The cause is logged.
const routeFailureMessage = "unable to calculate route"

// ErrorDetail is the inner object of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "itinerary not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationBody(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err, domain.ErrValidation)}}
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}}
}

// paramBody returns an ErrorResponse for a path or query parameter that
// could not be bound.
func paramBody(name string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "invalid_parameter", Message: "invalid format for parameter " + name}}
}

func missingSelectionBody() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "missing_selection", Message: "select both an origin and a destination"}}
}

func routeUnavailableBody() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "route_unavailable", Message: routeFailureMessage}}
}

func tooLargeBody() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "payload_too_large", Message: "request body too large"}}
}

func internalBody() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: "internal server error"}}
}

// unwrapMessage extracts the human-readable part that follows a wrapped sentinel.
// e.g. "service.ItineraryService.Create: validation error: title is required" → "title is required"
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a required JSON body into dst. The returned ErrorResponse
// and status are ready to write when ok is false.
func decodeJSON(r *http.Request, dst any) (status int, body ErrorResponse, ok bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return http.StatusUnprocessableEntity, requestBody("request body is required"), false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, tooLargeBody(), false
		}
		return http.StatusUnprocessableEntity, requestBody("malformed JSON body"), false
	}
	return 0, ErrorResponse{}, true
}

// internalError logs err and writes a generic 500.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, internalBody())
}
