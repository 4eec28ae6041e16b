package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// itinerary (or a day inside it, for reads) does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. negative cost, unknown category, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrMissingSelection is returned when an operation is attempted before all
// of its required inputs were chosen, e.g. a route with no destination place.
// No outbound call is made when this error is returned.
var ErrMissingSelection = errors.New("missing selection")

// ErrUpstream is returned when the remote directions service was reachable
// but answered with a failure status or a payload that could not be used.
// Transport failures and timeouts are reported as ErrUpstream too.
var ErrUpstream = errors.New("upstream error")

// ErrNoRouteFound is returned when the directions service answered
// successfully but with zero routes.
var ErrNoRouteFound = errors.New("no route found")
