// Package directions is the HTTP client for the remote directions service
// (Routes API computeRoutes). It only speaks the wire format; decoding the
// path and deriving the summary happen in the service layer.
package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pkordes/travelmind/backend/internal/domain"
)

const (
	// DefaultBaseURL is the production endpoint of the directions service.
	DefaultBaseURL = "https://routes.googleapis.com"

	computeRoutesPath = "/directions/v2:computeRoutes"

	// FieldMask restricts the response to the fields the route cycle reads.
	FieldMask = "routes.duration,routes.distanceMeters,routes.polyline.encodedPolyline,routes.legs.startLocation,routes.legs.endLocation"

	// TravelModeDrive is the only travel mode requested.
	TravelModeDrive = "DRIVE"

	maxResponseBytes = 8 << 20
)

// Client calls computeRoutes. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit bounds outbound requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// NewClient builds a Client for baseURL authenticated with apiKey.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ComputeRoutes requests a driving route between two place IDs.
//
// A non-2xx answer returns a *StatusError. Transport failures, context expiry,
// and undecodable bodies wrap domain.ErrUpstream. An empty Routes slice is not
// an error at this layer.
func (c *Client) ComputeRoutes(ctx context.Context, originPlaceID, destinationPlaceID string) (ComputeRoutesResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return ComputeRoutesResponse{}, fmt.Errorf("directions.Client.ComputeRoutes: rate limit: %w: %w", domain.ErrUpstream, err)
		}
	}

	payload, err := json.Marshal(ComputeRoutesRequest{
		Origin:      Waypoint{PlaceID: originPlaceID},
		Destination: Waypoint{PlaceID: destinationPlaceID},
		TravelMode:  TravelModeDrive,
	})
	if err != nil {
		return ComputeRoutesResponse{}, fmt.Errorf("directions.Client.ComputeRoutes: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+computeRoutesPath, bytes.NewReader(payload))
	if err != nil {
		return ComputeRoutesResponse{}, fmt.Errorf("directions.Client.ComputeRoutes: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", FieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		return ComputeRoutesResponse{}, fmt.Errorf("directions.Client.ComputeRoutes: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return ComputeRoutesResponse{}, fmt.Errorf("directions.Client.ComputeRoutes: read body: %w: %w", domain.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ComputeRoutesResponse{}, newStatusError(resp, body)
	}

	var out ComputeRoutesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return ComputeRoutesResponse{}, fmt.Errorf("directions.Client.ComputeRoutes: decode: %w: %w", domain.ErrUpstream, err)
	}
	return out, nil
}

// StatusError is a non-success answer from the directions service.
// It unwraps to domain.ErrUpstream.
type StatusError struct {
	StatusCode int
	// Status is the service's symbolic status, e.g. "INVALID_ARGUMENT".
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Status != "" {
		return fmt.Sprintf("directions service returned %d %s: %s", e.StatusCode, e.Status, msg)
	}
	return fmt.Sprintf("directions service returned %d: %s", e.StatusCode, msg)
}

func (e *StatusError) Unwrap() error { return domain.ErrUpstream }

func newStatusError(resp *http.Response, body []byte) *StatusError {
	se := &StatusError{StatusCode: resp.StatusCode}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		se.Status = eb.Error.Status
		se.Message = eb.Error.Message
	}
	return se
}
