package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pkordes/travelmind/backend/internal/directions"
	"github.com/pkordes/travelmind/backend/internal/domain"
	"github.com/pkordes/travelmind/backend/internal/metrics"
	"github.com/pkordes/travelmind/backend/internal/polyline"
)

// DefaultRouteTimeout applies when NewRouteService is given a zero timeout.
const DefaultRouteTimeout = 10 * time.Second

// DirectionsClient is the outbound call RouteService depends on.
// *directions.Client satisfies it.
type DirectionsClient interface {
	ComputeRoutes(ctx context.Context, originPlaceID, destinationPlaceID string) (directions.ComputeRoutesResponse, error)
}

// RouteService turns two selected places into a drawable driving route.
type RouteService struct {
	client  DirectionsClient
	timeout time.Duration
	log     *slog.Logger
	metrics *metrics.Metrics

	// inflight collapses identical concurrent requests into one upstream call.
	inflight singleflight.Group
}

// NewRouteService constructs a RouteService. m may be nil.
func NewRouteService(c DirectionsClient, timeout time.Duration, log *slog.Logger, m *metrics.Metrics) *RouteService {
	if timeout <= 0 {
		timeout = DefaultRouteTimeout
	}
	return &RouteService{client: c, timeout: timeout, log: log, metrics: m}
}

// ComputeRoute requests a driving route between two place IDs and returns the
// decoded path, its bounds, the start and end markers and the summary.
//
// Errors:
//   - domain.ErrMissingSelection when either place ID is blank (no call made)
//   - domain.ErrNoRouteFound when the service returns no routes
//   - domain.ErrUpstream for transport, status, payload and timeout failures
//
// The upstream call is bounded by the service timeout and is not retried.
// A caller that gives up early gets ErrUpstream while the shared call
// finishes for anyone else waiting on it.
func (s *RouteService) ComputeRoute(ctx context.Context, originPlaceID, destinationPlaceID string) (domain.Route, error) {
	origin, dest := strings.TrimSpace(originPlaceID), strings.TrimSpace(destinationPlaceID)
	if origin == "" || dest == "" {
		s.metrics.ObserveRoute(metrics.OutcomeMissingSelection)
		return domain.Route{}, fmt.Errorf("service.RouteService.ComputeRoute: %w", domain.ErrMissingSelection)
	}

	ch := s.inflight.DoChan(origin+"\x00"+dest, func() (any, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.compute(cctx, origin, dest)
	})

	var (
		route domain.Route
		err   error
	)
	select {
	case <-ctx.Done():
		err = fmt.Errorf("%w: %w", domain.ErrUpstream, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			err = res.Err
		} else {
			route = res.Val.(domain.Route)
		}
	}

	if err != nil {
		outcome := metrics.OutcomeUpstreamError
		if errors.Is(err, domain.ErrNoRouteFound) {
			outcome = metrics.OutcomeNoRoute
		}
		s.metrics.ObserveRoute(outcome)
		s.log.WarnContext(ctx, "route computation failed",
			slog.String("origin", origin),
			slog.String("destination", dest),
			slog.String("outcome", outcome),
			slog.Any("error", err),
		)
		return domain.Route{}, fmt.Errorf("service.RouteService.ComputeRoute: %w", err)
	}

	s.metrics.ObserveRoute(metrics.OutcomeOK)
	return route, nil
}

func (s *RouteService) compute(ctx context.Context, origin, dest string) (domain.Route, error) {
	start := time.Now()
	resp, err := s.client.ComputeRoutes(ctx, origin, dest)
	s.metrics.ObserveUpstream(time.Since(start))
	if err != nil {
		return domain.Route{}, err
	}
	if len(resp.Routes) == 0 {
		return domain.Route{}, domain.ErrNoRouteFound
	}
	return buildRoute(resp.Routes[0])
}

// buildRoute converts the first upstream route into the map-ready value.
// Markers come from the first leg; without legs they fall back to the path ends.
func buildRoute(r directions.Route) (domain.Route, error) {
	path, err := polyline.Decode(r.Polyline.EncodedPolyline)
	if err != nil {
		return domain.Route{}, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	bounds, ok := domain.BoundsOf(path)
	if !ok {
		return domain.Route{}, fmt.Errorf("%w: route has an empty polyline", domain.ErrUpstream)
	}
	summary, err := domain.NewRouteSummary(r.DistanceMeters, r.Duration)
	if err != nil {
		return domain.Route{}, err
	}

	startPt, endPt := path[0], path[len(path)-1]
	if len(r.Legs) > 0 {
		startPt = toLatLng(r.Legs[0].StartLocation)
		endPt = toLatLng(r.Legs[0].EndLocation)
	}

	return domain.Route{
		Path:    path,
		Bounds:  bounds,
		Start:   startPt,
		End:     endPt,
		Summary: summary,
	}, nil
}

func toLatLng(l directions.Location) domain.LatLng {
	return domain.LatLng{Lat: l.LatLng.Latitude, Lng: l.LatLng.Longitude}
}
