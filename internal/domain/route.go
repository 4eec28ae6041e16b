package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// metersPerMile converts the directions service's metric distance to miles.
const metersPerMile = 1609.34

// maxRouteSeconds bounds a plausible driving duration (30 days).
const maxRouteSeconds = 30 * 24 * 3600

// LatLng is a geographic coordinate in decimal degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// Bounds is the smallest latitude/longitude box holding a set of points.
type Bounds struct {
	SouthWest LatLng
	NorthEast LatLng
}

// BoundsOf reduces path to its bounding box. ok is false for an empty path.
func BoundsOf(path []LatLng) (b Bounds, ok bool) {
	if len(path) == 0 {
		return Bounds{}, false
	}
	b = Bounds{SouthWest: path[0], NorthEast: path[0]}
	for _, p := range path[1:] {
		b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lng = math.Min(b.SouthWest.Lng, p.Lng)
		b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lng = math.Max(b.NorthEast.Lng, p.Lng)
	}
	return b, true
}

// RouteSummary is the human-readable distance and duration of a route.
type RouteSummary struct {
	DistanceMeters int
	// Miles is DistanceMeters in miles rounded to one decimal place.
	Miles   float64
	Hours   int
	Minutes int
}

// NewRouteSummary derives the summary from the raw service fields.
// duration is decimal seconds with a literal "s" suffix, e.g. "5523s".
// A malformed duration is an upstream payload problem and wraps ErrUpstream.
func NewRouteSummary(distanceMeters int, duration string) (RouteSummary, error) {
	secs, err := ParseDurationSeconds(duration)
	if err != nil {
		return RouteSummary{}, err
	}
	hours := int(math.Floor(secs / 3600))
	minutes := int(math.Round(math.Mod(secs, 3600) / 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return RouteSummary{
		DistanceMeters: distanceMeters,
		Miles:          math.Round(float64(distanceMeters)/metersPerMile*10) / 10,
		Hours:          hours,
		Minutes:        minutes,
	}, nil
}

// ParseDurationSeconds parses the service's "<seconds>s" duration string.
func ParseDurationSeconds(s string) (float64, error) {
	num, ok := strings.CutSuffix(strings.TrimSpace(s), "s")
	if !ok {
		return 0, fmt.Errorf("%w: duration %q has no seconds suffix", ErrUpstream, s)
	}
	secs, err := strconv.ParseFloat(num, 64)
	if err != nil || secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("%w: malformed duration %q", ErrUpstream, s)
	}
	if secs > maxRouteSeconds {
		return 0, fmt.Errorf("%w: duration %q out of range", ErrUpstream, s)
	}
	return secs, nil
}

// DistanceText formats the distance, e.g. "2.5 mi".
func (s RouteSummary) DistanceText() string {
	return fmt.Sprintf("%.1f mi", s.Miles)
}

// DurationText formats the duration, e.g. "1h 32m".
func (s RouteSummary) DurationText() string {
	return fmt.Sprintf("%dh %dm", s.Hours, s.Minutes)
}

// String renders the one-line summary shown beside the map.
func (s RouteSummary) String() string {
	return "Distance: " + s.DistanceText() + ", Duration: " + s.DurationText()
}

// Route is everything a map view needs to draw a computed route.
// It is plain data; the caller owns the map, the polyline and the markers.
type Route struct {
	Path    []LatLng
	Bounds  Bounds
	Start   LatLng
	End     LatLng
	Summary RouteSummary
}
