// Package polyline adapts the encoded polyline algorithm format used by the
// directions service to domain coordinates. The codec itself is
// github.com/twpayne/go-polyline at its default 1e5 precision.
package polyline

import (
	"errors"
	"fmt"

	gopolyline "github.com/twpayne/go-polyline"

	"github.com/pkordes/travelmind/backend/internal/domain"
)

// maxChunks is the most 5-bit chunks one value may span before it stops
// fitting in 64 bits.
const maxChunks = 12

// ErrMalformed is returned when an encoded string ends mid-value, holds a
// byte outside the encoding alphabet or carries a value too long to decode.
var ErrMalformed = errors.New("malformed polyline")

// Decode turns an encoded polyline into its ordered points.
// An empty string decodes to an empty path.
func Decode(encoded string) ([]domain.LatLng, error) {
	if err := checkValueLengths(encoded); err != nil {
		return nil, err
	}
	coords, rest, err := gopolyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(rest))
	}

	path := make([]domain.LatLng, len(coords))
	for i, c := range coords {
		if len(c) != 2 {
			return nil, fmt.Errorf("%w: point %d has %d coordinates", ErrMalformed, i, len(c))
		}
		path[i] = domain.LatLng{Lat: c[0], Lng: c[1]}
	}
	return path, nil
}

// Encode is the inverse of Decode. Each coordinate is rounded to 5 decimal places.
func Encode(path []domain.LatLng) string {
	coords := make([][]float64, len(path))
	for i, p := range path {
		coords[i] = []float64{p.Lat, p.Lng}
	}
	return string(gopolyline.EncodeCoords(coords))
}

// checkValueLengths rejects any value longer than maxChunks. Continuation
// chunks are the bytes 95..126; a value ends on a byte below 95.
func checkValueLengths(encoded string) error {
	run := 0
	for i := 0; i < len(encoded); i++ {
		if c := encoded[i]; c >= 95 && c <= 126 {
			run++
			if run >= maxChunks {
				return fmt.Errorf("%w: value too long at offset %d", ErrMalformed, i)
			}
			continue
		}
		run = 0
	}
	return nil
}
