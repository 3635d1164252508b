package geocode

import "context"

// Noop is the fallback geocoder used when reverse geocoding is disabled.
// It always reports "no address found", pushing callers onto the
// coordinate-string fallback.
type Noop struct{}

func (Noop) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	return "", nil
}
