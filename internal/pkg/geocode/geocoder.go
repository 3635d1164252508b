package geocode

import "context"

// Geocoder resolves a coordinate pair to a human-readable address.
// Implementations are best-effort: an empty string with a nil error is a
// valid "no address found" result, and callers are expected to fall back
// to formatting the raw coordinates.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}
