package geo

import (
	"fmt"
	"math"
	"time"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Location is a captured device position, optionally enriched with a
// human-readable address and office-proximity data.
type Location struct {
	Latitude       float64
	Longitude      float64
	Address        string
	AccuracyMeters *float64
	CapturedAt     time.Time

	// Set only when at least one office is configured.
	DistanceFromOfficeMeters *float64
	IsAtOffice               *bool
	OfficeName               *string
}

const earthRadiusMeters = 6371000

// HaversineDistance returns the great-circle distance between two
// coordinates in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// FormatCoordinates renders a coordinate pair as the fallback address
// string, 6 decimal places.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}

// FormatDistance renders a distance in meters for display: whole meters
// under a kilometer, otherwise kilometers with one decimal.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}
