package office

import "time"

// Office is a configured work location used for proximity checks.
type Office struct {
	ID           string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
