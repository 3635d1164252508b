package location

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/geocode"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

// Resolver turns raw device coordinates into a usable location: validated,
// reverse-geocoded best-effort, and optionally annotated with proximity
// to the nearest configured office.
type Resolver struct {
	geocoder geocode.Geocoder
	office.OfficeRepository
}

func NewResolver(geocoder geocode.Geocoder, officeRepo office.OfficeRepository) *Resolver {
	return &Resolver{
		geocoder:         geocoder,
		OfficeRepository: officeRepo,
	}
}

// Resolve validates the coordinates and resolves an address. Geocoding is
// best-effort: any geocoder failure degrades to the coordinate-string
// address. Only invalid coordinates fail, with ErrLocationUnavailable.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64, accuracyMeters *float64) (geo.Location, error) {
	if !validator.IsValidLatitude(lat) || !validator.IsValidLongitude(lon) {
		return geo.Location{}, timeentry.ErrLocationUnavailable
	}

	loc := geo.Location{
		Latitude:       lat,
		Longitude:      lon,
		AccuracyMeters: accuracyMeters,
		CapturedAt:     time.Now().UTC(),
	}

	address, err := r.geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		slog.Debug("Reverse geocoding failed, falling back to coordinates", "error", err)
		address = ""
	}
	if address == "" {
		address = geo.FormatCoordinates(lat, lon)
	}
	loc.Address = address

	return loc, nil
}

// AnnotateOfficeProximity attaches the distance to the nearest active
// office and whether the point falls inside its radius. No configured
// office, or a lookup failure, leaves the location unannotated; the
// attendance action proceeds either way.
func (r *Resolver) AnnotateOfficeProximity(ctx context.Context, loc *geo.Location) {
	offices, err := r.OfficeRepository.ListActive(ctx)
	if err != nil {
		slog.Warn("Office lookup failed, skipping proximity check", "error", err)
		return
	}
	if len(offices) == 0 {
		return
	}

	var nearest office.Office
	nearestDistance := -1.0
	for _, o := range offices {
		d := geo.HaversineDistance(loc.Latitude, loc.Longitude, o.Latitude, o.Longitude)
		if nearestDistance < 0 || d < nearestDistance {
			nearest = o
			nearestDistance = d
		}
	}

	isAtOffice := nearestDistance <= float64(nearest.RadiusMeters)
	name := nearest.Name

	loc.DistanceFromOfficeMeters = &nearestDistance
	loc.IsAtOffice = &isAtOffice
	loc.OfficeName = &name
}
