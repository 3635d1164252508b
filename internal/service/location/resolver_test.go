package location

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	address string
	err     error
}

func (g stubGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	return g.address, g.err
}

type stubOfficeRepo struct {
	offices []office.Office
	err     error
}

func (r stubOfficeRepo) ListActive(ctx context.Context) ([]office.Office, error) {
	return r.offices, r.err
}

func (r stubOfficeRepo) GetByID(ctx context.Context, id string) (office.Office, error) {
	return office.Office{}, office.ErrOfficeNotFound
}

func TestResolver_Resolve_UsesGeocodedAddress(t *testing.T) {
	r := NewResolver(stubGeocoder{address: "Jl. Sudirman, Jakarta"}, stubOfficeRepo{})

	loc, err := r.Resolve(context.Background(), -6.2088, 106.8456, nil)

	require.NoError(t, err)
	assert.Equal(t, "Jl. Sudirman, Jakarta", loc.Address)
	assert.Equal(t, -6.2088, loc.Latitude)
	assert.Equal(t, 106.8456, loc.Longitude)
	assert.False(t, loc.CapturedAt.IsZero())
}

func TestResolver_Resolve_FallsBackOnGeocoderError(t *testing.T) {
	r := NewResolver(stubGeocoder{err: errors.New("connection refused")}, stubOfficeRepo{})

	loc, err := r.Resolve(context.Background(), -6.2088, 106.8456, nil)

	require.NoError(t, err)
	assert.Equal(t, "-6.208800, 106.845600", loc.Address)
}

func TestResolver_Resolve_FallsBackOnEmptyAddress(t *testing.T) {
	r := NewResolver(stubGeocoder{}, stubOfficeRepo{})

	loc, err := r.Resolve(context.Background(), -6.2088, 106.8456, nil)

	require.NoError(t, err)
	assert.Equal(t, "-6.208800, 106.845600", loc.Address)
}

func TestResolver_Resolve_CarriesAccuracy(t *testing.T) {
	r := NewResolver(stubGeocoder{}, stubOfficeRepo{})
	accuracy := 12.5

	loc, err := r.Resolve(context.Background(), -6.2088, 106.8456, &accuracy)

	require.NoError(t, err)
	require.NotNil(t, loc.AccuracyMeters)
	assert.Equal(t, 12.5, *loc.AccuracyMeters)
}

func TestResolver_Resolve_InvalidCoordinates(t *testing.T) {
	r := NewResolver(stubGeocoder{}, stubOfficeRepo{})

	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"latitude too high", 90.1, 0},
		{"latitude too low", -90.1, 0},
		{"longitude too high", 0, 180.1},
		{"longitude too low", 0, -180.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), tt.lat, tt.lon, nil)
			assert.ErrorIs(t, err, timeentry.ErrLocationUnavailable)
		})
	}
}

func TestResolver_AnnotateOfficeProximity_InsideRadius(t *testing.T) {
	r := NewResolver(stubGeocoder{}, stubOfficeRepo{offices: []office.Office{
		{ID: "office-1", Name: "Jakarta HQ", Latitude: -6.2088, Longitude: 106.8456, RadiusMeters: 100},
	}})

	loc := geo.Location{Latitude: -6.2088, Longitude: 106.8456}
	r.AnnotateOfficeProximity(context.Background(), &loc)

	require.NotNil(t, loc.IsAtOffice)
	assert.True(t, *loc.IsAtOffice)
	require.NotNil(t, loc.OfficeName)
	assert.Equal(t, "Jakarta HQ", *loc.OfficeName)
	require.NotNil(t, loc.DistanceFromOfficeMeters)
	assert.Less(t, *loc.DistanceFromOfficeMeters, 1.0)
}

func TestResolver_AnnotateOfficeProximity_OutsideRadius(t *testing.T) {
	r := NewResolver(stubGeocoder{}, stubOfficeRepo{offices: []office.Office{
		{ID: "office-1", Name: "Jakarta HQ", Latitude: -6.2088, Longitude: 106.8456, RadiusMeters: 100},
	}})

	// Roughly 1.1km due south of the office.
	loc := geo.Location{Latitude: -6.2188, Longitude: 106.8456}
	r.AnnotateOfficeProximity(context.Background(), &loc)

	require.NotNil(t, loc.IsAtOffice)
	assert.False(t, *loc.IsAtOffice)
	require.NotNil(t, loc.DistanceFromOfficeMeters)
	assert.InDelta(t, 1110, *loc.DistanceFromOfficeMeters, 30)
}

func TestResolver_AnnotateOfficeProximity_PicksNearestOffice(t *testing.T) {
	r := NewResolver(stubGeocoder{}, stubOfficeRepo{offices: []office.Office{
		{ID: "office-1", Name: "Jakarta HQ", Latitude: -6.2088, Longitude: 106.8456, RadiusMeters: 100},
		{ID: "office-2", Name: "Bandung Branch", Latitude: -6.9175, Longitude: 107.6191, RadiusMeters: 100},
	}})

	loc := geo.Location{Latitude: -6.9175, Longitude: 107.6191}
	r.AnnotateOfficeProximity(context.Background(), &loc)

	require.NotNil(t, loc.OfficeName)
	assert.Equal(t, "Bandung Branch", *loc.OfficeName)
	require.NotNil(t, loc.IsAtOffice)
	assert.True(t, *loc.IsAtOffice)
}

func TestResolver_AnnotateOfficeProximity_NoOffices(t *testing.T) {
	r := NewResolver(stubGeocoder{}, stubOfficeRepo{})

	loc := geo.Location{Latitude: -6.2088, Longitude: 106.8456}
	r.AnnotateOfficeProximity(context.Background(), &loc)

	assert.Nil(t, loc.IsAtOffice)
	assert.Nil(t, loc.OfficeName)
	assert.Nil(t, loc.DistanceFromOfficeMeters)
}

func TestResolver_AnnotateOfficeProximity_LookupFailure(t *testing.T) {
	r := NewResolver(stubGeocoder{}, stubOfficeRepo{err: errors.New("connection refused")})

	loc := geo.Location{Latitude: -6.2088, Longitude: 106.8456}
	r.AnnotateOfficeProximity(context.Background(), &loc)

	assert.Nil(t, loc.IsAtOffice)
}
