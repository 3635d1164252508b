package geo

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // meters
		tolerance              float64
	}{
		{"same point", 6.5, 3.3, 6.5, 3.3, 0, 0.001},
		{"lagos to ikeja", 6.4550, 3.3841, 6.6018, 3.3515, 16700, 500},
		{"one degree of latitude", 0, 0, 1, 0, 111195, 100},
		{"antipodal-ish", 0, 0, 0, 180, math.Pi * earthRadiusMeters, 1000},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := HaversineDistance(c.lat1, c.lon1, c.lat2, c.lon2)
			if math.Abs(got-c.want) > c.tolerance {
				t.Errorf("HaversineDistance() = %v, want %v ± %v", got, c.want, c.tolerance)
			}
		})
	}
}

func TestHaversineDistanceSymmetric(t *testing.T) {
	a := HaversineDistance(6.5244, 3.3792, 51.5074, -0.1278)
	b := HaversineDistance(51.5074, -0.1278, 6.5244, 3.3792)
	if math.Abs(a-b) > 0.0001 {
		t.Errorf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestFormatCoordinates(t *testing.T) {
	got := FormatCoordinates(6.5244001, 3.3791999)
	want := "6.524400, 3.379200"
	if got != want {
		t.Errorf("FormatCoordinates() = %q, want %q", got, want)
	}
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		meters float64
		want   string
	}{
		{0, "0m"},
		{42.4, "42m"},
		{999, "999m"},
		{1000, "1.0km"},
		{16723, "16.7km"},
	}
	for _, c := range cases {
		if got := FormatDistance(c.meters); got != c.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", c.meters, got, c.want)
		}
	}
}
