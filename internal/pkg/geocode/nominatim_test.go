package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAssembleAddress(t *testing.T) {
	cases := []struct {
		name    string
		address nominatimAddress
		want    string
	}{
		{
			name: "full detail prefers venue over street",
			address: nominatimAddress{
				Amenity: "Ikeja City Mall",
				Road:    "Obafemi Awolowo Way",
				Suburb:  "Alausa",
				City:    "Ikeja",
				Country: "Nigeria",
			},
			want: "Ikeja City Mall, Obafemi Awolowo Way, Alausa, Ikeja, Nigeria",
		},
		{
			name: "street only",
			address: nominatimAddress{
				Road:    "Marina Road",
				City:    "Lagos",
				Country: "Nigeria",
			},
			want: "Marina Road, Lagos, Nigeria",
		},
		{
			name: "town used when city missing",
			address: nominatimAddress{
				Town:    "Epe",
				Country: "Nigeria",
			},
			want: "Epe, Nigeria",
		},
		{
			name: "district only when no suburb",
			address: nominatimAddress{
				CityDistrict: "Surulere",
				City:         "Lagos",
			},
			want: "Surulere, Lagos",
		},
		{
			name:    "empty components",
			address: nominatimAddress{},
			want:    "",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := AssembleAddress(c.address); got != c.want {
				t.Errorf("AssembleAddress() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestNominatimClientReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"display_name": "somewhere, Lagos, Nigeria",
			"address": {"road": "Broad Street", "city": "Lagos", "country": "Nigeria"}
		}`))
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL, "timetrack-test", 5*time.Second)

	address, err := client.ReverseGeocode(context.Background(), 6.45, 3.39)
	if err != nil {
		t.Fatalf("ReverseGeocode() error = %v", err)
	}
	want := "Broad Street, Lagos, Nigeria"
	if address != want {
		t.Errorf("ReverseGeocode() = %q, want %q", address, want)
	}
}

func TestNominatimClientFallsBackToDisplayName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name": "6.45, 3.39 somewhere", "address": {}}`))
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL, "timetrack-test", 5*time.Second)

	address, err := client.ReverseGeocode(context.Background(), 6.45, 3.39)
	if err != nil {
		t.Fatalf("ReverseGeocode() error = %v", err)
	}
	if address != "6.45, 3.39 somewhere" {
		t.Errorf("ReverseGeocode() = %q, want display name fallback", address)
	}
}

func TestNominatimClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL, "timetrack-test", 5*time.Second)

	if _, err := client.ReverseGeocode(context.Background(), 6.45, 3.39); err == nil {
		t.Error("ReverseGeocode() expected error on non-200 status")
	}
}

func TestNoopGeocoder(t *testing.T) {
	address, err := Noop{}.ReverseGeocode(context.Background(), 6.45, 3.39)
	if err != nil {
		t.Fatalf("Noop.ReverseGeocode() error = %v", err)
	}
	if address != "" {
		t.Errorf("Noop.ReverseGeocode() = %q, want empty", address)
	}
}
