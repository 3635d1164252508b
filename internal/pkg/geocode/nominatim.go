package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NominatimClient reverse-geocodes through a Nominatim-compatible HTTP API.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &NominatimClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type nominatimResponse struct {
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	Amenity       string `json:"amenity"`
	Building      string `json:"building"`
	Shop          string `json:"shop"`
	Office        string `json:"office"`
	Road          string `json:"road"`
	Neighbourhood string `json:"neighbourhood"`
	Suburb        string `json:"suburb"`
	CityDistrict  string `json:"city_district"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	State         string `json:"state"`
	Country       string `json:"country"`
}

// ReverseGeocode calls the /reverse endpoint and assembles an address from
// the response components, most specific first.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse?%s", c.baseURL, url.Values{
		"lat":    {fmt.Sprintf("%f", lat)},
		"lon":    {fmt.Sprintf("%f", lon)},
		"format": {"jsonv2"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode returned status %d", resp.StatusCode)
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}

	if address := AssembleAddress(payload.Address); address != "" {
		return address, nil
	}

	return payload.DisplayName, nil
}

// AssembleAddress joins the most specific available components in fixed
// priority order: named place (venue/building/shop/office), street,
// neighbourhood, suburb/district, city, country.
func AssembleAddress(a nominatimAddress) string {
	var parts []string

	appendNonEmpty := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}

	// Named place beats street address.
	switch {
	case a.Amenity != "":
		appendNonEmpty(a.Amenity)
	case a.Building != "":
		appendNonEmpty(a.Building)
	case a.Shop != "":
		appendNonEmpty(a.Shop)
	case a.Office != "":
		appendNonEmpty(a.Office)
	}

	appendNonEmpty(a.Road)
	appendNonEmpty(a.Neighbourhood)

	switch {
	case a.Suburb != "":
		appendNonEmpty(a.Suburb)
	case a.CityDistrict != "":
		appendNonEmpty(a.CityDistrict)
	}

	switch {
	case a.City != "":
		appendNonEmpty(a.City)
	case a.Town != "":
		appendNonEmpty(a.Town)
	case a.Village != "":
		appendNonEmpty(a.Village)
	}

	appendNonEmpty(a.Country)

	return strings.Join(parts, ", ")
}
