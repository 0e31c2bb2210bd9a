package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const _nominatim_endpoint = "https://nominatim.openstreetmap.org"

// Geocoder turns a city name into coordinates using the OSM Nominatim
// search API. It only yields the first hit, nothing else.
type Geocoder struct {
	client   *http.Client
	endpoint string
}

func NewGeocoder(client *http.Client, endpoint string) *Geocoder {
	if endpoint == "" {
		endpoint = _nominatim_endpoint
	}
	endpoint, _ = strings.CutSuffix(endpoint, "/")
	return &Geocoder{
		client:   client,
		endpoint: endpoint,
	}
}

type geoCodeResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *Geocoder) Lookup(ctx context.Context, city string) (lat, lon float64, err error) {
	apiURL := g.endpoint + "/search?q=" + url.QueryEscape(city) + "&format=json&limit=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("User-Agent", "kompas-geocoder")

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: geocode request: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: geocode status %v", ErrNetwork, resp.StatusCode)
	}

	var results []geoCodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("%w: geocode decode: %v", ErrMalformed, err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("%w: no geocode result for %q", ErrUnknownCity, city)
	}

	lat, err = strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: geocode latitude: %v", ErrMalformed, err)
	}
	lon, err = strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: geocode longitude: %v", ErrMalformed, err)
	}
	return lat, lon, nil
}
