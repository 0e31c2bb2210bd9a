package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	_timezonedb_endpoint = "https://api.timezonedb.com/v2.1/get-time-zone"

	_resolver_timeout = 10 * time.Second
)

// fallback mapping for common cities, used when no TimeZoneDB key is
// configured or the live path fails.
var fallbackTimezones = map[string]string{
	"newyork":    "America/New_York",
	"london":     "Europe/London",
	"tokyo":      "Asia/Tokyo",
	"paris":      "Europe/Paris",
	"sydney":     "Australia/Sydney",
	"losangeles": "America/Los_Angeles",
	"chicago":    "America/Chicago",
	"mumbai":     "Asia/Kolkata",
	"beijing":    "Asia/Shanghai",
	"moscow":     "Europe/Moscow",
}

type TimeConfig struct {
	// TimeZoneDB api key. Empty key degrades the resolver to the
	// fallback table.
	ApiKey string
	// override the TimeZoneDB endpoint, for tests.
	Endpoint string
	// override the Nominatim endpoint, for tests.
	GeoEndpoint string
}

// TimeResolver answers "what time is it in <city>". It prefers the live
// TimeZoneDB lookup (geocode -> zone by position -> time by zone) and falls
// back to the fixed city table. Failures never propagate to the caller,
// they surface as an error Result at worst.
type TimeResolver struct {
	client   *http.Client
	endpoint string
	key      string
	geo      *Geocoder
}

func NewTimeResolver(cfg TimeConfig) *TimeResolver {
	client := &http.Client{Timeout: _resolver_timeout}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = _timezonedb_endpoint
	}
	endpoint, _ = strings.CutSuffix(endpoint, "/")
	return &TimeResolver{
		client:   client,
		endpoint: endpoint,
		key:      cfg.ApiKey,
		geo:      NewGeocoder(client, cfg.GeoEndpoint),
	}
}

func (r *TimeResolver) Resolve(ctx context.Context, city string) Result {
	if r.key == "" {
		slog.Warn("time resolver has no api key, using fallback timezone data")
		return r.fallback(city)
	}

	zone, err := r.zoneByPosition(ctx, city)
	if err != nil {
		slog.Debug("time resolver zone lookup failed", "city", city, "error", err)
		key := normalizeCity(city)
		z, ok := fallbackTimezones[key]
		if !ok {
			return Errorf("Sorry, I don't have timezone information for '%s'.", city)
		}
		zone = z
	}

	ts, err := r.timeByZone(ctx, zone)
	if err != nil {
		slog.Debug("time resolver live lookup failed", "city", city, "zone", zone, "error", err)
		return r.fallback(city)
	}

	// timezonedb pre-shifts the timestamp by the zone offset.
	dt := time.Unix(ts, 0).UTC()
	report := fmt.Sprintf(
		"The current time in %s (%s) is %s on %s.",
		city, zone, dt.Format("15:04"), dt.Format("2006-01-02"),
	)
	return Success(report, map[string]any{
		"city":           city,
		"timezone":       zone,
		"timestamp":      ts,
		"formatted_time": dt.Format("15:04"),
		"formatted_date": dt.Format("2006-01-02"),
	})
}

// zoneByPosition geocodes the city and asks TimeZoneDB which zone the
// coordinates belong to.
func (r *TimeResolver) zoneByPosition(ctx context.Context, city string) (string, error) {
	lat, lon, err := r.geo.Lookup(ctx, city)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("key", r.key)
	params.Set("format", "json")
	params.Set("by", "position")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(lon, 'f', -1, 64))

	data, err := r.get(ctx, params)
	if err != nil {
		return "", err
	}
	if data.ZoneName == "" {
		return "", fmt.Errorf("%w: empty zone name", ErrMalformed)
	}
	return data.ZoneName, nil
}

// timeByZone queries the current epoch timestamp for an IANA zone.
func (r *TimeResolver) timeByZone(ctx context.Context, zone string) (int64, error) {
	params := url.Values{}
	params.Set("key", r.key)
	params.Set("format", "json")
	params.Set("by", "zone")
	params.Set("zone", zone)

	data, err := r.get(ctx, params)
	if err != nil {
		return 0, err
	}
	if data.Timestamp == nil {
		return 0, fmt.Errorf("%w: missing timestamp", ErrMalformed)
	}
	return *data.Timestamp, nil
}

type tzdbResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ZoneName  string `json:"zoneName"`
	Timestamp *int64 `json:"timestamp"`
}

func (r *TimeResolver) get(ctx context.Context, params url.Values) (*tzdbResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: timezonedb request: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: timezonedb status %v", ErrNetwork, resp.StatusCode)
	}

	var data tzdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: timezonedb decode: %v", ErrMalformed, err)
	}
	if data.Status != "OK" {
		return nil, fmt.Errorf("%w: timezonedb status %q: %s", ErrMalformed, data.Status, data.Message)
	}
	return &data, nil
}

// fallback computes the local time from the fixed city table.
func (r *TimeResolver) fallback(city string) Result {
	key := normalizeCity(city)
	zone, ok := fallbackTimezones[key]
	if !ok {
		return Errorf("Sorry, I don't have timezone information for '%s'.", city)
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		slog.Error("time resolver bad fallback zone", "zone", zone, "error", err)
		return Errorf("Sorry, I don't have timezone information for '%s'.", city)
	}

	now := time.Now().In(loc)
	report := fmt.Sprintf("The current time in %s is %s.", city, now.Format("15:04"))
	return Success(report, map[string]any{
		"city":           city,
		"timezone":       zone,
		"formatted_time": now.Format("15:04"),
	})
}
