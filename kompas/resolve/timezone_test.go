package resolve

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fallbackReportRe = regexp.MustCompile(`^The current time in .+ is \d{2}:\d{2}\.$`)

func Test_time_fallback_table(t *testing.T) {
	r := NewTimeResolver(TimeConfig{})

	for city := range fallbackTimezones {
		t.Run(city, func(t *testing.T) {
			res := r.Resolve(t.Context(), city)
			require.Equal(t, StatusSuccess, res.Status, res.ErrorMessage)
			assert.Regexp(t, fallbackReportRe, res.Report)
			assert.Empty(t, res.ErrorMessage)
		})
	}
}

func Test_time_fallback_normalizes_city(t *testing.T) {
	r := NewTimeResolver(TimeConfig{})

	res := r.Resolve(t.Context(), "New York")
	require.Equal(t, StatusSuccess, res.Status)
	assert.Contains(t, res.Report, "The current time in New York is")
	assert.Equal(t, "America/New_York", res.Data["timezone"])
}

func Test_time_fallback_unknown_city(t *testing.T) {
	r := NewTimeResolver(TimeConfig{})

	res := r.Resolve(t.Context(), "Nowhereville")
	require.Equal(t, StatusError, res.Status)
	assert.Equal(t, "Sorry, I don't have timezone information for 'Nowhereville'.", res.ErrorMessage)
	assert.Empty(t, res.Report)
}

// fake TimeZoneDB answering both by=position and by=zone queries.
func newFakeTZDB(t *testing.T, zone string, timestamp int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		assert.Equal(t, "12345", q.Get("key"))
		assert.Equal(t, "json", q.Get("format"))

		w.Header().Set("Content-Type", "application/json")
		switch q.Get("by") {
		case "position":
			fmt.Fprintf(w, `{"status":"OK","zoneName":"%s"}`, zone)
		case "zone":
			assert.Equal(t, zone, q.Get("zone"))
			fmt.Fprintf(w, `{"status":"OK","zoneName":"%s","timestamp":%d}`, zone, timestamp)
		default:
			t.Errorf("unexpected 'by' param: %s", q.Get("by"))
		}
	}))
}

func newFakeNominatim(t *testing.T, lat, lon string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `[{"lat":"%s","lon":"%s","display_name":"somewhere"}]`, lat, lon)
	}))
}

func Test_time_live_success(t *testing.T) {
	const zone = "Europe/London"
	const timestamp = int64(1700000000)

	tzdb := newFakeTZDB(t, zone, timestamp)
	defer tzdb.Close()
	geo := newFakeNominatim(t, "51.5074", "-0.1278")
	defer geo.Close()

	r := NewTimeResolver(TimeConfig{ApiKey: "12345", Endpoint: tzdb.URL, GeoEndpoint: geo.URL})
	res := r.Resolve(t.Context(), "London")

	require.Equal(t, StatusSuccess, res.Status, res.ErrorMessage)

	dt := time.Unix(timestamp, 0).UTC()
	expected := fmt.Sprintf("The current time in London (%s) is %s on %s.",
		zone, dt.Format("15:04"), dt.Format("2006-01-02"))
	assert.Equal(t, expected, res.Report)
	assert.Equal(t, zone, res.Data["timezone"])
	assert.Equal(t, timestamp, res.Data["timestamp"])
}

func Test_time_live_failure_falls_back(t *testing.T) {
	tzdb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer tzdb.Close()
	geo := newFakeNominatim(t, "51.5074", "-0.1278")
	defer geo.Close()

	r := NewTimeResolver(TimeConfig{ApiKey: "12345", Endpoint: tzdb.URL, GeoEndpoint: geo.URL})
	res := r.Resolve(t.Context(), "London")

	// live path died, the fixed table still answers
	require.Equal(t, StatusSuccess, res.Status)
	assert.Regexp(t, fallbackReportRe, res.Report)
	assert.NotContains(t, res.Report, "Europe/London")
}

func Test_time_live_unknown_city(t *testing.T) {
	tzdb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer tzdb.Close()
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer geo.Close()

	r := NewTimeResolver(TimeConfig{ApiKey: "12345", Endpoint: tzdb.URL, GeoEndpoint: geo.URL})
	res := r.Resolve(t.Context(), "Nowhereville")

	require.Equal(t, StatusError, res.Status)
	assert.Equal(t, "Sorry, I don't have timezone information for 'Nowhereville'.", res.ErrorMessage)
}

func Test_time_live_zone_error_falls_back(t *testing.T) {
	// position lookup succeeds, zone-time lookup returns a FAILED status
	tzdb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Query().Get("by") {
		case "position":
			w.Write([]byte(`{"status":"OK","zoneName":"Europe/London"}`))
		default:
			w.Write([]byte(`{"status":"FAILED","message":"quota exceeded"}`))
		}
	}))
	defer tzdb.Close()
	geo := newFakeNominatim(t, "51.5074", "-0.1278")
	defer geo.Close()

	r := NewTimeResolver(TimeConfig{ApiKey: "12345", Endpoint: tzdb.URL, GeoEndpoint: geo.URL})
	res := r.Resolve(t.Context(), "London")

	require.Equal(t, StatusSuccess, res.Status)
	assert.Regexp(t, fallbackReportRe, res.Report)
}

func Test_result_exactly_one_of(t *testing.T) {
	tr := NewTimeResolver(TimeConfig{})
	wr := NewWeatherResolver(WeatherConfig{})

	for _, city := range []string{"London", "Nowhereville", "tokyo", ""} {
		for _, res := range []Result{tr.Resolve(t.Context(), city), wr.Resolve(t.Context(), city)} {
			if res.Status == StatusSuccess {
				assert.NotEmpty(t, res.Report, "city %q", city)
				assert.Empty(t, res.ErrorMessage, "city %q", city)
			} else {
				assert.NotEmpty(t, res.ErrorMessage, "city %q", city)
				assert.Empty(t, res.Report, "city %q", city)
			}
		}
	}
}

func Test_normalizeCity(t *testing.T) {
	assert.Equal(t, "newyork", normalizeCity("New York"))
	assert.Equal(t, "losangeles", normalizeCity("Los Angeles"))
	assert.Equal(t, "tokyo", normalizeCity("TOKYO"))
}
