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
	"unicode"
)

const _openweather_endpoint = "https://api.openweathermap.org/data/2.5/weather"

// canned results used when no OpenWeatherMap key is configured.
var mockWeather = map[string]string{
	"newyork": "The weather in New York is sunny with a temperature of 45°F.",
	"london":  "It's cloudy in London with a temperature of 55°F.",
	"tokyo":   "Tokyo is experiencing light rain and a temperature of 72°F.",
}

type WeatherConfig struct {
	// OpenWeatherMap api key. Empty key degrades the resolver to the
	// mock table.
	ApiKey string
	// override the OpenWeatherMap endpoint, for tests.
	Endpoint string
}

// WeatherResolver answers "what's the weather in <city>" from the
// OpenWeatherMap current-weather endpoint, imperial units, one attempt per
// call. Without a key it serves the mock table instead.
type WeatherResolver struct {
	client   *http.Client
	endpoint string
	key      string
}

func NewWeatherResolver(cfg WeatherConfig) *WeatherResolver {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = _openweather_endpoint
	}
	endpoint, _ = strings.CutSuffix(endpoint, "/")
	return &WeatherResolver{
		client:   &http.Client{Timeout: _resolver_timeout},
		endpoint: endpoint,
		key:      cfg.ApiKey,
	}
}

type owmResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
		Pressure *float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

func (r *WeatherResolver) Resolve(ctx context.Context, city string) Result {
	if r.key == "" {
		slog.Warn("weather resolver has no api key, using mock data")
		return r.mock(city)
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", r.key)
	params.Set("units", "imperial")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Errorf("Unable to fetch weather data for '%s'. Please check the city name and try again.", city)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		slog.Debug("weather resolver request failed", "city", city, "error", err)
		return Errorf("Unable to fetch weather data for '%s'. Please check the city name and try again.", city)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("weather resolver bad status", "city", city, "status", resp.StatusCode)
		return Errorf("Unable to fetch weather data for '%s'. Please check the city name and try again.", city)
	}

	var data owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Errorf("Received invalid weather data for '%s'.", city)
	}
	if data.Name == "" || len(data.Weather) == 0 ||
		data.Main.Temp == nil || data.Main.Humidity == nil ||
		data.Main.Pressure == nil || data.Wind.Speed == nil {
		return Errorf("Received invalid weather data for '%s'.", city)
	}

	desc := capitalize(data.Weather[0].Description)
	report := fmt.Sprintf(
		"The weather in %s, %s is %s with a temperature of %s°F. Humidity: %s%%, Wind: %s mph, Pressure: %s hPa.",
		data.Name, data.Sys.Country, desc,
		formatNumber(*data.Main.Temp),
		formatNumber(*data.Main.Humidity),
		formatNumber(*data.Wind.Speed),
		formatNumber(*data.Main.Pressure),
	)
	return Success(report, map[string]any{
		"city":        data.Name,
		"country":     data.Sys.Country,
		"temperature": *data.Main.Temp,
		"description": desc,
		"humidity":    *data.Main.Humidity,
		"wind_speed":  *data.Wind.Speed,
		"pressure":    *data.Main.Pressure,
	})
}

func (r *WeatherResolver) mock(city string) Result {
	report, ok := mockWeather[normalizeCity(city)]
	if !ok {
		return Errorf("Sorry, I don't have weather information for '%s'.", city)
	}
	return Success(report, map[string]any{"city": city, "mock": true})
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// capitalize uppercases the first rune and lowercases the rest,
// "light RAIN" -> "Light rain".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
