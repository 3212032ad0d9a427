package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-outlook/internal/weather"
)

var (
	monday     = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	nextMonday = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
)

func fastBackoff(cfg *HTTPClientConfig) {
	cfg.Backoff.InitialInterval = time.Millisecond
	cfg.Backoff.MaxInterval = 2 * time.Millisecond
}

func TestResilienceRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	cfg := defaultHTTPConfig(srv.Client())
	fastBackoff(&cfg)

	var out struct{ OK bool }
	require.NoError(t, getJSON(context.Background(), cfg, newBreaker("test"), srv.URL, &out))
	assert.True(t, out.OK)
	assert.EqualValues(t, 3, calls.Load())
}

func TestResilienceDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "bad key")
	}))
	defer srv.Close()

	cfg := defaultHTTPConfig(srv.Client())
	fastBackoff(&cfg)

	err := getJSON(context.Background(), cfg, newBreaker("test"), srv.URL, &struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnexpected)
	assert.Contains(t, err.Error(), "bad key")
	assert.EqualValues(t, 1, calls.Load())
}

func TestResilienceGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := defaultHTTPConfig(srv.Client())
	fastBackoff(&cfg)

	err := getJSON(context.Background(), cfg, newBreaker("test"), srv.URL, &struct{}{})
	assert.ErrorIs(t, err, errRateLimited)
	assert.EqualValues(t, cfg.Backoff.MaxRetries+1, calls.Load())
}

func TestResilienceWithoutClient(t *testing.T) {
	err := getJSON(context.Background(), HTTPClientConfig{}, newBreaker("test"), "http://example.invalid", &struct{}{})
	assert.ErrorIs(t, err, errNoHTTPClient)
}

func TestVisualCrossingFetchDays(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotKey = r.URL.Query().Get("key")
		json.NewEncoder(w).Encode(map[string]any{
			"days": []map[string]any{
				{"datetime": "2024-03-04", "hours": []map[string]any{
					{"datetime": "00:00:00", "temp": 30.5, "feelslike": 25.1, "windspeed": 8, "precipprob": 20, "preciptype": []string{"rain", "snow"}, "conditions": "Overcast", "icon": "cloudy"},
					{"datetime": "01:00:00", "temp": 31, "feelslike": 26, "windspeed": 9, "precipprob": 0, "preciptype": nil, "conditions": "Clear", "icon": "clear-night"},
				}},
			},
		})
	}))
	defer srv.Close()

	p := NewVisualCrossingProvider(srv.Client(), "secret", srv.URL+"/")
	days, err := p.FetchDays(context.Background(), weather.Location{Query: "New York, NY"}, []time.Time{monday, nextMonday})
	require.NoError(t, err)

	assert.Equal(t, "/New%20York%2C%20NY/2024-03-04/2024-03-11", gotPath)
	assert.Equal(t, "secret", gotKey)

	require.Len(t, days, 2)
	require.Len(t, days[0].Hours, 2)
	assert.Empty(t, days[1].Hours)

	h := days[0].Hours[0]
	assert.Equal(t, weather.At(0, 0, 0), h.Time)
	assert.Equal(t, 30.5, h.Temperature)
	assert.Equal(t, 25.1, h.FeelsLike)
	assert.Equal(t, "rain,snow", h.PrecipType)
	assert.Equal(t, "Overcast", h.Conditions)
	assert.Equal(t, "", days[0].Hours[1].PrecipType)
}

func TestVisualCrossingRequiresKey(t *testing.T) {
	p := NewVisualCrossingProvider(http.DefaultClient, "", "")
	_, err := p.FetchDays(context.Background(), weather.Location{Query: "Paris"}, []time.Time{monday})
	assert.Error(t, err)
}

func TestWeatherAPIFetchDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dt := r.URL.Query().Get("dt")
		if dt != "2024-03-04" {
			json.NewEncoder(w).Encode(map[string]any{"forecast": map[string]any{"forecastday": []any{}}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"forecast": map[string]any{
				"forecastday": []map[string]any{{
					"date": dt,
					"hour": []map[string]any{
						{"time": dt + " 09:00", "temp_f": 41.2, "feelslike_f": 37, "wind_mph": 11, "chance_of_rain": 10, "chance_of_snow": 60, "is_day": 1, "condition": map[string]any{"text": "Light snow"}},
						{"time": dt + " 10:00", "temp_f": 43, "feelslike_f": 40, "wind_mph": 12, "chance_of_rain": 0, "chance_of_snow": 0, "is_day": 1, "condition": map[string]any{"text": "Partly cloudy "}},
					},
				}},
			},
		})
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "k")
	p.baseURL = srv.URL

	days, err := p.FetchDays(context.Background(), weather.Location{Query: "Oslo"}, []time.Time{monday, nextMonday})
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Len(t, days[0].Hours, 2)
	assert.Empty(t, days[1].Hours)

	snow := days[0].Hours[0]
	assert.Equal(t, 9, snow.Time.Hour())
	assert.Equal(t, 60.0, snow.PrecipProb)
	assert.Equal(t, "snow", snow.PrecipType)
	assert.Equal(t, "snow", snow.Icon)

	partly := days[0].Hours[1]
	assert.Equal(t, "", partly.PrecipType)
	assert.Equal(t, "Partly cloudy", partly.Conditions)
	assert.Equal(t, "partly-cloudy-day", partly.Icon)
}

func TestMapWeatherAPIIcon(t *testing.T) {
	assert.Equal(t, "thunder-rain", mapWeatherAPIIcon("Thundery outbreaks possible", true))
	assert.Equal(t, "rain", mapWeatherAPIIcon("Patchy light drizzle", true))
	assert.Equal(t, "fog", mapWeatherAPIIcon("Mist", false))
	assert.Equal(t, "clear-night", mapWeatherAPIIcon("Clear", false))
	assert.Equal(t, "clear-day", mapWeatherAPIIcon("Sunny", true))
	assert.Equal(t, "", mapWeatherAPIIcon("", true))
}

func TestOpenMeteoFetchDays(t *testing.T) {
	var gotLat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLat = r.URL.Query().Get("latitude")
		assert.Equal(t, "2024-03-04", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2024-03-11", r.URL.Query().Get("end_date"))
		json.NewEncoder(w).Encode(map[string]any{
			"hourly": map[string]any{
				"time":                      []string{"2024-03-04T00:00", "2024-03-04T01:00", "2024-03-11T00:00"},
				"temperature_2m":            []float64{40, 41, 50},
				"apparent_temperature":      []float64{36, 37, 47},
				"precipitation_probability": []float64{0, 80, 5},
				"weather_code":              []int{0, 61, 2},
				"wind_speed_10m":            []float64{5, 6, 7},
				"is_day":                    []int{0, 0, 0},
			},
		})
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), nil)
	p.baseURL = srv.URL

	days, err := p.FetchDays(context.Background(), weather.Location{Query: "59.91, 10.75"}, []time.Time{monday, nextMonday})
	require.NoError(t, err)
	assert.Equal(t, "59.9100", gotLat)

	require.Len(t, days, 2)
	require.Len(t, days[0].Hours, 2)
	require.Len(t, days[1].Hours, 1)

	assert.Equal(t, "Clear", days[0].Hours[0].Conditions)
	assert.Equal(t, "clear-night", days[0].Hours[0].Icon)
	assert.Equal(t, "rain", days[0].Hours[1].PrecipType)
	assert.Equal(t, 80.0, days[0].Hours[1].PrecipProb)
	assert.Equal(t, "partly-cloudy-night", days[1].Hours[0].Icon)
}

func TestOpenMeteoGeocodesPlaceNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "48.8566", r.URL.Query().Get("latitude"))
		fmt.Fprint(w, `{"hourly":{"time":[]}}`)
	}))
	defer srv.Close()

	var asked string
	p := NewOpenMeteoProvider(srv.Client(), func(_ context.Context, place string) (Coordinates, error) {
		asked = place
		return Coordinates{Lat: 48.8566, Lon: 2.3522}, nil
	})
	p.baseURL = srv.URL

	days, err := p.FetchDays(context.Background(), weather.Location{Query: "Paris"}, []time.Time{monday})
	require.NoError(t, err)
	assert.Equal(t, "Paris", asked)
	require.Len(t, days, 1)
	assert.Empty(t, days[0].Hours)
}

func TestOpenMeteoWithoutGeocoder(t *testing.T) {
	p := NewOpenMeteoProvider(http.DefaultClient, nil)
	_, err := p.FetchDays(context.Background(), weather.Location{Query: "Paris"}, []time.Time{monday})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "latitude and longitude"))

	p = NewOpenMeteoProvider(http.DefaultClient, func(context.Context, string) (Coordinates, error) {
		return Coordinates{}, errors.New("zero results")
	})
	_, err = p.FetchDays(context.Background(), weather.Location{Query: "Atlantis"}, []time.Time{monday})
	assert.ErrorContains(t, err, "zero results")
}

func TestParseCoordinates(t *testing.T) {
	c, ok := parseCoordinates("43.65,-79.38")
	require.True(t, ok)
	assert.Equal(t, Coordinates{Lat: 43.65, Lon: -79.38}, c)

	for _, s := range []string{"Toronto", "91,0", "0,181", "1,2,3", "a,b"} {
		_, ok := parseCoordinates(s)
		assert.False(t, ok, s)
	}
}

func TestMapOpenMeteoCondition(t *testing.T) {
	assert.Equal(t, condition{conditions: "Overcast", icon: "cloudy"}, mapOpenMeteoCondition(3, true))
	assert.Equal(t, "snow", mapOpenMeteoCondition(73, true).precipType)
	assert.Equal(t, "Thunderstorm", mapOpenMeteoCondition(95, false).conditions)
	assert.Equal(t, "fog", mapOpenMeteoCondition(45, true).icon)
	assert.Equal(t, condition{}, mapOpenMeteoCondition(20, true))
}
