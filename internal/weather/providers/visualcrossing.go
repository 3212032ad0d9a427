package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-outlook/internal/weather"
)

const visualCrossingBaseURL = "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline"

// VisualCrossingProvider implements weather.Provider on the Visual Crossing timeline API.
// It accepts free-text places and "lat,lon" strings alike.
type VisualCrossingProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewVisualCrossingProvider creates the provider. An empty baseURL selects the public endpoint.
func NewVisualCrossingProvider(client *http.Client, apiKey, baseURL string) *VisualCrossingProvider {
	if baseURL == "" {
		baseURL = visualCrossingBaseURL
	}
	return &VisualCrossingProvider{
		name:    "visualcrossing",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("visualcrossing"),
	}
}

func (p *VisualCrossingProvider) Name() string {
	return p.name
}

type visualCrossingHour struct {
	Datetime   string   `json:"datetime"`
	Temp       float64  `json:"temp"`
	FeelsLike  float64  `json:"feelslike"`
	WindSpeed  float64  `json:"windspeed"`
	PrecipProb float64  `json:"precipprob"`
	PrecipType []string `json:"preciptype"`
	Conditions string   `json:"conditions"`
	Icon       string   `json:"icon"`
}

// FetchDays requests the whole span from the first to the last date in one call.
func (p *VisualCrossingProvider) FetchDays(ctx context.Context, loc weather.Location, dates []time.Time) ([]weather.DayForecast, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("visualcrossing api key is not configured")
	}
	if len(dates) == 0 {
		return nil, nil
	}

	first, last := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("unitGroup", "us")
	values.Set("include", "hours")
	values.Set("contentType", "json")

	u := fmt.Sprintf("%s/%s/%s/%s?%s", p.baseURL, url.PathEscape(loc.Query), formatDate(first), formatDate(last), values.Encode())

	var payload struct {
		Days []struct {
			Datetime string               `json:"datetime"`
			Hours    []visualCrossingHour `json:"hours"`
		} `json:"days"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, err
	}

	byDate := make(map[string][]weather.HourlyRecord, len(payload.Days))
	for _, d := range payload.Days {
		hours := make([]weather.HourlyRecord, 0, len(d.Hours))
		for _, h := range d.Hours {
			ts, err := weather.ParseClock(h.Datetime)
			if err != nil {
				return nil, fmt.Errorf("visualcrossing day %s: %w", d.Datetime, err)
			}
			hours = append(hours, weather.HourlyRecord{
				Time:        ts,
				Temperature: h.Temp,
				FeelsLike:   h.FeelsLike,
				WindSpeed:   h.WindSpeed,
				PrecipProb:  h.PrecipProb,
				PrecipType:  strings.Join(h.PrecipType, ","),
				Conditions:  h.Conditions,
				Icon:        h.Icon,
			})
		}
		byDate[d.Datetime] = hours
	}

	return pickDays(dates, byDate), nil
}
