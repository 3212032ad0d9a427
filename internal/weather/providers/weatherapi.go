package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-outlook/internal/common"
	"github.com/i474232898/weather-outlook/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// FetchDays issues one forecast call per date; WeatherAPI's dt parameter selects a single day.
func (p *WeatherAPIProvider) FetchDays(ctx context.Context, loc weather.Location, dates []time.Time) ([]weather.DayForecast, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherapi api key is not configured")
	}

	byDate := make(map[string][]weather.HourlyRecord, len(dates))
	for _, d := range dates {
		hours, err := p.fetchDay(ctx, loc, d)
		if err != nil {
			return nil, err
		}
		byDate[formatDate(d)] = hours
	}
	return pickDays(dates, byDate), nil
}

func (p *WeatherAPIProvider) fetchDay(ctx context.Context, loc weather.Location, date time.Time) ([]weather.HourlyRecord, error) {
	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI uses "q" for location; it accepts a place name or "lat,lon".
	values.Set("q", loc.Query)
	values.Set("days", "1")
	values.Set("dt", formatDate(date))
	values.Set("aqi", "no")
	values.Set("alerts", "no")

	var payload struct {
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Hour []struct {
					Time         string  `json:"time"`
					TempF        float64 `json:"temp_f"`
					FeelsLikeF   float64 `json:"feelslike_f"`
					WindMph      float64 `json:"wind_mph"`
					ChanceOfRain float64 `json:"chance_of_rain"`
					ChanceOfSnow float64 `json:"chance_of_snow"`
					IsDay        int     `json:"is_day"`
					Condition    struct {
						Text string `json:"text"`
					} `json:"condition"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, err
	}

	var hours []weather.HourlyRecord
	for _, fd := range payload.Forecast.ForecastDay {
		if fd.Date != formatDate(date) {
			continue
		}
		for _, h := range fd.Hour {
			ts, err := time.Parse("2006-01-02 15:04", h.Time)
			if err != nil {
				return nil, fmt.Errorf("weatherapi time %q: %w", h.Time, err)
			}
			precipType := ""
			switch {
			case h.ChanceOfSnow > h.ChanceOfRain:
				precipType = "snow"
			case h.ChanceOfRain > 0:
				precipType = "rain"
			}
			text := strings.TrimSpace(h.Condition.Text)
			hours = append(hours, weather.HourlyRecord{
				Time:        weather.At(ts.Hour(), ts.Minute(), 0),
				Temperature: h.TempF,
				FeelsLike:   h.FeelsLikeF,
				WindSpeed:   h.WindMph,
				PrecipProb:  max(h.ChanceOfRain, h.ChanceOfSnow),
				PrecipType:  precipType,
				Conditions:  text,
				Icon:        mapWeatherAPIIcon(text, h.IsDay == 1),
			})
		}
	}
	return hours, nil
}

func mapWeatherAPIIcon(text string, isDay bool) string {
	t := strings.ToLower(text)
	switch {
	case t == "":
		return ""
	case common.HasAny(t, "thunder", "storm"):
		return "thunder-rain"
	case common.HasAny(t, "snow", "sleet", "blizzard", "ice"):
		return "snow"
	case common.HasAny(t, "rain", "shower", "drizzle"):
		return "rain"
	case common.HasAny(t, "fog", "mist"):
		return "fog"
	case common.HasAny(t, "partly"):
		if isDay {
			return "partly-cloudy-day"
		}
		return "partly-cloudy-night"
	case common.HasAny(t, "cloud", "overcast"):
		return "cloudy"
	case common.HasAny(t, "sunny", "clear"):
		if isDay {
			return "clear-day"
		}
		return "clear-night"
	default:
		return ""
	}
}
