package weather

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoHourlyData means the provider answered but had no hours for the requested day.
	ErrNoHourlyData = errors.New("no hourly data available")
	// ErrNoProviders is returned when the service has nothing to fetch from.
	ErrNoProviders = errors.New("no weather providers configured")
	// ErrProviderFailure wraps transport, auth and parse failures from every provider tried.
	ErrProviderFailure = errors.New("weather provider request failed")
	// ErrInvalidLocation rejects an empty location query.
	ErrInvalidLocation = errors.New("please enter a valid location")
)

// Provider abstracts an hourly weather source (e.g. Visual Crossing, Open-Meteo, WeatherAPI).
type Provider interface {
	Name() string
	// FetchDays returns hourly forecasts for the listed dates, in the same order.
	// A date without data comes back with an empty Hours slice.
	FetchDays(ctx context.Context, loc Location, dates []time.Time) ([]DayForecast, error)
}

// Store is the contract the in-memory cache (and any future persistent store) must satisfy.
type Store interface {
	SaveDay(loc Location, day DayForecast)
	GetDay(loc Location, date time.Time) (DayForecast, error)
}
