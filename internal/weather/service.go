package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Service fetches day pairs from providers in order and caches the results.
type Service struct {
	store     Store
	providers []Provider
	log       zerolog.Logger
	observe   func(provider, result string)
	lookup    func(hit bool)
}

// NewService creates a new Service. Providers are tried in the order given.
func NewService(store Store, providers []Provider, log zerolog.Logger) *Service {
	return &Service{
		store:     store,
		providers: providers,
		log:       log,
		observe:   func(string, string) {},
		lookup:    func(bool) {},
	}
}

// OnFetch registers a hook called after every provider attempt with the
// provider name and one of "success", "no_data" or "error".
func (s *Service) OnFetch(fn func(provider, result string)) {
	if fn != nil {
		s.observe = fn
	}
}

// OnCacheLookup registers a hook called once per outlook request with
// whether both days were served from the store.
func (s *Service) OnCacheLookup(fn func(hit bool)) {
	if fn != nil {
		s.lookup = fn
	}
}

// GetOutlook returns hourly data for day and for the same weekday one week later.
// A provider failure is an error; an empty requested day is ErrNoHourlyData. A
// missing next-week day is not an error and comes back with no hours.
func (s *Service) GetOutlook(ctx context.Context, loc Location, day time.Time) (Outlook, error) {
	day = DateOnly(day)
	next := WeekLater(day)

	if this, err := s.store.GetDay(loc, day); err == nil {
		if nextDay, err := s.store.GetDay(loc, next); err == nil {
			s.lookup(true)
			s.log.Debug().Str("location", loc.Key()).Time("day", day).Msg("outlook served from cache")
			return Outlook{Location: loc, This: this, Next: nextDay}, nil
		}
	}

	s.lookup(false)

	days, err := s.fetch(ctx, loc, []time.Time{day, next})
	if err != nil {
		return Outlook{}, err
	}

	out := Outlook{Location: loc, This: days[0], Next: days[1]}
	s.store.SaveDay(loc, out.This)
	if len(out.Next.Hours) > 0 {
		s.store.SaveDay(loc, out.Next)
	}
	return out, nil
}

// Warm prefetches the outlook for day so later requests hit the cache.
func (s *Service) Warm(ctx context.Context, loc Location, day time.Time) error {
	_, err := s.GetOutlook(ctx, loc, day)
	return err
}

func (s *Service) fetch(ctx context.Context, loc Location, dates []time.Time) ([]DayForecast, error) {
	if len(s.providers) == 0 {
		s.log.Error().Str("location", loc.Key()).Msg("no providers available to fetch weather data")
		return nil, ErrNoProviders
	}

	var (
		errs      []error
		allNoData = true
	)
	for _, p := range s.providers {
		days, err := p.FetchDays(ctx, loc, dates)
		if err == nil && (len(days) != len(dates) || len(days[0].Hours) == 0) {
			err = ErrNoHourlyData
		}

		switch {
		case err == nil:
			s.observe(p.Name(), "success")
			for i := range days {
				days[i].Date = dates[i]
				days[i].Provider = p.Name()
			}
			return days, nil
		case errors.Is(err, ErrNoHourlyData):
			s.observe(p.Name(), "no_data")
		default:
			allNoData = false
			s.observe(p.Name(), "error")
		}

		// Log and continue; the next provider may have the day.
		s.log.Warn().Err(err).Str("provider", p.Name()).Str("location", loc.Key()).Msg("provider fetch failed")
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}

	if allNoData {
		return nil, ErrNoHourlyData
	}
	return nil, fmt.Errorf("%w: %w", ErrProviderFailure, errors.Join(errs...))
}
