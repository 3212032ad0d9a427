package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-outlook/internal/weather"
)

var (
	// ErrNotFound is returned when no fresh forecast is cached for a location and date.
	ErrNotFound = errors.New("no cached forecast for location and date")
)

type entry struct {
	day      weather.DayForecast
	storedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory cache of day forecasts.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key + date
	data map[string]entry

	// retention configuration
	maxEntries int           // max number of cached days (0 = unlimited)
	maxAge     time.Duration // max age of a cached day (0 = unlimited)

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries is <= 0, it is treated as unlimited.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]entry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

func dayKey(loc weather.Location, date time.Time) string {
	return loc.Key() + "|" + date.Format("2006-01-02")
}

// SaveDay caches a day forecast and enforces retention.
func (s *MemoryStore) SaveDay(loc weather.Location, day weather.DayForecast) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[dayKey(loc, day.Date)] = entry{day: day, storedAt: now}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := now.Add(-s.maxAge)
		for k, e := range s.data {
			if e.storedAt.Before(cutoff) {
				delete(s.data, k)
			}
		}
	}

	// Enforce retention by count, evicting the oldest entries first.
	for s.maxEntries > 0 && len(s.data) > s.maxEntries {
		var (
			oldestKey string
			oldestAt  time.Time
		)
		for k, e := range s.data {
			if oldestKey == "" || e.storedAt.Before(oldestAt) {
				oldestKey, oldestAt = k, e.storedAt
			}
		}
		delete(s.data, oldestKey)
	}
}

// GetDay returns the cached forecast for a location and date.
func (s *MemoryStore) GetDay(loc weather.Location, date time.Time) (weather.DayForecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[dayKey(loc, date)]
	if !ok {
		return weather.DayForecast{}, ErrNotFound
	}
	if s.maxAge > 0 && s.now().Sub(e.storedAt) > s.maxAge {
		return weather.DayForecast{}, ErrNotFound
	}
	return e.day, nil
}

// Len reports how many days are cached.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
