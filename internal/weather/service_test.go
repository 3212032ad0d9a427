package weather_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-outlook/internal/store"
	"github.com/i474232898/weather-outlook/internal/weather"
)

type fakeProvider struct {
	name  string
	err   error
	calls int
	// skipNext drops the second requested day.
	skipNext bool
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) FetchDays(_ context.Context, _ weather.Location, dates []time.Time) ([]weather.DayForecast, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	days := make([]weather.DayForecast, len(dates))
	for i := range dates {
		if i == 1 && f.skipNext {
			continue
		}
		days[i].Hours = []weather.HourlyRecord{{Time: weather.At(8, 0, 0), Temperature: float64(50 + i)}}
	}
	return days, nil
}

var (
	toronto = weather.Location{Query: "Toronto"}
	monday  = time.Date(2024, 3, 4, 13, 45, 0, 0, time.UTC)
)

func newService(provs ...weather.Provider) (*weather.Service, *store.MemoryStore) {
	st := store.NewMemoryStore(0, 0)
	return weather.NewService(st, provs, zerolog.Nop()), st
}

func TestGetOutlookFallsBackInOrder(t *testing.T) {
	broken := &fakeProvider{name: "first", err: errors.New("connection reset")}
	empty := &fakeProvider{name: "second", err: weather.ErrNoHourlyData}
	good := &fakeProvider{name: "third"}
	svc, _ := newService(broken, empty, good)

	var seen []string
	svc.OnFetch(func(provider, result string) { seen = append(seen, provider+":"+result) })

	out, err := svc.GetOutlook(context.Background(), toronto, monday)
	require.NoError(t, err)

	assert.Equal(t, []string{"first:error", "second:no_data", "third:success"}, seen)
	assert.Equal(t, "third", out.This.Provider)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), out.This.Date)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), out.Next.Date)
	assert.Equal(t, 51.0, out.Next.Hours[0].Temperature)
}

func TestGetOutlookUsesCache(t *testing.T) {
	p := &fakeProvider{name: "p"}
	svc, st := newService(p)

	var lookups []bool
	svc.OnCacheLookup(func(hit bool) { lookups = append(lookups, hit) })

	_, err := svc.GetOutlook(context.Background(), toronto, monday)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Len())

	out, err := svc.GetOutlook(context.Background(), weather.Location{Query: "TORONTO"}, monday.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, []bool{false, true}, lookups)
	assert.Len(t, out.This.Hours, 1)
}

func TestMissingNextWeekIsNotAnError(t *testing.T) {
	p := &fakeProvider{name: "p", skipNext: true}
	svc, st := newService(p)

	out, err := svc.GetOutlook(context.Background(), toronto, monday)
	require.NoError(t, err)
	assert.NotEmpty(t, out.This.Hours)
	assert.Empty(t, out.Next.Hours)
	// Only the populated day is cached, so the next request fetches again.
	assert.Equal(t, 1, st.Len())

	_, err = svc.GetOutlook(context.Background(), toronto, monday)
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)
}

func TestNoDataIsDistinctFromFailure(t *testing.T) {
	svc, _ := newService(
		&fakeProvider{name: "a", err: weather.ErrNoHourlyData},
		&fakeProvider{name: "b", err: weather.ErrNoHourlyData},
	)
	_, err := svc.GetOutlook(context.Background(), toronto, monday)
	assert.ErrorIs(t, err, weather.ErrNoHourlyData)
	assert.NotErrorIs(t, err, weather.ErrProviderFailure)

	svc, _ = newService(
		&fakeProvider{name: "a", err: weather.ErrNoHourlyData},
		&fakeProvider{name: "b", err: errors.New("401 bad key")},
	)
	_, err = svc.GetOutlook(context.Background(), toronto, monday)
	assert.ErrorIs(t, err, weather.ErrProviderFailure)
	assert.ErrorContains(t, err, "401 bad key")
}

func TestEmptyRequestedDayIsNoData(t *testing.T) {
	p := &fakeProvider{name: "p"}
	svc, _ := newService(&emptyProvider{}, p)

	out, err := svc.GetOutlook(context.Background(), toronto, monday)
	require.NoError(t, err)
	assert.Equal(t, "p", out.This.Provider)
}

func TestNoProviders(t *testing.T) {
	svc, _ := newService()
	_, err := svc.GetOutlook(context.Background(), toronto, monday)
	assert.ErrorIs(t, err, weather.ErrNoProviders)
}

func TestNewLocation(t *testing.T) {
	_, err := weather.NewLocation("   ")
	assert.ErrorIs(t, err, weather.ErrInvalidLocation)

	loc, err := weather.NewLocation("  Paris ")
	require.NoError(t, err)
	assert.Equal(t, "Paris", loc.Query)
	assert.Equal(t, "paris", loc.Key())
}

// emptyProvider answers successfully with no hours at all.
type emptyProvider struct{}

func (emptyProvider) Name() string { return "empty" }

func (emptyProvider) FetchDays(_ context.Context, _ weather.Location, dates []time.Time) ([]weather.DayForecast, error) {
	return make([]weather.DayForecast, len(dates)), nil
}
