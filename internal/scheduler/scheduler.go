package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-outlook/internal/weather"
)

// Warmer prefetches an outlook into the cache.
type Warmer interface {
	Warm(ctx context.Context, loc weather.Location, day time.Time) error
}

// Scheduler periodically warms today's outlook for configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	warmer    Warmer
	locations []weather.Location
	interval  time.Duration
	timeout   time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, warmer Warmer, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		warmer:    warmer,
		locations: locations,
		interval:  interval,
		timeout:   30 * time.Second,
		log:       log.With().Str("component", "scheduler").Logger(),
		now:       time.Now,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Info().Msg("no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	if _, err := s.scheduler.Every(minutes).Minutes().Do(s.RunOnce); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce warms every location concurrently and waits for all of them.
func (s *Scheduler) RunOnce() {
	s.log.Debug().Int("locations", len(s.locations)).Msg("running warm-up job")
	today := s.now()

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			if err := s.warmer.Warm(ctx, loc, today); err != nil {
				s.log.Warn().Err(err).Str("location", loc.Key()).Msg("warm-up failed")
			}
		}()
	}
	wg.Wait()
	s.log.Debug().Msg("completed warm-up job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
