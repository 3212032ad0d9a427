package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/weather-outlook/internal/api/http"
	"github.com/i474232898/weather-outlook/internal/config"
	"github.com/i474232898/weather-outlook/internal/logging"
	"github.com/i474232898/weather-outlook/internal/metrics"
	"github.com/i474232898/weather-outlook/internal/scheduler"
	"github.com/i474232898/weather-outlook/internal/store"
	"github.com/i474232898/weather-outlook/internal/view"
	"github.com/i474232898/weather-outlook/internal/weather"
	"github.com/i474232898/weather-outlook/internal/weather/providers"
)

func main() {
	// Load configuration (.env first, then the environment).
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info", "console")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	metrics.Init()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory day cache with configured retention.
	memStore := store.NewMemoryStore(cfg.CacheMaxEntries, cfg.CacheMaxAge)

	// Providers with resilience (backoff + circuit breaker), tried in this order.
	var provs []weather.Provider
	if cfg.VisualCrossingAPIKey != "" {
		provs = append(provs, providers.NewVisualCrossingProvider(httpClient, cfg.VisualCrossingAPIKey, cfg.VisualCrossingBaseURL))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	if cfg.EnableOpenMeteo {
		// Open-Meteo needs no key; place names resolve through Google geocoding when a key is set.
		var geocode providers.GeocodeFunc
		if cfg.GeocoderAPIKey != "" {
			geocode = providers.GoogleGeocoder(cfg.GeocoderAPIKey)
		}
		provs = append(provs, providers.NewOpenMeteoProvider(httpClient, geocode))
	}
	if len(provs) == 0 {
		log.Warn().Msg("no weather providers configured; outlook requests will fail")
	}
	for _, p := range provs {
		log.Info().Str("provider", p.Name()).Msg("provider enabled")
	}

	service := weather.NewService(memStore, provs, log)
	service.OnFetch(metrics.ObserveProviderFetch)
	service.OnCacheLookup(metrics.ObserveCacheLookup)

	builder := view.NewBuilder(cfg.ChartWidth, cfg.ChartHeight, metrics.ObserveRender)

	// Scheduler that keeps today's outlook warm for configured locations.
	sched := scheduler.New(cfg.WarmLocations, cfg.FetchInterval, service, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-outlook",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logging.FiberMiddleware(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "weather-outlook",
			"providers": len(provs),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service: service,
		Builder: builder,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
