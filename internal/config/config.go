package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-outlook/internal/common"
	"github.com/i474232898/weather-outlook/internal/weather"
)

type AppConfig struct {
	Port      string
	LogLevel  string
	LogFormat string

	// HTTPTimeout bounds a single outbound provider request.
	HTTPTimeout time.Duration

	VisualCrossingAPIKey  string
	VisualCrossingBaseURL string
	WeatherAPIKey         string
	GeocoderAPIKey        string
	EnableOpenMeteo       bool

	// WarmLocations are prefetched by the scheduler every FetchInterval.
	WarmLocations []weather.Location
	FetchInterval time.Duration

	// In-memory cache retention.
	CacheMaxEntries int           // max number of cached days (0 = unlimited)
	CacheMaxAge     time.Duration // max age of a cached day (0 = unlimited)

	// Chart container size in pixels.
	ChartWidth  int
	ChartHeight int
}

// Load reads .env (when present) and then the process environment.
func Load() (*AppConfig, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the current environment with defaults.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:                  getenvDefault("PORT", "8080"),
		LogLevel:              getenvDefault("LOG_LEVEL", "info"),
		LogFormat:             getenvDefault("LOG_FORMAT", "console"),
		VisualCrossingAPIKey:  os.Getenv("VISUALCROSSING_API_KEY"),
		VisualCrossingBaseURL: os.Getenv("VISUALCROSSING_BASE_URL"),
		WeatherAPIKey:         os.Getenv("WEATHERAPI_API_KEY"),
		GeocoderAPIKey:        os.Getenv("GEOCODER_API_KEY"),
		CacheMaxEntries:       getenvInt("CACHE_MAX_ENTRIES", 512),
		ChartWidth:            getenvInt("CHART_WIDTH", 600),
		ChartHeight:           getenvInt("CHART_HEIGHT", 400),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CacheMaxAge, err = getenvDuration("CACHE_MAX_AGE", time.Hour); err != nil {
		return nil, err
	}

	if cfg.EnableOpenMeteo, err = getenvBool("ENABLE_OPENMETEO", true); err != nil {
		return nil, err
	}

	if cfg.ChartWidth <= 0 || cfg.ChartHeight <= 0 {
		return nil, fmt.Errorf("chart size must be positive, got %dx%d", cfg.ChartWidth, cfg.ChartHeight)
	}

	for _, q := range common.SplitList(os.Getenv("WARM_LOCATIONS"), ";") {
		loc, err := weather.NewLocation(q)
		if err != nil {
			return nil, fmt.Errorf("invalid WARM_LOCATIONS entry %q: %w", q, err)
		}
		cfg.WarmLocations = append(cfg.WarmLocations, loc)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
