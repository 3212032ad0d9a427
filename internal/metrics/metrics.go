package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "weather_outlook_"

	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoData  = "no_data"
)

var (
	registerOnce sync.Once

	providerFetches *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	chartRenders    *prometheus.CounterVec
)

// Init registers the collectors with the default registry. Observations made
// before Init are dropped.
func Init() {
	registerOnce.Do(func() {
		providerFetches = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "provider_fetches_total",
				Help: "Hourly forecast fetches by provider and result",
			},
			[]string{"provider", "result"},
		)
		cacheLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cache_lookups_total",
				Help: "Day forecast cache lookups by outcome",
			},
			[]string{"outcome"},
		)
		chartRenders = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "chart_renders_total",
				Help: "Chart renders by surface and whether anything was drawn",
			},
			[]string{"surface", "drawn"},
		)

		prometheus.MustRegister(providerFetches, cacheLookups, chartRenders)
	})
}

func ObserveProviderFetch(provider, result string) {
	if providerFetches == nil {
		return
	}
	providerFetches.WithLabelValues(provider, result).Inc()
}

func ObserveCacheLookup(hit bool) {
	if cacheLookups == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	cacheLookups.WithLabelValues(outcome).Inc()
}

func ObserveRender(surface string, drawn bool) {
	if chartRenders == nil {
		return
	}
	d := "false"
	if drawn {
		d = "true"
	}
	chartRenders.WithLabelValues(surface, d).Inc()
}
