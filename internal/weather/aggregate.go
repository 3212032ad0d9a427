package weather

import "math"

const (
	DefaultPrecipType = "precipitation"
	DefaultConditions = "clear"
	DefaultIcon       = "clear-day"
)

// SummaryStats is the reduced view of a window shown next to the chart.
type SummaryStats struct {
	WindSpeed   int    `json:"windSpeed"`
	Temperature int    `json:"temperature"`
	PrecipProb  int    `json:"precipProb"`
	PrecipType  string `json:"precipType"`
	Conditions  string `json:"conditions"`
	Icon        string `json:"icon"`
}

// ComputeSummary reduces the records whose index lies in [w.Start, w.End]
// (inclusive) to floor means and modal categories. Indices past the end of
// records are ignored; an empty selection yields zeros and the defaults.
func ComputeSummary(records []HourlyRecord, w TimeWindow) SummaryStats {
	selected := Select(records, w)

	var (
		sumWind   float64
		sumTemp   float64
		sumPrecip float64
	)
	precipTypes := newFrequency()
	conditions := newFrequency()
	icons := newFrequency()

	for _, r := range selected {
		sumWind += r.WindSpeed
		sumTemp += r.Temperature
		sumPrecip += r.PrecipProb

		precipTypes.add(r.PrecipType)
		conditions.add(r.Conditions)
		icons.add(r.Icon)
	}

	return SummaryStats{
		WindSpeed:   floorMean(sumWind, len(selected)),
		Temperature: floorMean(sumTemp, len(selected)),
		PrecipProb:  floorMean(sumPrecip, len(selected)),
		PrecipType:  precipTypes.mode(DefaultPrecipType),
		Conditions:  conditions.mode(DefaultConditions),
		Icon:        icons.mode(DefaultIcon),
	}
}

// Select returns the sub-slice of records with index in [w.Start, w.End],
// clamped to the available indices.
func Select(records []HourlyRecord, w TimeWindow) []HourlyRecord {
	start := max(w.Start, 0)
	end := min(w.End+1, len(records))
	if start >= end {
		return nil
	}
	return records[start:end]
}

func floorMean(sum float64, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Floor(sum / float64(n)))
}

// frequency counts categorical values, remembering first-occurrence order.
type frequency struct {
	order  []string
	counts map[string]int
}

func newFrequency() *frequency {
	return &frequency{counts: make(map[string]int)}
}

func (f *frequency) add(v string) {
	if v == "" {
		return
	}
	if _, seen := f.counts[v]; !seen {
		f.order = append(f.order, v)
	}
	f.counts[v]++
}

// mode returns the most frequent value. Ties go to the value seen first.
func (f *frequency) mode(def string) string {
	best, bestCount := def, 0
	for _, v := range f.order {
		if c := f.counts[v]; c > bestCount {
			best, bestCount = v, c
		}
	}
	return best
}
