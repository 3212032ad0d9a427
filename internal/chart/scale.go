package chart

import (
	"math"
	"sort"
	"time"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// LinearScale maps a continuous numeric domain onto an output range.
type LinearScale struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinearScale returns a scale from [d0, d1] onto [r0, r1].
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Map projects v into the range. A degenerate domain maps everything to the
// middle of the range.
func (s LinearScale) Map(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	t := 0.5
	if span := d1 - d0; span != 0 {
		t = (v - d0) / span
	}
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Nice widens the domain to round boundaries for roughly count ticks.
func (s LinearScale) Nice(count int) LinearScale {
	start, stop := s.Domain[0], s.Domain[1]
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}

	var prestep float64
	for i := 0; i < 10; i++ {
		step := tickIncrement(start, stop, count)
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			return s
		}
		prestep = step
	}

	if reversed {
		start, stop = stop, start
	}
	s.Domain = [2]float64{start, stop}
	return s
}

// tickIncrement returns a power-of-ten-based step (1, 2 or 5 times 10^n).
// Negative results encode steps below one as their inverse, avoiding
// floating point error.
func tickIncrement(start, stop float64, count int) float64 {
	if count <= 0 || !(stop > start) {
		return 0
	}
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}
	if power < 0 {
		return -math.Pow(10, -power) / factor
	}
	return factor * math.Pow(10, power)
}

// Candidate tick intervals for a clock domain, smallest first.
var timeIntervals = []time.Duration{
	time.Second, 5 * time.Second, 15 * time.Second, 30 * time.Second,
	time.Minute, 5 * time.Minute, 15 * time.Minute, 30 * time.Minute,
	time.Hour, 3 * time.Hour, 6 * time.Hour, 12 * time.Hour,
}

// TimeScale maps clock times (offsets from midnight) onto an output range.
type TimeScale struct {
	Domain [2]time.Duration
	Range  [2]float64
}

// NewTimeScale returns a scale from [d0, d1] onto [r0, r1].
func NewTimeScale(d0, d1 time.Duration, r0, r1 float64) TimeScale {
	return TimeScale{Domain: [2]time.Duration{d0, d1}, Range: [2]float64{r0, r1}}
}

// Map projects t into the range.
func (s TimeScale) Map(t time.Duration) float64 {
	span := float64(s.Domain[1] - s.Domain[0])
	frac := 0.5
	if span != 0 {
		frac = float64(t-s.Domain[0]) / span
	}
	return s.Range[0] + frac*(s.Range[1]-s.Range[0])
}

// Interval picks the candidate tick interval closest to span/count.
func (s TimeScale) Interval(count int) time.Duration {
	if count <= 0 {
		count = 10
	}
	span := s.Domain[1] - s.Domain[0]
	if span < 0 {
		span = -span
	}
	target := float64(span) / float64(count)

	i := sort.Search(len(timeIntervals), func(i int) bool {
		return float64(timeIntervals[i]) > target
	})
	switch {
	case i == 0:
		return timeIntervals[0]
	case i == len(timeIntervals):
		return timeIntervals[len(timeIntervals)-1]
	}
	lo, hi := float64(timeIntervals[i-1]), float64(timeIntervals[i])
	if target/lo < hi/target {
		return timeIntervals[i-1]
	}
	return timeIntervals[i]
}

// Nice floors the start and ceils the end of the domain to the scale's own
// tick interval for roughly count ticks.
func (s TimeScale) Nice(count int) TimeScale {
	every := s.Interval(count)
	d0, d1 := s.Domain[0], s.Domain[1]
	if d1 < d0 {
		d0, d1 = d1, d0
	}
	d0 = floorTo(d0, every)
	d1 = ceilTo(d1, every)
	if s.Domain[1] < s.Domain[0] {
		d0, d1 = d1, d0
	}
	s.Domain = [2]time.Duration{d0, d1}
	return s
}

// Ticks lists every multiple of every within the domain, inclusive.
func (s TimeScale) Ticks(every time.Duration) []time.Duration {
	if every <= 0 {
		return nil
	}
	d0, d1 := s.Domain[0], s.Domain[1]
	if d1 < d0 {
		d0, d1 = d1, d0
	}
	var ticks []time.Duration
	for t := ceilTo(d0, every); t <= d1; t += every {
		ticks = append(ticks, t)
	}
	return ticks
}

func floorTo(d, every time.Duration) time.Duration {
	r := d % every
	if r < 0 {
		r += every
	}
	return d - r
}

func ceilTo(d, every time.Duration) time.Duration {
	f := floorTo(d, every)
	if f == d {
		return d
	}
	return f + every
}
