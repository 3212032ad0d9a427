package chart

import (
	"math"
	"sort"
	"time"

	"github.com/i474232898/weather-outlook/internal/weather"
)

// Margins around the plot area, in surface units.
type Margins struct {
	Top, Right, Bottom, Left float64
}

const (
	// Hours of context shown on each side of the window.
	windowPadding = 2 * time.Hour
	// Latest clock time the padded domain may reach.
	lastHour = 23 * time.Hour
)

var (
	CoolStroke  = Stroke{Color: "steelblue", Width: 3}
	WarmStroke  = Stroke{Color: "firebrick", Width: 3}
	GuideStroke = Stroke{Color: "black", Width: 1, Dash: []float64{4, 4}}
)

// Renderer draws the temperature / feels-like chart for one window.
type Renderer struct {
	Margins Margins
	// CaptionAllowance is taken off the surface height for the heading the
	// caller places above the chart.
	CaptionAllowance float64
	PointRadius      float64
	CaptionOffset    float64
	CaptionFontSize  float64
	Curve            Curve
	TickCount        int
}

// NewRenderer returns a renderer with the standard layout.
func NewRenderer() *Renderer {
	return &Renderer{
		Margins:          Margins{Top: 20, Right: 30, Bottom: 50, Left: 40},
		CaptionAllowance: 60,
		PointRadius:      3,
		CaptionOffset:    50,
		CaptionFontSize:  18,
		Curve:            Cardinal{},
		TickCount:        10,
	}
}

// Render clears s and draws records for window w. It reports whether a chart
// was drawn; empty input or an unmeasurable surface leaves s blank.
func (r *Renderer) Render(records []weather.HourlyRecord, w weather.TimeWindow, s Surface) bool {
	if s == nil {
		return false
	}
	s.Clear()
	if len(records) == 0 {
		return false
	}

	size, ok := s.Measure()
	if !ok {
		return false
	}
	plotW := size.Width - r.Margins.Left - r.Margins.Right
	plotH := size.Height - r.CaptionAllowance - r.Margins.Top - r.Margins.Bottom
	if plotW <= 0 || plotH <= 0 {
		return false
	}

	d0, d1 := PaddedDomain(w)
	x := NewTimeScale(d0, d1, 0, plotW).Nice(r.TickCount)
	lo, hi := ValueExtent(records)
	y := NewLinearScale(lo, hi, plotH, 0).Nice(r.TickCount)

	sorted := make([]weather.HourlyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	temps := make([]Point, len(sorted))
	feels := make([]Point, len(sorted))
	for i, rec := range sorted {
		px := x.Map(rec.Time.Duration())
		temps[i] = Point{X: px, Y: y.Map(rec.Temperature)}
		feels[i] = Point{X: px, Y: y.Map(rec.FeelsLike)}
	}

	s.SetFrame(Frame{Left: r.Margins.Left, Top: r.Margins.Top, Width: plotW, Height: plotH})

	s.DrawPath(Path{Class: "line temp", Points: temps, Curve: r.Curve, Stroke: CoolStroke, Clip: true})
	s.DrawPath(Path{Class: "line feelslike", Points: feels, Curve: r.Curve, Stroke: WarmStroke, Clip: true})

	for _, p := range temps {
		s.DrawPoint(Marker{Class: "temp-point", Center: p, Radius: r.PointRadius, Fill: CoolStroke.Color, Clip: true})
	}
	for _, p := range feels {
		s.DrawPoint(Marker{Class: "feelslike-point", Center: p, Radius: r.PointRadius, Fill: WarmStroke.Color, Clip: true})
	}

	for _, hour := range []int{w.Start, w.End} {
		gx := x.Map(time.Duration(hour) * time.Hour)
		s.DrawLine(Line{From: Point{X: gx, Y: 0}, To: Point{X: gx, Y: plotH}, Stroke: GuideStroke, Clip: true})
	}

	// Zero line, visible once values go negative.
	zy := y.Map(0)
	s.DrawLine(Line{From: Point{X: 0, Y: zy}, To: Point{X: plotW, Y: zy}, Stroke: GuideStroke, Clip: true})

	s.DrawAxis(Axis{Class: "x-axis", Scale: x, Every: time.Hour, Format: FormatHour12, Offset: plotH})

	s.DrawText(Text{
		Class:    "x-axis-title",
		At:       Point{X: plotW / 2, Y: plotH + r.CaptionOffset},
		Value:    w.Label,
		Anchor:   "middle",
		FontSize: r.CaptionFontSize,
	})
	return true
}

// PaddedDomain returns the window widened by two hours on each side, clamped
// to the clock range [00:00, 23:00].
func PaddedDomain(w weather.TimeWindow) (time.Duration, time.Duration) {
	d0 := time.Duration(w.Start)*time.Hour - windowPadding
	d1 := time.Duration(w.End)*time.Hour + windowPadding
	return max(d0, 0), min(d1, lastHour)
}

// ValueExtent is the joint min and max over temperature and feels-like.
func ValueExtent(records []weather.HourlyRecord) (lo, hi float64) {
	if len(records) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, rec := range records {
		lo = math.Min(lo, math.Min(rec.Temperature, rec.FeelsLike))
		hi = math.Max(hi, math.Max(rec.Temperature, rec.FeelsLike))
	}
	return lo, hi
}

// FormatHour12 labels a clock time as "08 AM".
func FormatHour12(d time.Duration) string {
	return time.Time{}.Add(d).Format("03 PM")
}
