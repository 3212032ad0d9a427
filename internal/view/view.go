// Package view composes the summary and the chart for both days of an outlook.
package view

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-outlook/internal/chart"
	"github.com/i474232898/weather-outlook/internal/chart/svg"
	"github.com/i474232898/weather-outlook/internal/weather"
)

const (
	ThisSurfaceID = "start-graph"
	NextSurfaceID = "next-graph"
)

// Panel is one day's display: heading, summary lines and chart.
type Panel struct {
	Heading   string               `json:"heading"`
	Date      string               `json:"date"`
	Provider  string               `json:"provider,omitempty"`
	Available bool                 `json:"available"`
	Summary   weather.SummaryStats `json:"summary"`
	Headline  string               `json:"headline"`
	Wind      string               `json:"wind"`
	Precip    string               `json:"precip"`
	IconPath  string               `json:"iconPath"`
	Chart     string               `json:"chart,omitempty"`

	surface *svg.Surface
}

// Surface returns the rendered chart surface.
func (p Panel) Surface() *svg.Surface {
	return p.surface
}

// Outlook is the full page model.
type Outlook struct {
	Location string             `json:"location"`
	Window   weather.TimeWindow `json:"window"`
	This     Panel              `json:"this"`
	Next     Panel              `json:"next"`
}

// Builder runs the aggregator and the renderer for each day independently.
type Builder struct {
	renderer *chart.Renderer
	width    int
	height   int
	// onRender is called with the surface id and whether a chart was drawn.
	onRender func(surface string, drawn bool)
}

// NewBuilder returns a builder that draws charts of the given container size.
func NewBuilder(width, height int, onRender func(surface string, drawn bool)) *Builder {
	if onRender == nil {
		onRender = func(string, bool) {}
	}
	return &Builder{
		renderer: chart.NewRenderer(),
		width:    width,
		height:   height,
		onRender: onRender,
	}
}

// Build produces both panels for window w.
func (b *Builder) Build(o weather.Outlook, w weather.TimeWindow) Outlook {
	return Outlook{
		Location: o.Location.Query,
		Window:   w,
		This:     b.panel(ThisSurfaceID, "This", o.This, w),
		Next:     b.panel(NextSurfaceID, "Next", o.Next, w),
	}
}

func (b *Builder) panel(id, prefix string, day weather.DayForecast, w weather.TimeWindow) Panel {
	s := svg.New(id, b.width, b.height)
	drawn := b.renderer.Render(day.Hours, w, s)
	b.onRender(id, drawn)

	sum := weather.ComputeSummary(day.Hours, w)
	p := Panel{
		Heading:   Heading(prefix, day.Date),
		Date:      day.Date.Format("2006-01-02"),
		Provider:  day.Provider,
		Available: len(day.Hours) > 0,
		Summary:   sum,
		Headline:  fmt.Sprintf("%s, %d°F", sum.Conditions, sum.Temperature),
		Wind:      fmt.Sprintf("winds: %d mph", sum.WindSpeed),
		Precip:    fmt.Sprintf("%d %% chance of %s", sum.PrecipProb, sum.PrecipType),
		IconPath:  "/icons/" + sum.Icon + ".png",
		surface:   s,
	}
	if drawn {
		p.Chart = s.String()
	}
	return p
}

// Heading renders "This Monday the 14".
func Heading(prefix string, date time.Time) string {
	return fmt.Sprintf("%s %s the %d", prefix, date.Weekday(), date.Day())
}
