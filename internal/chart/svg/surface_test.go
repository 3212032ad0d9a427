package svg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-outlook/internal/chart"
	"github.com/i474232898/weather-outlook/internal/weather"
)

func hours() []weather.HourlyRecord {
	records := make([]weather.HourlyRecord, 24)
	for i := range records {
		records[i] = weather.HourlyRecord{
			Time:        weather.At(i, 0, 0),
			Temperature: 30 + float64(i),
			FeelsLike:   25 + float64(i),
		}
	}
	return records
}

func TestRenderedDocument(t *testing.T) {
	s := New("start-graph", 600, 400)
	require.True(t, chart.NewRenderer().Render(hours(), weather.Morning, s))

	doc := s.String()
	assert.Contains(t, doc, `id="start-graph"`)
	assert.Contains(t, doc, `<clipPath id="clip-start-graph"`)
	assert.Contains(t, doc, `translate(40,20)`)

	assert.Equal(t, 1, strings.Count(doc, `stroke="steelblue"`))
	assert.Equal(t, 1, strings.Count(doc, `stroke="firebrick"`))
	assert.Equal(t, 48, strings.Count(doc, "<circle"))
	assert.Equal(t, 3, strings.Count(doc, `stroke-dasharray="4,4"`))

	// Hourly ticks over 06:00..14:00.
	assert.Equal(t, 9, strings.Count(doc, `class="tick"`))
	assert.Contains(t, doc, ">06 AM</text>")
	assert.Contains(t, doc, ">02 PM</text>")
	assert.Contains(t, doc, ">Morning</text>")
}

func TestRenderTwiceMatchesOnce(t *testing.T) {
	r := chart.NewRenderer()

	once := New("next-graph", 500, 300)
	r.Render(hours(), weather.Evening, once)

	twice := New("next-graph", 500, 300)
	r.Render(hours(), weather.Evening, twice)
	r.Render(hours(), weather.Evening, twice)

	assert.Equal(t, once.String(), twice.String())
}

func TestClearRemovesContent(t *testing.T) {
	s := New("start-graph", 600, 400)
	require.True(t, chart.NewRenderer().Render(hours(), weather.Morning, s))
	require.False(t, chart.NewRenderer().Render(nil, weather.Morning, s))

	doc := s.String()
	assert.NotContains(t, doc, "<path")
	assert.NotContains(t, doc, "<circle")
	assert.Contains(t, doc, `id="start-graph"`)
}

func TestUnmountedSurface(t *testing.T) {
	s := New("start-graph", 0, 0)
	_, ok := s.Measure()
	assert.False(t, ok)

	assert.False(t, chart.NewRenderer().Render(hours(), weather.Morning, s))
	assert.NotContains(t, s.String(), "<path")
}

func TestPathData(t *testing.T) {
	s := New("p", 100, 100)
	s.DrawPath(chart.Path{
		Points: []chart.Point{{X: 0, Y: 0}, {X: 10, Y: 5}},
		Stroke: chart.Stroke{Color: "black", Width: 1},
	})
	s.SetFrame(chart.Frame{Width: 100, Height: 100})
	assert.Contains(t, s.String(), `d="M0,0L10,5"`)
}
