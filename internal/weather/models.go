package weather

import (
	"fmt"
	"strings"
	"time"
)

// Clock is a wall-clock time of day measured from midnight.
type Clock time.Duration

// At returns the clock time for the given hour, minute and second.
func At(hour, minute, second int) Clock {
	return Clock(time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second)
}

// ParseClock parses "HH:MM:SS" (or "HH:MM") as used by hourly provider payloads.
func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return At(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return 0, fmt.Errorf("invalid clock time %q", s)
}

// Hour returns the hour component.
func (c Clock) Hour() int {
	return int(time.Duration(c) / time.Hour)
}

// Duration returns c as an offset from midnight.
func (c Clock) Duration() time.Duration {
	return time.Duration(c)
}

// String formats c as "HH:MM:SS".
func (c Clock) String() string {
	d := time.Duration(c)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// HourlyRecord is one observation for a specific hour of a day.
// Absent categorical values are empty strings.
type HourlyRecord struct {
	Time        Clock   `json:"datetime"`
	Temperature float64 `json:"temp"`
	FeelsLike   float64 `json:"feelslike"`
	WindSpeed   float64 `json:"windspeed"`
	PrecipProb  float64 `json:"precipprob"`
	PrecipType  string  `json:"preciptype,omitempty"`
	Conditions  string  `json:"conditions,omitempty"`
	Icon        string  `json:"icon,omitempty"`
}

// MarshalText lets Clock round-trip through JSON as "HH:MM:SS".
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts "HH:MM:SS" or "HH:MM".
func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Location identifies the place a forecast is requested for: a free-text
// place name or a "lat,lon" coordinate string.
type Location struct {
	Query string `json:"query"`
}

// NewLocation trims the query and rejects empty input.
func NewLocation(query string) (Location, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Location{}, ErrInvalidLocation
	}
	return Location{Query: q}, nil
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return strings.ToLower(l.Query)
}

// DayForecast is the hourly sequence for one calendar date.
// Hours are expected in index order: Hours[i] is hour i of the day.
type DayForecast struct {
	Date     time.Time      `json:"date"`
	Provider string         `json:"provider"`
	Hours    []HourlyRecord `json:"hours"`
}

// Outlook pairs the requested day with the same weekday one week later.
type Outlook struct {
	Location Location    `json:"location"`
	This     DayForecast `json:"this"`
	Next     DayForecast `json:"next"`
}
