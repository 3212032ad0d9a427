package weather

import "strings"

// TimeWindow is a named hour-of-day range. Both bounds are hour indices and
// are inclusive.
type TimeWindow struct {
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

var (
	Morning   = TimeWindow{Label: "Morning", Start: 8, End: 12}
	Afternoon = TimeWindow{Label: "Afternoon", Start: 12, End: 17}
	Evening   = TimeWindow{Label: "Evening", Start: 17, End: 21}
)

// Windows returns the fixed windows in display order.
func Windows() []TimeWindow {
	return []TimeWindow{Morning, Afternoon, Evening}
}

// LookupWindow resolves a window by label, ignoring case.
func LookupWindow(label string) (TimeWindow, bool) {
	for _, w := range Windows() {
		if strings.EqualFold(w.Label, strings.TrimSpace(label)) {
			return w, true
		}
	}
	return TimeWindow{}, false
}
