package analytics

import (
	"fmt"
	"time"
)

// Window is the half-open time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the Monday-start calendar week containing t, in t's location.
func WeekOf(t time.Time) Window {
	offset := (int(t.Weekday()) + 6) % 7 //nolint:mnd // days since Monday
	start := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
	return Window{Start: start, End: start.AddDate(0, 0, 7)} //nolint:mnd // days in a week
}

// Validate returns ErrInvalidWindow unless the window ends after it starts.
func (w Window) Validate() error {
	if !w.End.After(w.Start) {
		return fmt.Errorf("%w: [%s, %s)", ErrInvalidWindow,
			w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	}
	return nil
}

// Contains reports whether t falls within the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Previous returns the window of equal length immediately before w.
func (w Window) Previous() Window {
	return Window{Start: w.Start.Add(-w.End.Sub(w.Start)), End: w.Start}
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
