// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TimeWindow bounds a query to records created within [Start, End].
// A zero Start or End leaves that side unbounded; the zero TimeWindow
// admits everything. Used for discovery backtesting.
type TimeWindow struct {
	Start time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	End   time.Time `json:"end,omitempty" yaml:"end,omitempty"`
}

// IsZero reports whether the window is unbounded on both sides.
func (w TimeWindow) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}
