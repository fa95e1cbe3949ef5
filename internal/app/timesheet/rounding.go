// Package timesheet holds the hour arithmetic shared by timesheet writes and reports.
package timesheet

import "math"

// DefaultIncrement is the rounding step used when none is configured.
const DefaultIncrement = 0.5

// fractionEpsilon absorbs binary representation error, e.g. math.Modf(7.1).
const fractionEpsilon = 1e-12

// RoundHours rounds h up to the next increment boundary below the whole hour or
// up to the next whole hour:
//
//	h <= 0                       -> 0
//	whole hours                  -> unchanged
//	0 < fraction <= increment    -> whole + increment
//	fraction > increment         -> whole + 1
func RoundHours(h, increment float64) float64 {
	if h <= 0 || math.IsNaN(h) {
		return 0
	}
	if increment <= 0 || increment >= 1 {
		increment = DefaultIncrement
	}

	whole, fraction := math.Modf(h)
	switch {
	case fraction < fractionEpsilon:
		return whole
	case fraction <= increment+fractionEpsilon:
		return whole + increment
	default:
		return whole + 1
	}
}

// Totals accumulates the three hour categories of a timesheet.
type Totals struct {
	WorkHours  float64 `json:"work_hours"`
	PTOHours   float64 `json:"pto_hours"`
	ExtraHours float64 `json:"extra_hours"`
}

// Add adds one entry's hours.
func (t *Totals) Add(work, pto, extra float64) {
	t.WorkHours += work
	t.PTOHours += pto
	t.ExtraHours += extra
}

// IsZero reports whether no hours were recorded.
func (t Totals) IsZero() bool {
	return t.WorkHours == 0 && t.PTOHours == 0 && t.ExtraHours == 0
}
