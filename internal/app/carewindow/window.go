// Package carewindow validates student check-in and check-out times against the
// configured before-care and after-care service windows.
package carewindow

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrBeforeStart is returned for a check-in earlier than the window start.
	ErrBeforeStart = errors.New("check-in before the service starts")
	// ErrAfterEnd is returned for a check-in at or after the window end.
	ErrAfterEnd = errors.New("check-in after the service ends")
	// ErrBeforeCheckIn is returned for a check-out earlier than the recorded check-in.
	ErrBeforeCheckIn = errors.New("check-out before check-in")
	// ErrInvalidClock is returned by ParseClock for malformed input.
	ErrInvalidClock = errors.New("invalid time of day")
)

// Clock is a wall-clock time of day with minute precision, stored as minutes after midnight.
type Clock int

// ParseClock parses an HH:MM string.
func ParseClock(value string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q must use the HH:MM format", ErrInvalidClock, value)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// MustParseClock is ParseClock for constants; it panics on malformed input.
func MustParseClock(value string) Clock {
	c, err := ParseClock(value)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf returns the time of day of t in t's location.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

// String formats the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Duration returns the clock as an offset from midnight.
func (c Clock) Duration() time.Duration {
	return time.Duration(c) * time.Minute
}

// CareType distinguishes before-care (false) from after-care (true).
type CareType bool

const (
	BeforeCare CareType = false
	AfterCare  CareType = true
)

// Label returns "before" or "after".
func (ct CareType) Label() string {
	if ct == AfterCare {
		return "after"
	}
	return "before"
}

// Title returns "Before-Care" or "After-Care".
func (ct CareType) Title() string {
	if ct == AfterCare {
		return "After-Care"
	}
	return "Before-Care"
}

// Window is the [Start, End) range during which a student may be checked in.
type Window struct {
	Start Clock
	End   Clock
}

// Contains reports whether c lies in [Start, End).
func (w Window) Contains(c Clock) bool {
	return c >= w.Start && c < w.End
}

// CheckIn validates a requested check-in time.
func (w Window) CheckIn(at Clock) error {
	switch {
	case w.Contains(at):
		return nil
	case at < w.Start:
		return fmt.Errorf("%w: %s is before %s", ErrBeforeStart, at, w.Start)
	default:
		return fmt.Errorf("%w: %s is not before %s", ErrAfterEnd, at, w.End)
	}
}

// CheckOut resolves the effective check-out time. A nil request defaults to the
// window end and a request past the end is clamped to it. The result is never
// earlier than checkIn.
func (w Window) CheckOut(requested *Clock, checkIn Clock) (Clock, error) {
	at := w.End
	if requested != nil && *requested < w.End {
		at = *requested
	}
	if at < checkIn {
		return 0, fmt.Errorf("%w: %s is before the check-in time %s", ErrBeforeCheckIn, at, checkIn)
	}
	return at, nil
}

// Schedule holds the windows of both care types.
type Schedule struct {
	BeforeCare Window
	AfterCare  Window
}

// NewSchedule builds a schedule from four HH:MM strings.
func NewSchedule(beforeStart, beforeEnd, afterStart, afterEnd string) (Schedule, error) {
	values := []string{beforeStart, beforeEnd, afterStart, afterEnd}
	clocks := make([]Clock, len(values))
	for i, v := range values {
		c, err := ParseClock(v)
		if err != nil {
			return Schedule{}, err
		}
		clocks[i] = c
	}

	s := Schedule{
		BeforeCare: Window{Start: clocks[0], End: clocks[1]},
		AfterCare:  Window{Start: clocks[2], End: clocks[3]},
	}
	for _, ct := range []CareType{BeforeCare, AfterCare} {
		if w := s.For(ct); w.Start >= w.End {
			return Schedule{}, fmt.Errorf("%s window start %s must be before its end %s", ct.Title(), w.Start, w.End)
		}
	}
	return s, nil
}

// For returns the window of the given care type.
func (s Schedule) For(ct CareType) Window {
	if ct == AfterCare {
		return s.AfterCare
	}
	return s.BeforeCare
}
