package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// WireLayout is the timestamp format used on every request and response body:
// server-local wall clock, whole seconds, no zone suffix.
const WireLayout = "2006-01-02 15:04:05"

// Working day boundaries. Bookings are only permitted inside [OpeningHour, ClosingHour).
const (
	OpeningHour = 9
	ClosingHour = 19
)

var ErrInvalidInput = errors.New("invalid date/time input")

// FormatWire renders t in the wire layout. The zero value is rejected: it is
// always a programming error, never a value a user can produce.
func FormatWire(t time.Time) (string, error) {
	if t.IsZero() {
		return "", fmt.Errorf("%w: zero time", ErrInvalidInput)
	}
	return t.Format(WireLayout), nil
}

// ParseWire is the inverse of FormatWire. The result carries the local zone so
// that ParseWire(FormatWire(t)) == t for any local t with whole-second precision.
func ParseWire(s string) (time.Time, error) {
	t, err := time.ParseInLocation(WireLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidInput, s)
	}
	return t, nil
}

// AddHours returns t shifted by the given number of hours.
func AddHours(t time.Time, hours int) time.Time {
	return t.Add(time.Duration(hours) * time.Hour)
}

// IsWithinWorkingHours reports whether the local hour of day falls in the
// working window.
func IsWithinWorkingHours(t time.Time) bool {
	h := t.Hour()
	return h >= OpeningHour && h < ClosingHour
}

// BookableAt reports whether t is an acceptable booking start as seen from now:
// not in the past and inside working hours.
func BookableAt(t, now time.Time) bool {
	return !t.Before(now) && IsWithinWorkingHours(t)
}

// IsBookable is BookableAt against the real clock.
func IsBookable(t time.Time) bool {
	return BookableAt(t, time.Now())
}

// GenerateSlots produces the candidate start times for one working day as
// "HH:MM" strings, from opening time inclusive to closing time exclusive,
// stepped by intervalMinutes. The interval must be positive and divide the
// working window evenly, otherwise no slot grid exists that stops short of
// closing time.
func GenerateSlots(day time.Time, intervalMinutes int) ([]string, error) {
	const window = (ClosingHour - OpeningHour) * 60
	if intervalMinutes <= 0 || window%intervalMinutes != 0 {
		return nil, fmt.Errorf("%w: slot interval %d", ErrInvalidInput, intervalMinutes)
	}

	slots := make([]string, 0, window/intervalMinutes)
	for m := OpeningHour * 60; m < ClosingHour*60; m += intervalMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots, nil
}

// DefaultSlotInterval is the slot step offered to users when none is configured.
const DefaultSlotInterval = 30
