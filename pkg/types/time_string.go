package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// TimeLayout is the canonical HH:MM representation.
	TimeLayout = "15:04"
	// BackendTimeLayout is the HH:MM:SS representation used by the backend in the read direction.
	BackendTimeLayout = "15:04:05"
)

var (
	// ErrInvalidTimeString is returned when a value cannot be parsed as a time of day.
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow is returned when arithmetic leaves the 00:00-23:59 range.
	ErrTimeOverflow = errors.New("time string overflow")

	lenientTimeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2})(?:\.\d+)?)?$`)
	strictTimeRe  = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// TimeString is a local time of day with minute resolution, always formatted as "HH:MM".
type TimeString string

// NewTimeString builds a TimeString from the wall clock of t, dropping seconds.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(TimeLayout))
}

// NewTimeStringFromString parses "H:MM", "HH:MM" or "HH:MM:SS" and truncates to minutes.
func NewTimeStringFromString(s string) (TimeString, error) {
	m := lenientTimeRe.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	if m[3] != "" {
		if sec, _ := strconv.Atoi(m[3]); sec > 59 {
			return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
	}

	return FromMinutes(hour*60 + minute)
}

// ParseStrictTimeString accepts only zero-padded 24-hour "HH:MM".
func ParseStrictTimeString(s string) (TimeString, error) {
	if !strictTimeRe.MatchString(s) {
		return "", fmt.Errorf("%w: %q is not HH:MM", ErrInvalidTimeString, s)
	}
	return TimeString(s), nil
}

// FromMinutes builds a TimeString from minutes since midnight.
func FromMinutes(total int) (TimeString, error) {
	if total < 0 || total >= 24*60 {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOverflow, total)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// Validate checks that the value is a canonical HH:MM time.
func (t TimeString) Validate() error {
	_, err := ParseStrictTimeString(string(t))
	return err
}

// IsZero reports whether the value is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// Minutes returns minutes since midnight. Invalid values yield -1.
func (t TimeString) Minutes() int {
	if !strictTimeRe.MatchString(string(t)) {
		return -1
	}
	hour, _ := strconv.Atoi(string(t[0:2]))
	minute, _ := strconv.Atoi(string(t[3:5]))
	return hour*60 + minute
}

// Hour returns the hour component.
func (t TimeString) Hour() int {
	m := t.Minutes()
	if m < 0 {
		return -1
	}
	return m / 60
}

// Minute returns the minute component.
func (t TimeString) Minute() int {
	m := t.Minutes()
	if m < 0 {
		return -1
	}
	return m % 60
}

// IsBefore reports whether t is strictly earlier than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// AddMinutes shifts the time, failing when the result leaves the current day.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	base := t.Minutes()
	if base < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return FromMinutes(base + minutes)
}

// BackendString formats the value as HH:MM:SS.
func (t TimeString) BackendString() string {
	if t.IsZero() {
		return ""
	}
	return string(t) + ":00"
}

func (t TimeString) String() string {
	return string(t)
}

func (t TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *TimeString) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*t = ""
		return nil
	}
	parsed, err := NewTimeStringFromString(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
