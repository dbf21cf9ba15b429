package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	// DateLayout is the canonical YYYY-MM-DD representation (write direction).
	DateLayout = "2006-01-02"
	// BackendDateLayout is the DD-MM-YYYY representation used by the backend in the read direction.
	BackendDateLayout = "02-01-2006"
)

// ErrInvalidDate is returned when a value cannot be parsed as a calendar date.
var ErrInvalidDate = errors.New("invalid date format")

// Date is a timezone-naive calendar date. The zero value means "no date".
// Dates are comparable with == and usable as map keys.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes the given components (e.g. day 32 rolls into the next month).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the wall-clock date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseISODate parses YYYY-MM-DD.
func ParseISODate(s string) (Date, error) {
	return parseWithLayout(s, DateLayout)
}

// ParseBackendDate parses DD-MM-YYYY.
func ParseBackendDate(s string) (Date, error) {
	return parseWithLayout(s, BackendDateLayout)
}

// ParseDate accepts either YYYY-MM-DD or DD-MM-YYYY.
func ParseDate(s string) (Date, error) {
	if len(s) == len(DateLayout) && s[4] == '-' {
		return ParseISODate(s)
	}
	if len(s) == len(BackendDateLayout) && s[2] == '-' {
		return ParseBackendDate(s)
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func parseWithLayout(s, layout string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight of the date in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// At combines the date with a time of day in loc.
func (d Date) At(t TimeString, loc *time.Location) time.Time {
	return d.Time(loc).Add(time.Duration(t.Minutes()) * time.Minute)
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

// DaysUntil returns the number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time(time.UTC).Sub(d.Time(time.UTC)).Hours() / 24)
}

// Format renders the date with a Go time layout.
func (d Date) Format(layout string) string {
	if d.IsZero() {
		return ""
	}
	return d.Time(time.UTC).Format(layout)
}

// BackendString renders DD-MM-YYYY.
func (d Date) BackendString() string {
	return d.Format(BackendDateLayout)
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
