package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "canonical", input: "08:00", want: "08:00"},
		{name: "with seconds", input: "09:30:45", want: "09:30"},
		{name: "fractional seconds", input: "09:30:00.000", want: "09:30"},
		{name: "single digit hour", input: "7:05", want: "07:05"},
		{name: "end of day", input: "23:59:59", want: "23:59"},
		{name: "hour overflow", input: "24:00", wantErr: true},
		{name: "minute overflow", input: "10:60", wantErr: true},
		{name: "garbage", input: "ten", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStrictTimeString(t *testing.T) {
	_, err := ParseStrictTimeString("7:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = ParseStrictTimeString("07:00:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	got, err := ParseStrictTimeString("22:00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("22:00"), got)
}

func TestTimeStringArithmetic(t *testing.T) {
	start := TimeString("11:30")

	end, err := start.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("12:15"), end)

	assert.True(t, start.IsBefore(end))
	assert.True(t, end.IsAfter(start))
	assert.False(t, start.IsBefore(start))
	assert.Equal(t, 11, start.Hour())
	assert.Equal(t, 30, start.Minute())
	assert.Equal(t, "11:30:00", start.BackendString())

	_, err = TimeString("23:50").AddMinutes(15)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestParseDate(t *testing.T) {
	want := NewDate(2025, time.November, 18)

	iso, err := ParseISODate("2025-11-18")
	require.NoError(t, err)
	assert.Equal(t, want, iso)

	backend, err := ParseBackendDate("18-11-2025")
	require.NoError(t, err)
	assert.Equal(t, want, backend)

	either, err := ParseDate("18-11-2025")
	require.NoError(t, err)
	assert.Equal(t, want, either)

	_, err = ParseDate("2025/11/18")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseISODate("2025-02-30")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateCalendarOps(t *testing.T) {
	d := NewDate(2025, time.December, 29)

	assert.Equal(t, NewDate(2026, time.January, 4), d.AddDays(6))
	assert.Equal(t, time.Monday, d.Weekday())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.Equal(t, 0, d.Compare(NewDate(2025, time.December, 29)))
	assert.Equal(t, 7, d.DaysUntil(d.AddDays(7)))
	assert.Equal(t, "29-12-2025", d.BackendString())
	assert.Equal(t, "2025-12-29", d.String())

	loc := time.FixedZone("ART", -3*60*60)
	at := d.At("09:15", loc)
	assert.Equal(t, 9, at.Hour())
	assert.Equal(t, 15, at.Minute())
	assert.Equal(t, d, DateOf(at))
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Date Date       `json:"date"`
		Time TimeString `json:"time"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"20-11-2025","time":"09:00:00"}`), &p))
	assert.Equal(t, NewDate(2025, time.November, 20), p.Date)
	assert.Equal(t, TimeString("09:00"), p.Time)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-11-20","time":"09:00"}`, string(out))

	var empty payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":null,"time":""}`), &empty))
	assert.True(t, empty.Date.IsZero())
	assert.True(t, empty.Time.IsZero())
}
