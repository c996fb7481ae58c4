package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDate_Weekday(t *testing.T) {
	tests := []struct {
		date string
		want Weekday
	}{
		{"1970-01-01", Thursday},
		{"2024-01-01", Monday},
		{"2024-01-02", Tuesday},
		{"2024-03-05", Tuesday},
		{"2024-02-29", Thursday},
		{"2023-12-31", Sunday},
		{"1969-12-29", Monday},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			require.Equal(t, tt.want, MustParse(tt.date).Weekday())
		})
	}
}

func TestDate_Arithmetic(t *testing.T) {
	t.Run("crosses month and leap day", func(t *testing.T) {
		d := MustParse("2024-02-27")
		require.Equal(t, "2024-03-01", d.AddDays(3).String())
		require.Equal(t, 3, d.DaysUntil(d.AddDays(3)))
	})

	t.Run("ignores clock and location", func(t *testing.T) {
		loc := time.FixedZone("UTC+7", 7*60*60)
		late := time.Date(2024, 1, 2, 23, 59, 0, 0, loc)
		require.Equal(t, MustParse("2024-01-02"), FromTime(late))
		require.Equal(t, NewDate(2024, time.January, 2), FromTime(late))
	})

	t.Run("round trips through time", func(t *testing.T) {
		d := MustParse("2025-06-15")
		require.Equal(t, d, FromTime(d.Time()))
	})
}

func TestDate_UnixEpochIsARealDay(t *testing.T) {
	d := MustParse("1970-01-01")
	require.False(t, d.IsZero())
	require.Equal(t, "1970-01-01", d.String())
	require.Equal(t, d, FromTime(time.Unix(0, 0).UTC()))
	require.Equal(t, "1969-12-31", d.AddDays(-1).String())
	require.Equal(t, MustParse("0001-01-01").AddDays(unixEpochDay-1), d)

	var unset Date
	require.True(t, unset.IsZero())
	require.Equal(t, "", unset.String())
}

func TestDate_Parse(t *testing.T) {
	_, err := Parse("2024/01/02")
	require.Error(t, err)

	d, err := Parse("2024-01-09")
	require.NoError(t, err)
	require.Equal(t, "2024-01-09", d.String())
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Start Date `json:"start"`
	}
	b, err := json.Marshal(payload{Start: MustParse("2024-01-02")})
	require.NoError(t, err)
	require.JSONEq(t, `{"start":"2024-01-02"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-05-06"}`), &p))
	require.Equal(t, MustParse("2024-05-06"), p.Start)
}

func TestClosureCalendar_IsBlocked(t *testing.T) {
	cal := NewClosureCalendar(
		Range{Start: MustParse("2024-04-10"), End: MustParse("2024-04-12")},
		Range{Start: MustParse("2024-01-09"), End: MustParse("2024-01-09")},
		Range{Start: MustParse("2024-05-02"), End: MustParse("2024-05-01")}, // inverted, dropped
	)

	require.True(t, cal.IsBlocked(MustParse("2024-01-09")))
	require.True(t, cal.IsBlocked(MustParse("2024-04-10")))
	require.True(t, cal.IsBlocked(MustParse("2024-04-12")))
	require.False(t, cal.IsBlocked(MustParse("2024-04-13")))
	require.False(t, cal.IsBlocked(MustParse("2024-01-08")))
	require.False(t, cal.IsBlocked(MustParse("2024-05-01")))
	require.Len(t, cal.Ranges(), 2)

	var nilCal *ClosureCalendar
	require.False(t, nilCal.IsBlocked(MustParse("2024-01-09")))
}

func TestWithBlockedDates(t *testing.T) {
	base := NewClosureCalendar(Range{Start: MustParse("2024-01-09"), End: MustParse("2024-01-09")})
	cal := WithBlockedDates(base, MustParse("2024-03-05"))

	require.True(t, cal.IsBlocked(MustParse("2024-01-09")))
	require.True(t, cal.IsBlocked(MustParse("2024-03-05")))
	require.False(t, cal.IsBlocked(MustParse("2024-03-12")))
	require.False(t, base.IsBlocked(MustParse("2024-03-05")))
}
