package dates_test

import (
	"database/sql/driver"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billsense/internal/dates"
)

func TestParseString_KnownLayouts(t *testing.T) {
	want := time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC)

	cases := []string{
		"2024-04-03",
		"2024/04/03",
		"2024-04-03T10:30:00Z",
		"2024-04-03T10:30:00",
		"2024-04-03 10:30:00",
		"03-04-2024",
		"03/04/2024",
		"03.04.2024",
		"3 April 2024",
		"3 Apr 2024",
		"April 3, 2024",
		"Apr 3, 2024",
		"  2024-04-03  ",
	}
	for _, in := range cases {
		got, ok := dates.ParseString(in)
		require.True(t, ok, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestParseString_DayFirstConvention(t *testing.T) {
	got, ok := dates.ParseString("03-04-2024")
	require.True(t, ok)
	assert.Equal(t, time.April, got.Month())
	assert.Equal(t, 3, got.Day())
}

func TestParseString_Unparseable(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "32-13-2024", "2024"} {
		_, ok := dates.ParseString(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestNormalize_StripsTimeAndZone(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2024, 7, 15, 23, 45, 12, 999, loc)

	got := dates.Normalize(in)

	assert.Equal(t, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, dates.DaysBetween(a, b))
	assert.Equal(t, -30, dates.DaysBetween(b, a))
	assert.Equal(t, 0, dates.DaysBetween(a, a))
}

func TestFlexDate_ScanVariants(t *testing.T) {
	var d dates.FlexDate

	require.NoError(t, d.Scan(nil))
	assert.False(t, d.Valid())

	require.NoError(t, d.Scan(time.Date(2024, 2, 29, 18, 0, 0, 0, time.UTC)))
	got, ok := d.Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	require.NoError(t, d.Scan("15/06/2023"))
	assert.Equal(t, "2023-06-15", d.String())

	require.NoError(t, d.Scan([]byte("2023-06-15")))
	assert.Equal(t, "2023-06-15", d.String())

	// Garbage never raises, it scans to the unknown state.
	require.NoError(t, d.Scan("garbage"))
	assert.False(t, d.Valid())

	require.NoError(t, d.Scan(42))
	assert.False(t, d.Valid())
}

func TestFlexDate_Value(t *testing.T) {
	var unknown dates.FlexDate
	v, err := unknown.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	known := dates.NewFlexDate(time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC))
	v, err = known.Value()
	require.NoError(t, err)
	assert.Equal(t, driver.Value(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), v)
}

func TestFlexDate_JSONRoundTrip(t *testing.T) {
	d := dates.FlexDateFromString("01/12/2023")

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2023-12-01"`, string(b))

	var back dates.FlexDate
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "2023-12-01", back.String())

	var null dates.FlexDate
	require.NoError(t, json.Unmarshal([]byte("null"), &null))
	assert.False(t, null.Valid())

	b, err = json.Marshal(null)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestFlexDate_UnmarshalUnparseableString(t *testing.T) {
	var d dates.FlexDate
	require.NoError(t, json.Unmarshal([]byte(`"never"`), &d))
	assert.False(t, d.Valid())
}
