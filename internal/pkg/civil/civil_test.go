package civil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chicago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return loc
}

func TestNormalize_DateOnly_NoConversion(t *testing.T) {
	loc := chicago(t)

	n, ok := Normalize("2026-07-04", loc)
	require.True(t, ok)
	assert.Equal(t, "2026-07-04", n.Date)
	assert.Equal(t, AllDay, n.Display)

	n, ok = Normalize("20260704", loc)
	require.True(t, ok)
	assert.Equal(t, "2026-07-04", n.Date)
	assert.Equal(t, AllDay, n.Display)
}

func TestNormalize_UTCInstant_WinterOffset(t *testing.T) {
	// March 1 is before the DST switch: CST, UTC-6.
	n, ok := Normalize("20260301T180000Z", chicago(t))
	require.True(t, ok)
	assert.Equal(t, "2026-03-01", n.Date)
	assert.Equal(t, "12:00 PM", n.Display)
}

func TestNormalize_UTCInstant_SummerOffset(t *testing.T) {
	// July is CDT, UTC-5.
	n, ok := Normalize("20260715T180000Z", chicago(t))
	require.True(t, ok)
	assert.Equal(t, "2026-07-15", n.Date)
	assert.Equal(t, "1:00 PM", n.Display)
}

func TestNormalize_UTCInstant_CrossesCivilDay(t *testing.T) {
	// 03:30 UTC is the previous evening in Chicago.
	n, ok := Normalize("2026-01-10T03:30:00Z", chicago(t))
	require.True(t, ok)
	assert.Equal(t, "2026-01-09", n.Date)
	assert.Equal(t, "9:30 PM", n.Display)
}

func TestNormalize_NaiveLocal_NotReconverted(t *testing.T) {
	loc := chicago(t)

	n, ok := Normalize("2026-03-01T18:00:00", loc)
	require.True(t, ok)
	assert.Equal(t, "2026-03-01", n.Date)
	assert.Equal(t, "6:00 PM", n.Display)

	n, ok = Normalize("20260301T090000", loc)
	require.True(t, ok)
	assert.Equal(t, "2026-03-01", n.Date)
	assert.Equal(t, "9:00 AM", n.Display)
}

func TestNormalize_TwelveHourWraparound(t *testing.T) {
	loc := chicago(t)

	n, ok := Normalize("2026-03-01T00:05:00", loc)
	require.True(t, ok)
	assert.Equal(t, "12:05 AM", n.Display)

	n, ok = Normalize("2026-03-01T12:00:00", loc)
	require.True(t, ok)
	assert.Equal(t, "12:00 PM", n.Display)
}

func TestNormalize_Unparseable_FailsSoft(t *testing.T) {
	n, ok := Normalize("next Tuesday-ish", chicago(t))
	assert.False(t, ok)
	assert.Equal(t, "next Tuesday-ish", n.Date)
	assert.Equal(t, TBD, n.Display)

	n, ok = Normalize("", chicago(t))
	assert.False(t, ok)
	assert.Equal(t, TBD, n.Display)
}

func TestIsDate(t *testing.T) {
	assert.True(t, IsDate("2026-03-01"))
	assert.False(t, IsDate("2026-3-01"))
	assert.False(t, IsDate("2026-13-01"))
	assert.False(t, IsDate("20260301"))
	assert.False(t, IsDate("2026-03-01T10:00:00"))
	assert.False(t, IsDate(""))
}
