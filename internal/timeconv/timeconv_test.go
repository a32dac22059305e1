package timeconv

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTo12Hour_Table(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0000", "12:00 AM"},
		{"0930", "09:30 AM"},
		{"1200", "12:00 PM"},
		{"1315", "01:15 PM"},
		{"2359", "11:59 PM"},
		// Форма с двоеточием равнозначна
		{"09:30", "09:30 AM"},
		{"18:45", "06:45 PM"},
	}

	for _, c := range cases {
		got, err := To12Hour(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestTo12Hour_Invalid(t *testing.T) {
	for _, in := range []string{"", "9:30", "2500", "1299", "abcd"} {
		_, err := To12Hour(in)
		assert.Error(t, err, in)
	}
}

// Знак в числе — не время: "-130" не должно разбираться как час -1
// и молча уезжать на предыдущие сутки при сборке метки времени.
func TestParseClock_RejectsSignedInput(t *testing.T) {
	for _, in := range []string{"-130", "+130", "1a30", "- 30"} {
		_, _, err := ParseClock(in)
		assert.Error(t, err, in)

		_, wireErr := ToWire("2025-07-04", in)
		assert.Error(t, wireErr, in)
	}
}

func TestToWire_MissingParts(t *testing.T) {
	_, err := ToWire("", "09:30")
	assert.ErrorIs(t, err, ErrMissingDate)

	_, err = ToWire("2025-07-04", "")
	assert.ErrorIs(t, err, ErrMissingTime)
}

func TestToWire_KeepsZone(t *testing.T) {
	iso, err := ToWire("2025-07-04", "18:45")
	require.NoError(t, err)

	ts, err := time.Parse(time.RFC3339, iso)
	require.NoError(t, err)

	local := ts.In(time.Local)
	assert.Equal(t, 18, local.Hour())
	assert.Equal(t, 45, local.Minute())
	assert.Equal(t, "2025-07-04", local.Format(DateLayout))
}

func TestRoundTrip(t *testing.T) {
	// Дата и время должны возвращаться из ISO без потерь.
	cases := []struct{ date, clock string }{
		{"2025-07-04", "18:45"},
		{"2025-01-01", "00:00"},
		{"2025-12-31", "23:59"},
	}

	for _, c := range cases {
		iso, err := ToWire(c.date, c.clock)
		require.NoError(t, err)

		date, clock, err := FromWire(iso)
		require.NoError(t, err)
		assert.Equal(t, c.date, date)
		assert.Equal(t, c.clock, clock)
	}
}

func TestFromWire_Invalid(t *testing.T) {
	_, _, err := FromWire("не дата")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	got, err := FormatDate("2020-05-22")
	require.NoError(t, err)
	assert.Equal(t, "May 22, 2020", got)

	_, err = FormatDate("")
	assert.True(t, errors.Is(err, ErrMissingDate))
}

// Конвертер принимает окончание раньше начала: порядок проверяет сборщик,
// а не преобразование времени.
func TestToWire_DoesNotValidateOrdering(t *testing.T) {
	_, err := ToWire("2025-07-04", "23:00")
	require.NoError(t, err)
	_, err = ToWire("2025-07-04", "01:00")
	require.NoError(t, err)
}
