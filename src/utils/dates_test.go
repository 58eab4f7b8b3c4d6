package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDateISO(t *testing.T) {
	d, ambiguous, err := ParseFlexibleDate("2024-03-15")
	require.NoError(t, err)
	assert.False(t, ambiguous)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d)

	d, _, err = ParseFlexibleDate("2024-03-15 14:30:00")
	require.NoError(t, err)
	assert.Equal(t, 14, d.Hour())
}

func TestParseFlexibleDateSlash(t *testing.T) {
	// Day > 12 forces DD/MM.
	d, ambiguous, err := ParseFlexibleDate("25/03/2024")
	require.NoError(t, err)
	assert.False(t, ambiguous)
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 25, d.Day())

	// Second field > 12 forces MM/DD.
	d, ambiguous, err = ParseFlexibleDate("03/25/2024")
	require.NoError(t, err)
	assert.False(t, ambiguous)
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 25, d.Day())

	// Both <= 12: DD/MM wins but the ambiguity is reported.
	d, ambiguous, err = ParseFlexibleDate("03/04/2024")
	require.NoError(t, err)
	assert.True(t, ambiguous)
	assert.Equal(t, time.April, d.Month())
	assert.Equal(t, 3, d.Day())

	// Dashes behave the same as slashes.
	d, _, err = ParseFlexibleDate("15-08-2024")
	require.NoError(t, err)
	assert.Equal(t, time.August, d.Month())
}

func TestParseFlexibleDateTextual(t *testing.T) {
	d, _, err := ParseFlexibleDate("02 Jan 2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), d)

	d, _, err = ParseFlexibleDate("15-Mar-2024")
	require.NoError(t, err)
	assert.Equal(t, time.March, d.Month())
}

func TestParseFlexibleDateExcelSerial(t *testing.T) {
	// 45292 == 2024-01-01 in Excel's 1900 date system.
	d, _, err := ParseFlexibleDate("45292")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d)
}

func TestParseFlexibleDateInvalid(t *testing.T) {
	_, _, err := ParseFlexibleDate("")
	assert.ErrorIs(t, err, ErrUnparseableDate)

	_, _, err = ParseFlexibleDate("not a date")
	assert.ErrorIs(t, err, ErrUnparseableDate)

	_, _, err = ParseFlexibleDate("13/13/2024")
	assert.ErrorIs(t, err, ErrUnparseableDate)
}
