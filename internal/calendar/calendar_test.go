package calendar

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moscow(t *testing.T) *time.Location {
	t.Helper()
	return time.FixedZone("MSK", 3*60*60)
}

func TestNowUsesCalendarZone(t *testing.T) {
	loc := moscow(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	cal := New(loc, clock)

	now := cal.Now()
	assert.Equal(t, 12, now.Hour())
	assert.Equal(t, loc, now.Location())
}

func TestParse(t *testing.T) {
	cal := New(moscow(t), clockwork.NewFakeClock())

	for _, in := range []string{"25.12.2026 18:30", "25.12.2026 18.30", "  25.12.2026 18:30 "} {
		got, err := cal.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, "25.12.2026 18:30", got.Format(DisplayLayout))
		assert.Equal(t, cal.Location(), got.Location())
	}

	for _, in := range []string{"2026-12-25 18:30", "25.12.2026", "tomorrow", "32.12.2026 18:30"} {
		_, err := cal.Parse(in)
		assert.ErrorIs(t, err, ErrBadFormat, in)
	}
}

func TestCivilKeepsWallClock(t *testing.T) {
	cal := New(moscow(t), clockwork.NewFakeClock())

	fromDB := time.Date(2026, 12, 25, 18, 30, 0, 0, time.UTC)
	civil := cal.Civil(fromDB)

	assert.Equal(t, 18, civil.Hour())
	assert.Equal(t, cal.Location(), civil.Location())
	assert.Equal(t, "25.12.2026 18:30", cal.Format(fromDB))
	assert.True(t, cal.Civil(time.Time{}).IsZero())
	assert.Equal(t, "", cal.Format(time.Time{}))
}
