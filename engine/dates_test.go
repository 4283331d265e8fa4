package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pto-center/engine"
)

// =============================================================================
// DAY-SPAN CALCULATOR TESTS
// =============================================================================

func TestInclusiveDays_SingleDay(t *testing.T) {
	// GIVEN: A span where start == end
	// WHEN: Counting inclusive days
	// THEN: The count is exactly 1

	day := engine.NewDate(2024, time.March, 10)
	assert.Equal(t, 1, engine.InclusiveDays(day, day))
}

func TestInclusiveDays_BothEndpointsCounted(t *testing.T) {
	// GIVEN: March 10 through March 14
	// WHEN: Counting inclusive days
	// THEN: Both endpoints count, giving 5

	start := engine.NewDate(2024, time.March, 10)
	end := engine.NewDate(2024, time.March, 14)
	assert.Equal(t, 5, engine.InclusiveDays(start, end))
}

func TestInclusiveDays_AcrossMonthBoundary(t *testing.T) {
	start := engine.NewDate(2024, time.January, 30)
	end := engine.NewDate(2024, time.February, 2)
	assert.Equal(t, 4, engine.InclusiveDays(start, end))
}

func TestInclusiveDays_LeapFebruary(t *testing.T) {
	// 2024 is a leap year, so February has 29 days.
	start := engine.NewDate(2024, time.February, 1)
	end := engine.NewDate(2024, time.February, 29)
	assert.Equal(t, 29, engine.InclusiveDays(start, end))
}

// =============================================================================
// OVERLAP TESTS
// =============================================================================

func TestOverlaps_ClosedIntervals(t *testing.T) {
	d := func(day int) engine.Date { return engine.NewDate(2024, time.June, day) }

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd engine.Date
		want                       bool
	}{
		{"disjoint before", d(1), d(5), d(6), d(10), false},
		{"disjoint after", d(6), d(10), d(1), d(5), false},
		{"touching at endpoint", d(1), d(5), d(5), d(10), true},
		{"contained", d(3), d(4), d(1), d(10), true},
		{"identical", d(2), d(8), d(2), d(8), true},
		{"partial overlap", d(1), d(7), d(5), d(12), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestSpanContains_Endpoints(t *testing.T) {
	start := engine.NewDate(2024, time.June, 3)
	end := engine.NewDate(2024, time.June, 7)

	assert.True(t, engine.SpanContains(start, end, start))
	assert.True(t, engine.SpanContains(start, end, end))
	assert.True(t, engine.SpanContains(start, end, engine.NewDate(2024, time.June, 5)))
	assert.False(t, engine.SpanContains(start, end, engine.NewDate(2024, time.June, 2)))
	assert.False(t, engine.SpanContains(start, end, engine.NewDate(2024, time.June, 8)))
}

// =============================================================================
// PARSING AND NORMALIZATION
// =============================================================================

func TestParseDate_RoundTrip(t *testing.T) {
	d, err := engine.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := engine.ParseDate("02/29/2024")
	assert.Error(t, err)
}

func TestDateOf_TruncatesToMidnightUTC(t *testing.T) {
	// GIVEN: A timestamp late in the day with a zone offset
	// THEN: DateOf keeps only the civil date, in UTC

	zone := time.FixedZone("EST", -5*3600)
	stamp := time.Date(2024, time.March, 10, 23, 45, 12, 0, zone)

	d := engine.DateOf(stamp)
	assert.Equal(t, "2024-03-10", d.String())
	assert.Equal(t, time.UTC, d.Time.Location())
	assert.Equal(t, 0, d.Time.Hour())
}
