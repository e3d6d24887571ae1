package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) DateRange {
	t.Helper()
	r, err := NewDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestNewDateRange_EndBeforeStart(t *testing.T) {
	_, err := NewDateRange(day(2026, 6, 10), day(2026, 6, 5))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestNewDateRange_SingleDay(t *testing.T) {
	r, err := NewDateRange(day(2026, 6, 10), day(2026, 6, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Days())
}

func TestNewDateRange_TruncatesToMidnight(t *testing.T) {
	r, err := NewDateRange(
		time.Date(2026, 6, 10, 15, 30, 0, 0, time.UTC),
		time.Date(2026, 6, 12, 8, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 6, 10), r.Start)
	assert.Equal(t, day(2026, 6, 12), r.End)
}

func TestDateRange_Overlaps(t *testing.T) {
	base := mustRange(t, day(2026, 6, 10), day(2026, 6, 15))

	tests := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"identical", mustRange(t, day(2026, 6, 10), day(2026, 6, 15)), true},
		{"partial overlap at end", mustRange(t, day(2026, 6, 14), day(2026, 6, 20)), true},
		{"partial overlap at start", mustRange(t, day(2026, 6, 5), day(2026, 6, 11)), true},
		{"fully contained", mustRange(t, day(2026, 6, 11), day(2026, 6, 13)), true},
		{"containing", mustRange(t, day(2026, 6, 1), day(2026, 6, 30)), true},
		{"adjacent after shares boundary day", mustRange(t, day(2026, 6, 15), day(2026, 6, 20)), true},
		{"adjacent before shares boundary day", mustRange(t, day(2026, 6, 5), day(2026, 6, 10)), true},
		{"single day inside", mustRange(t, day(2026, 6, 12), day(2026, 6, 12)), true},
		{"disjoint after", mustRange(t, day(2026, 6, 16), day(2026, 6, 20)), false},
		{"disjoint before", mustRange(t, day(2026, 6, 1), day(2026, 6, 9)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestDateRange_Days(t *testing.T) {
	assert.Equal(t, 6, mustRange(t, day(2026, 6, 10), day(2026, 6, 15)).Days())
	assert.Equal(t, 1, mustRange(t, day(2026, 6, 10), day(2026, 6, 10)).Days())
}

func TestDateRange_String(t *testing.T) {
	r := mustRange(t, day(2026, 6, 10), day(2026, 6, 15))
	assert.Equal(t, "2026-06-10..2026-06-15", r.String())
}
