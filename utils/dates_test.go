package utils

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, time.August, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 4, 0, 1, 0, 0, time.UTC)

	if got := DaysBetween(start, end); got != 3 {
		t.Errorf("DaysBetween = %d, want 3", got)
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{
			"regular month",
			time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), 1,
			time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			"clamped to february",
			time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), 1,
			time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			"leap year february",
			time.Date(2028, time.January, 31, 0, 0, 0, 0, time.UTC), 1,
			time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			"year rollover",
			time.Date(2026, time.November, 15, 0, 0, 0, 0, time.UTC), 3,
			time.Date(2027, time.February, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"zero months",
			time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC), 0,
			time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddMonthsClamped(tt.in, tt.n); !got.Equal(tt.want) {
				t.Errorf("AddMonthsClamped(%v, %d) = %v, want %v", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
