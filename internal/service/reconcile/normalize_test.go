package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"02-Jan", "2025-01-02", true},
		{"2-Jan", "2025-01-02", true},
		{"06-Jan-25", "2025-01-06", true},
		{"Mon 06-Jan-25", "2025-01-06", true},
		{"  06-Jan-25  ", "2025-01-06", true},
		{"02/01/2025", "2025-01-02", true},
		{"02-01-2025", "2025-01-02", true},
		{"2025-01-06", "2025-01-06", true},
		{"January 6, 2025", "2025-01-06", true},
		{"30-Feb", "", false},
		{"2025-02-30", "", false},
		{"31/04/2025", "", false},
		{"06-Foo-25", "", false},
		{"", "", false},
		{"not a date", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate_CanonicalIsFixedPoint(t *testing.T) {
	for _, raw := range []string{"02-Jan", "Tue 07-Jan-25", "15/03/2025", "2025-12-31"} {
		first, ok := NormalizeDate(raw)
		assert.True(t, ok, raw)

		again, ok := NormalizeDate(first)
		assert.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, isWeekend("2025-01-04"))
	assert.True(t, isWeekend("2025-01-05"))
	assert.False(t, isWeekend("2025-01-06"))
	assert.False(t, isWeekend("garbage"))
}
