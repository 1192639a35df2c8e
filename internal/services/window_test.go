package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowBounds(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 01:30 on May 11th in Kolkata, still May 10th in UTC.
	now := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		kind string
		from time.Time
	}{
		{WindowToday, time.Date(2024, 5, 11, 0, 0, 0, 0, loc)},
		{WindowThisWeek, time.Date(2024, 5, 4, 0, 0, 0, 0, loc)},
		{WindowThisMonth, time.Date(2024, 4, 11, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			from, to := WindowBounds(tt.kind, now, loc)
			require.NotNil(t, from)
			require.NotNil(t, to)
			assert.True(t, tt.from.Equal(*from), "from = %s, want %s", from, tt.from)
			assert.True(t, now.Equal(*to))
		})
	}
}

func TestWindowBounds_UnknownKind(t *testing.T) {
	for _, kind := range []string{"", "all", "yesterday"} {
		from, to := WindowBounds(kind, time.Now(), time.UTC)
		assert.Nil(t, from, kind)
		assert.Nil(t, to, kind)
	}
}
