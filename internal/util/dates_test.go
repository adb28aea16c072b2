package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("COT", -5*3600)
	start, end := DayBounds(time.Date(2024, 5, 10, 23, 59, 0, 0, loc))

	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 5, 10, 23, 59, 59, 999999999, loc), end)
}

func TestMinutesBetween(t *testing.T) {
	t0 := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 7, MinutesBetween(t0, t0.Add(7*time.Minute)))
	assert.Equal(t, 7, MinutesBetween(t0, t0.Add(7*time.Minute+29*time.Second)))
	assert.Equal(t, 8, MinutesBetween(t0, t0.Add(7*time.Minute+30*time.Second)))
	assert.Equal(t, 0, MinutesBetween(t0, t0.Add(-time.Minute)))
}
