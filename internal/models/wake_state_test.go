package models

import (
	"math"
	"testing"
	"time"
)

func TestMinutesDuration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		minutes uint32
		minute  time.Duration
		want    time.Duration
	}{
		{name: "zero minutes", minutes: 0, minute: time.Minute, want: 0},
		{name: "plain minutes", minutes: 90, minute: time.Minute, want: 90 * time.Minute},
		{name: "scaled minute", minutes: 3, minute: time.Second, want: 3 * time.Second},
		{name: "largest exact", minutes: MaxMinutes, minute: time.Minute, want: time.Duration(MaxMinutes) * time.Minute},
		{name: "one past largest saturates", minutes: MaxMinutes + 1, minute: time.Minute, want: time.Duration(math.MaxInt64)},
		{name: "uint32 max saturates", minutes: math.MaxUint32, minute: time.Minute, want: time.Duration(math.MaxInt64)},
		{name: "non-positive minute", minutes: 5, minute: 0, want: 0},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got := MinutesDuration(c.minutes, c.minute)
			if got != c.want {
				t.Fatalf("MinutesDuration(%d, %v) = %v; want %v", c.minutes, c.minute, got, c.want)
			}
			if c.minutes > 0 && c.minute > 0 && got <= 0 {
				t.Fatalf("MinutesDuration(%d, %v) wrapped to %v", c.minutes, c.minute, got)
			}
		})
	}
}

func TestSleepDecision_Duration(t *testing.T) {
	t.Parallel()

	d := SleepDecision{Minutes: 200000000}
	if got := d.Duration(time.Minute); got != time.Duration(math.MaxInt64) {
		t.Fatalf("Duration = %v; want saturated %v", got, time.Duration(math.MaxInt64))
	}
}
