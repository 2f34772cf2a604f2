package model

import (
	"testing"
	"time"
)

func TestClockRecordsThinks(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewClock()
	c.now = func() time.Time { return now }

	c.Start()
	now = now.Add(2 * time.Second)
	if got := c.Stop(); got != 2*time.Second {
		t.Fatalf("first think: got %s", got)
	}

	c.Start()
	now = now.Add(4 * time.Second)
	c.Start() // already running
	now = now.Add(2 * time.Second)
	c.Stop()

	if got := c.Stop(); got != 0 {
		t.Fatalf("stopping a stopped clock: got %s", got)
	}
	if got := c.Average(); got != 4*time.Second {
		t.Fatalf("average: got %s want 4s", got)
	}
	if got := c.Longest(); got != 6*time.Second {
		t.Fatalf("longest: got %s want 6s", got)
	}

	c.Start()
	now = now.Add(time.Minute)
	c.Reset()
	if got := c.client(); got.TotalMs != 8000 || got.LongestMs != 6000 || got.AverageMs != 4000 {
		t.Fatalf("reset think was recorded: %+v", got)
	}
}
