package model

import (
	"sync"
	"time"
)

// Clock measures how long one side spends on each of its moves.
type Clock struct {
	mu          sync.Mutex
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	total       time.Duration
	longest     time.Duration
	count       int
	now         func() time.Time
}

type ClientClock struct {
	AverageMs int64 `json:"averageMs"`
	LongestMs int64 `json:"longestMs"`
	TotalMs   int64 `json:"totalMs"`
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

// Stop ends the current think and returns its length. A stopped clock
// returns zero.
func (c *Clock) Stop() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		return 0
	}
	elapsed := c.now().Sub(c.lastStarted)
	c.isRunning = false
	c.total += elapsed
	c.count++
	if elapsed > c.longest {
		c.longest = elapsed
	}
	return elapsed
}

// Reset discards a think in progress without recording it.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isRunning = false
}

func (c *Clock) Average() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count == 0 {
		return 0
	}
	return c.total / time.Duration(c.count)
}

func (c *Clock) Longest() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.longest
}

func (c *Clock) client() ClientClock {
	c.mu.Lock()
	defer c.mu.Unlock()

	cc := ClientClock{
		LongestMs: c.longest.Milliseconds(),
		TotalMs:   c.total.Milliseconds(),
	}
	if c.count > 0 {
		cc.AverageMs = (c.total / time.Duration(c.count)).Milliseconds()
	}
	return cc
}
