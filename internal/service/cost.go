// Package service contains the business logic layer.
package service

import "sync"

// CostTracker accumulates estimated AI cost across concurrent field
// validations. All methods are safe for concurrent use.
type CostTracker struct {
	mu    sync.RWMutex
	total float64
}

// NewCostTracker creates a zeroed cost tracker.
func NewCostTracker() *CostTracker {
	return &CostTracker{}
}

// Add adds the given amount to the running total.
func (c *CostTracker) Add(amount float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total += amount
}

// Total returns the accumulated cost.
func (c *CostTracker) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.total
}
