package cache

import (
	"sync"
	"time"

	"github.com/riskradar/ip-risk-radar/internal/models"
)

// Reports keeps the latest analysis report for a ttl window so repeated
// dashboard interactions inside the window do not refetch the feed. It is
// the only persistence boundary in the system and is held explicitly by
// the caller, not in package state.
type Reports struct {
	mu       sync.Mutex
	ttl      time.Duration
	report   *models.AnalysisReport
	storedAt time.Time
	now      func() time.Time
}

// New creates a report cache with the provided ttl.
func New(ttl time.Duration) *Reports {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Reports{ttl: ttl, now: time.Now}
}

// Get returns the cached report when one exists inside the ttl window.
func (c *Reports) Get() (*models.AnalysisReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.report == nil || c.now().Sub(c.storedAt) > c.ttl {
		return nil, false
	}
	return c.report, true
}

// Put stores a report, replacing any previous one.
func (c *Reports) Put(report *models.AnalysisReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = report
	c.storedAt = c.now()
}

// Invalidate drops the cached report so the next Get misses.
func (c *Reports) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = nil
}
