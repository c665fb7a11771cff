package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskradar/ip-risk-radar/internal/cache"
	"github.com/riskradar/ip-risk-radar/internal/models"
)

func TestCacheHitInsideTTL(t *testing.T) {
	c := cache.New(time.Minute)

	_, ok := c.Get()
	require.False(t, ok)

	report := &models.AnalysisReport{RunID: "run-1"}
	c.Put(report)

	got, ok := c.Get()
	require.True(t, ok)
	require.Equal(t, "run-1", got.RunID)
}

func TestCacheExpiry(t *testing.T) {
	c := cache.New(20 * time.Millisecond)
	c.Put(&models.AnalysisReport{RunID: "run-1"})

	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get()
	require.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	c := cache.New(time.Minute)
	c.Put(&models.AnalysisReport{RunID: "run-1"})
	c.Invalidate()

	_, ok := c.Get()
	require.False(t, ok)
}

func TestCachePutReplaces(t *testing.T) {
	c := cache.New(time.Minute)
	c.Put(&models.AnalysisReport{RunID: "run-1"})
	c.Put(&models.AnalysisReport{RunID: "run-2"})

	got, ok := c.Get()
	require.True(t, ok)
	require.Equal(t, "run-2", got.RunID)
}
