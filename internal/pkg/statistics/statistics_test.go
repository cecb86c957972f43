package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUpdateCacheSkipsWithinInterval(t *testing.T) {
	cacheUpdateMutex.Lock()
	lastCacheUpdate = time.Now()
	cacheUpdateMutex.Unlock()

	assert.False(t, ShouldUpdateCache())

	// No database exists in this test, so recomputing here would panic. A
	// refresh inside the interval must return without touching it.
	UpdateCacheIfNeeded()

	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()
	assert.WithinDuration(t, time.Now(), lastCacheUpdate, time.Minute)
}
