package dlna

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderCacheComputesOnce(t *testing.T) {
	c := newFolderCache()
	computes := 0

	for i := 0; i < 3; i++ {
		v, err := c.Get("artists", "groups", func() (interface{}, error) {
			computes++
			return []string{"A", "B"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, v.([]string))
	}
	assert.Equal(t, 1, computes)
}

func TestFolderCacheErrorsAreNotCached(t *testing.T) {
	c := newFolderCache()
	boom := errors.New("listing query failed")
	calls := 0

	_, err := c.Get("collections", "all", func() (interface{}, error) {
		calls++
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	v, err := c.Get("collections", "all", func() (interface{}, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}

func TestFolderCacheClearRegion(t *testing.T) {
	c := newFolderCache()
	computes := map[string]int{}
	get := func(region string) {
		_, err := c.Get(region, "k", func() (interface{}, error) {
			computes[region]++
			return region, nil
		})
		require.NoError(t, err)
	}

	get("artists")
	get("releases")
	c.ClearRegion("artists")
	get("artists")
	get("releases")

	assert.Equal(t, 2, computes["artists"])
	assert.Equal(t, 1, computes["releases"])
}

// Concurrent misses on one key share a single compute.
func TestFolderCacheSingleFlight(t *testing.T) {
	c := newFolderCache()
	var computes int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get("artists", "groups", func() (interface{}, error) {
				atomic.AddInt32(&computes, 1)
				<-release
				return "shared", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "shared", v)
		}()
	}

	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&computes))
}
