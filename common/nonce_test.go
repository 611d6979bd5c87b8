package common

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonce_Increments(t *testing.T) {
	n := NewNonce(100)

	assert.Equal(t, int64(101), n.Next())
	assert.Equal(t, int64(102), n.Next())
}

func TestNonce_ConcurrentUnique(t *testing.T) {
	n := NewMilliNonce()

	const workers, perWorker = 16, 200
	out := make(chan int64, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				out <- n.Next()
			}
		}()
	}
	wg.Wait()
	close(out)

	seen := make(map[int64]bool, workers*perWorker)
	for v := range out {
		assert.False(t, seen[v], "duplicate nonce %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestNonce_ResetNeverMovesBack(t *testing.T) {
	n := NewNonce(50)

	n.Reset(10)
	assert.Equal(t, int64(51), n.Next())

	n.Reset(1000)
	assert.Equal(t, int64(1001), n.Next())
}

func TestCredentials_Redacted(t *testing.T) {
	c := NewCredentials("pub", "sec")

	assert.False(t, c.Empty())
	assert.NotContains(t, c.String(), "pub")
	assert.NotContains(t, c.String(), "sec")
	assert.True(t, NewCredentials("pub", "").Empty())
}

func TestNonce_ResyncFollowsClock(t *testing.T) {
	now := int64(100)
	n := NewClockNonce(func() int64 { return now })

	assert.Equal(t, int64(101), n.Next())

	now = 5000
	n.Resync()
	assert.Equal(t, int64(5001), n.Next())

	now = 10
	n.Resync()
	assert.Equal(t, int64(5002), n.Next())
}

func TestNonce_ResyncWithoutClock(t *testing.T) {
	n := NewNonce(7)

	n.Resync()
	assert.Equal(t, int64(8), n.Next())
}
