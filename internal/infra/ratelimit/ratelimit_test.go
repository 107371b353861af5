package ratelimit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitersPerKey(t *testing.T) {
	l := New(0.001, 2)

	require.True(t, l.Allow("a"))
	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))

	require.True(t, l.Allow("b"), "buckets are independent")
	require.Equal(t, 2, l.Len())
}

func TestLimitersDefaultBurst(t *testing.T) {
	require.Equal(t, 3, New(2.5, 0).Burst())
	require.Equal(t, 1, New(0.1, 0).Burst())
	require.Equal(t, 7, New(100, 7).Burst())
}

func TestLimitersSameBucket(t *testing.T) {
	l := New(1, 1)

	var wg sync.WaitGroup
	got := make([]any, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = l.Get("client")
		}(i)
	}
	wg.Wait()

	for i := range got {
		assert.Same(t, got[0], got[i])
	}
	require.Equal(t, 1, l.Len())
}
