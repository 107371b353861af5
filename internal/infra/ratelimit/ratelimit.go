// Package ratelimit keeps one token bucket per client, for example per
// remote IP, in a sharded map so that lookups from concurrent connections
// rarely contend.
package ratelimit

import (
	"golang.org/x/time/rate"

	"github.com/yndnr/shardtab/pkg/cmap"
)

// Limiters hands out a rate.Limiter per key. Buckets are created on first
// use and never evicted.
type Limiters struct {
	buckets *cmap.Map[string, *rate.Limiter, cmap.StringHasher]
	limit   rate.Limit
	burst   int
}

// New creates limiters allowing perSecond events per key. burst defaults
// to perSecond rounded up when zero.
func New(perSecond float64, burst int) *Limiters {
	if burst <= 0 {
		burst = max(1, int(perSecond+0.999))
	}
	return &Limiters{
		buckets: cmap.NewStringMap[*rate.Limiter](),
		limit:   rate.Limit(perSecond),
		burst:   burst,
	}
}

// Get returns the bucket of key, creating it when missing.
func (l *Limiters) Get(key string) *rate.Limiter {
	if lim, ok := l.buckets.Get(key); ok {
		return lim
	}
	lim, _ := l.buckets.GetOrInsert(key, rate.NewLimiter(l.limit, l.burst))
	return lim
}

// Allow takes one token from the bucket of key.
func (l *Limiters) Allow(key string) bool {
	return l.Get(key).Allow()
}

// Burst returns the bucket size.
func (l *Limiters) Burst() int {
	return l.burst
}

// Len returns the number of keys seen so far.
func (l *Limiters) Len() int {
	return l.buckets.Len()
}
