package cmap

import "iter"

// Range calls fn for every value, read-locking one shard at a time.
//
// The callback returns false to stop iteration.
// Note: the view is not a consistent snapshot, and fn must not modify the
// set (a write to the shard being visited would wait forever).
func (s *Set[T, H]) Range(fn func(v T) bool) {
	for i := range s.shards {
		sh := &s.shards[i]
		if sh.size.Load() == 0 {
			continue
		}
		if !sh.each(fn) {
			return
		}
	}
}

func (sh *shard[T]) each(fn func(v T) bool) bool {
	sh.lock.startReading()
	defer sh.lock.stopReading()
	for i := range sh.data {
		e := &sh.data[i]
		if e.empty() {
			continue
		}
		if !fn(e.value) {
			return false
		}
	}
	return true
}

// All returns an iterator over all values, with Range's semantics.
func (s *Set[T, H]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		s.Range(yield)
	}
}

// Values returns all values.
func (s *Set[T, H]) Values() []T {
	values := make([]T, 0, s.Len())
	s.Range(func(v T) bool {
		values = append(values, v)
		return true
	})
	return values
}

// RangeWithLimit iterates over at most limit values and returns how many
// were accepted by fn.
// Useful for pagination scenarios.
func (s *Set[T, H]) RangeWithLimit(limit int, fn func(v T) bool) int {
	count := 0
	s.Range(func(v T) bool {
		if count >= limit || !fn(v) {
			return false
		}
		count++
		return true
	})
	return count
}
