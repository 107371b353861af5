// Package cmap provides a concurrent-safe sharded set and map.
package cmap

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Backoff thresholds for the lock retry loops.
const (
	yieldAfter = 16
	sleepAfter = 32
	sleepDelay = 50 * time.Microsecond
)

// rwLock is a spinning reader/writer lock packed into one signed word.
//
//	 0      unlocked
//	 n > 0  n readers
//	-1      one writer
//	 v < -1 a writer waiting for -v-1 readers to drain
type rwLock struct {
	state atomic.Int64
}

// backoff spins first, then yields the processor, then sleeps.
type backoff struct {
	attempts int
}

func (b *backoff) wait() {
	b.attempts++
	switch {
	case b.attempts > sleepAfter:
		time.Sleep(sleepDelay)
	case b.attempts > yieldAfter:
		runtime.Gosched()
	}
}

func (l *rwLock) startReading() {
	var bo backoff
	for {
		v := l.state.Load()
		if v >= 0 && l.state.CompareAndSwap(v, v+1) {
			return
		}
		bo.wait()
	}
}

func (l *rwLock) stopReading() {
	var bo backoff
	for {
		v := l.state.Load()
		if v == 0 || v == -1 {
			panic("cmap: stopReading without a read lock")
		}
		// A negative value means a writer is draining us; stepping toward -1
		// hands it the shard once the last reader is gone.
		next := v - 1
		if v < 0 {
			next = v + 1
		}
		if l.state.CompareAndSwap(v, next) {
			return
		}
		bo.wait()
	}
}

func (l *rwLock) startWriting() {
	var bo backoff
	for {
		v := l.state.Load()
		switch {
		case v == 0:
			if l.state.CompareAndSwap(0, -1) {
				return
			}
		case v > 0:
			if l.state.CompareAndSwap(v, -(v + 1)) {
				l.awaitDrain()
				return
			}
		}
		bo.wait()
	}
}

func (l *rwLock) stopWriting() {
	if !l.state.CompareAndSwap(-1, 0) {
		panic("cmap: stopWriting without the write lock")
	}
}

func (l *rwLock) changeFromWriteToRead() {
	if !l.state.CompareAndSwap(-1, 1) {
		panic("cmap: downgrade without the write lock")
	}
}

// tryChangeFromReadToWrite upgrades a held read lock. It fails only when
// another writer is already draining; the caller then still owns its read lock.
func (l *rwLock) tryChangeFromReadToWrite() bool {
	var bo backoff
	for {
		v := l.state.Load()
		switch {
		case v == 1:
			if l.state.CompareAndSwap(1, -1) {
				return true
			}
		case v < -1:
			return false
		case v > 1:
			// Our own read slot is given up as part of becoming the writer,
			// so v-1 readers remain to drain: -(v-1)-1 == -v.
			if l.state.CompareAndSwap(v, -v) {
				l.awaitDrain()
				return true
			}
		default:
			panic("cmap: upgrade without a read lock")
		}
		bo.wait()
	}
}

func (l *rwLock) awaitDrain() {
	var bo backoff
	for l.state.Load() != -1 {
		bo.wait()
	}
}

func (l *rwLock) idle() bool {
	return l.state.Load() == 0
}
