package cmap

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func TestRWLockStateTransitions(t *testing.T) {
	var l rwLock

	l.startReading()
	l.startReading()
	require.EqualValues(t, 2, l.state.Load())

	l.stopReading()
	require.EqualValues(t, 1, l.state.Load())

	require.True(t, l.tryChangeFromReadToWrite())
	require.EqualValues(t, -1, l.state.Load())

	l.changeFromWriteToRead()
	require.EqualValues(t, 1, l.state.Load())

	l.stopReading()
	require.True(t, l.idle())

	l.startWriting()
	require.EqualValues(t, -1, l.state.Load())
	l.stopWriting()
	require.True(t, l.idle())
}

func TestRWLockWriterDrainsReaders(t *testing.T) {
	var l rwLock
	l.startReading()
	l.startReading()

	done := make(chan struct{})
	go func() {
		l.startWriting()
		close(done)
	}()

	// Two readers left to drain: -(2+1).
	require.Eventually(t, func() bool { return l.state.Load() == -3 }, waitFor, time.Millisecond)

	l.stopReading()
	assert.EqualValues(t, -2, l.state.Load())
	select {
	case <-done:
		t.Fatal("writer entered while a reader was still active")
	case <-time.After(10 * time.Millisecond):
	}

	l.stopReading()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("writer did not enter after readers drained")
	}
	require.EqualValues(t, -1, l.state.Load())
	l.stopWriting()
	require.True(t, l.idle())
}

func TestRWLockReaderWaitsForWriter(t *testing.T) {
	var l rwLock
	l.startWriting()

	done := make(chan struct{})
	go func() {
		l.startReading()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("reader entered while the writer was active")
	case <-time.After(10 * time.Millisecond):
	}

	l.stopWriting()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("reader did not enter after the writer left")
	}
	require.EqualValues(t, 1, l.state.Load())
	l.stopReading()
}

func TestRWLockUpgradeWaitsForOtherReaders(t *testing.T) {
	var l rwLock
	l.startReading()
	l.startReading()

	upgraded := make(chan bool)
	go func() {
		upgraded <- l.tryChangeFromReadToWrite()
	}()

	// The upgrading reader gives up its own slot: one reader left, -2.
	require.Eventually(t, func() bool { return l.state.Load() == -2 }, waitFor, time.Millisecond)

	l.stopReading()
	select {
	case ok := <-upgraded:
		require.True(t, ok)
	case <-time.After(waitFor):
		t.Fatal("upgrade did not complete")
	}
	require.EqualValues(t, -1, l.state.Load())
	l.stopWriting()
}

func TestRWLockUpgradeFailsWhileAnotherWriterDrains(t *testing.T) {
	var l rwLock
	l.startReading()
	l.startReading()

	done := make(chan struct{})
	go func() {
		l.startWriting()
		close(done)
	}()
	require.Eventually(t, func() bool { return l.state.Load() == -3 }, waitFor, time.Millisecond)

	require.False(t, l.tryChangeFromReadToWrite())
	// The failed upgrade must leave the caller's read slot in place.
	require.EqualValues(t, -3, l.state.Load())

	l.stopReading()
	l.stopReading()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("writer did not enter")
	}
	l.stopWriting()
	require.True(t, l.idle())
}

func TestRWLockMisusePanics(t *testing.T) {
	var l rwLock
	require.Panics(t, l.stopReading)
	require.Panics(t, l.stopWriting)
	require.Panics(t, l.changeFromWriteToRead)
	require.Panics(t, func() { l.tryChangeFromReadToWrite() })
}

func TestRWLockMutualExclusion(t *testing.T) {
	var (
		l       rwLock
		wg      sync.WaitGroup
		counter int
	)
	const goroutines = 8
	const perG = 2000

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				switch i % 3 {
				case 0:
					l.startWriting()
					counter++
					l.stopWriting()
				case 1:
					l.startReading()
					_ = counter
					l.stopReading()
				default:
					l.startReading()
					if l.tryChangeFromReadToWrite() {
						counter++
						l.stopWriting()
					} else {
						l.stopReading()
						l.startWriting()
						counter++
						l.stopWriting()
					}
				}
			}
		}(g)
	}
	wg.Wait()

	writes := 0
	for i := 0; i < perG; i++ {
		if i%3 != 1 {
			writes++
		}
	}
	require.Equal(t, goroutines*writes, counter)
	require.True(t, l.idle())
}
