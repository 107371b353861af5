package cmap

type lockMode uint8

const (
	unlocked lockMode = iota
	readLocked
	writeLocked
)

// Accessor is a handle to one stored value together with the lock on the
// shard that holds it. The zero value is an empty read accessor; use
// WriteAccessor for one that keeps the write lock.
//
// While an accessor is bound, no other goroutine can modify its shard, and
// the goroutine holding it must not write to the same shard through any
// other path. Release it as soon as possible, usually with defer:
//
//	var acc cmap.Accessor[int]
//	if s.Find(&acc, 5) {
//		defer acc.Release()
//		use(acc.Value())
//	}
//
// An Accessor must not be copied while bound.
type Accessor[T any] struct {
	shard *shard[T]
	index uint32
	held  lockMode
	write bool
}

// WriteAccessor returns an empty accessor that binds under the write lock.
func WriteAccessor[T any]() Accessor[T] {
	return Accessor[T]{write: true}
}

// Bound reports whether the accessor references a value and holds a lock.
func (a *Accessor[T]) Bound() bool {
	return a.held != unlocked
}

// Writable reports whether the accessor binds under the write lock.
func (a *Accessor[T]) Writable() bool {
	return a.write
}

// Value returns the stored value. It panics if the accessor is not bound.
func (a *Accessor[T]) Value() T {
	return *a.slot()
}

// Release gives up the lock and empties the accessor. Releasing an empty
// accessor is a no-op.
func (a *Accessor[T]) Release() {
	switch a.held {
	case readLocked:
		a.shard.lock.stopReading()
	case writeLocked:
		a.shard.lock.stopWriting()
	}
	a.shard = nil
	a.index = 0
	a.held = unlocked
}

func (a *Accessor[T]) bind(sh *shard[T], index uint32, mode lockMode) {
	a.shard = sh
	a.index = index
	a.held = mode
}

func (a *Accessor[T]) slot() *T {
	if a.held == unlocked {
		panic("cmap: accessor is not bound")
	}
	return &a.shard.data[a.index].value
}

func (a *Accessor[T]) mode() lockMode {
	if a.write {
		return writeLocked
	}
	return readLocked
}

func (sh *shard[T]) acquire(mode lockMode) {
	if mode == writeLocked {
		sh.lock.startWriting()
		return
	}
	sh.lock.startReading()
}

func (sh *shard[T]) release(mode lockMode) {
	if mode == writeLocked {
		sh.lock.stopWriting()
		return
	}
	sh.lock.stopReading()
}
