package cmap

// Set is a concurrent hash set split into ShardCount independently locked
// open-addressing shards. The low bits of a value's hash pick the shard and
// the remaining bits place it inside that shard.
type Set[T any, H Hasher[T]] struct {
	hasher H
	shards [ShardCount]shard[T]
}

// NewSet creates an empty set using hasher for hashing and equality.
func NewSet[T any, H Hasher[T]](hasher H) *Set[T, H] {
	return &Set[T, H]{hasher: hasher}
}

// NewComparableSet creates a set of comparable values hashed by maphash.
func NewComparableSet[T comparable]() *Set[T, ComparableHasher[T]] {
	return NewSet[T](NewComparableHasher[T]())
}

// NewStringSet creates a set of strings hashed by MurmurHash3.
func NewStringSet() *Set[string, StringHasher] {
	return NewSet[string](StringHasher{})
}

// Hasher returns the hasher the set was created with.
func (s *Set[T, H]) Hasher() H {
	return s.hasher
}

func (s *Set[T, H]) locate(hash uint64) (*shard[T], uint64) {
	return &s.shards[hash&shardMask], hash >> shardBits
}

type valueMatcher[T any, H Hasher[T]] struct {
	hasher H
	value  *T
}

func (m valueMatcher[T, H]) match(v *T) bool {
	return m.hasher.Equal(*v, *m.value)
}

type keyMatcher[T, K any, KH KeyHasher[T, K]] struct {
	hasher KH
	key    K
}

func (m keyMatcher[T, K, KH]) match(v *T) bool {
	return m.hasher.EqualKey(*v, m.key)
}

// find binds acc to the matching value. A nil acc only tests for presence.
func find[T any, H Hasher[T], M matcher[T]](s *Set[T, H], acc *Accessor[T], hash uint64, m M) bool {
	mode := readLocked
	if acc != nil {
		acc.Release()
		mode = acc.mode()
	}

	sh, inner := s.locate(hash)
	// An empty shard can only become non-empty under the write lock, so
	// reporting "absent" without locking is linearizable.
	if sh.size.Load() == 0 {
		return false
	}

	sh.acquire(mode)
	found, index, _ := probe(sh, inner, m)
	if !found || acc == nil {
		sh.release(mode)
		return found
	}
	acc.bind(sh, index, mode)
	return true
}

func erase[T any, H Hasher[T], M matcher[T]](s *Set[T, H], hash uint64, m M) bool {
	sh, inner := s.locate(hash)
	sh.lock.startWriting()
	found, index, _ := probe(sh, inner, m)
	if found {
		sh.remove(index)
	}
	sh.lock.stopWriting()
	return found
}

// Find looks up key. On success acc is bound to the stored value under a
// read or write lock depending on its kind; otherwise acc is left empty.
// Any previous binding of acc is released first.
func (s *Set[T, H]) Find(acc *Accessor[T], key T) bool {
	return find(s, acc, s.hasher.Hash(key), valueMatcher[T, H]{hasher: s.hasher, value: &key})
}

// FindBy looks up a value by a key of a different type, e.g. a []byte in a
// set of strings.
func FindBy[T any, H Hasher[T], K any, KH KeyHasher[T, K]](s *Set[T, H], kh KH, acc *Accessor[T], key K) bool {
	return find(s, acc, kh.HashKey(key), keyMatcher[T, K, KH]{hasher: kh, key: key})
}

// Contains reports whether key is present.
func (s *Set[T, H]) Contains(key T) bool {
	return s.Find(nil, key)
}

// Visit calls fn with the stored value equal to key while holding the
// shard's read lock. fn must not modify the set. It reports whether key was
// found.
func (s *Set[T, H]) Visit(key T, fn func(v T)) bool {
	var acc Accessor[T]
	if !s.Find(&acc, key) {
		return false
	}
	defer acc.Release()
	fn(acc.Value())
	return true
}

// Insert adds value unless an equal value is present, and reports whether
// it was added. acc may be nil. Otherwise it ends up bound to the stored
// value (the new one, or the one already present) under a read or write
// lock depending on its kind.
//
// Readers probe optimistically under the read lock and upgrade to the write
// lock only when the value is missing.
func (s *Set[T, H]) Insert(acc *Accessor[T], value T) bool {
	if acc != nil {
		acc.Release()
	}

	sh, inner := s.locate(s.hasher.Hash(value))
	m := valueMatcher[T, H]{hasher: s.hasher, value: &value}

	var (
		found         bool
		index, target uint32
		writing       bool
	)
	if (acc == nil || !acc.write) && sh.size.Load() > 0 {
		sh.lock.startReading()
		found, index, target = probe(sh, inner, m)
		if found {
			if acc != nil {
				acc.bind(sh, index, readLocked)
			} else {
				sh.lock.stopReading()
			}
			return false
		}
		if sh.lock.tryChangeFromReadToWrite() {
			// No writer ran since our probe, the result still holds.
			writing = true
		} else {
			sh.lock.stopReading()
		}
	}

	if !writing {
		sh.lock.startWriting()
		found, index, target = probe(sh, inner, m)
		if found {
			finishWrite(acc, sh, index)
			return false
		}
	}

	index = s.place(sh, inner, value, index, target)
	finishWrite(acc, sh, index)
	return true
}

// Add inserts value and reports whether it was not present before.
func (s *Set[T, H]) Add(value T) bool {
	return s.Insert(nil, value)
}

// finishWrite hands the write lock over to acc, downgrading it for read
// accessors, or drops it when there is no accessor.
func finishWrite[T any](acc *Accessor[T], sh *shard[T], index uint32) {
	switch {
	case acc == nil:
		sh.lock.stopWriting()
	case acc.write:
		acc.bind(sh, index, writeLocked)
	default:
		sh.lock.changeFromWriteToRead()
		acc.bind(sh, index, readLocked)
	}
}

// place stores a value known to be absent at the probed position, growing
// the shard first when it is full or when it is over half full and the new
// value could not go to its home slot. It returns the final slot.
// The caller holds the write lock.
func (s *Set[T, H]) place(sh *shard[T], inner uint64, value T, index, target uint32) uint32 {
	size := sh.size.Load() + 1
	capacity := uint32(len(sh.data))
	if size > capacity || (index != target && size > capacity/2) {
		s.grow(sh)
		_, index, target = probeFind(sh.data, inner, noMatch[T]{})
	}
	probeInsert(sh.data, entry[T]{value: value, target: target}, index)
	sh.size.Store(size)
	return index
}

// grow moves every live entry of sh into a table of the next prime
// capacity. The new table is complete before it is published.
func (s *Set[T, H]) grow(sh *shard[T]) {
	old := sh.data
	table := newTable[T](nextPrime(uint32(len(old)) + 1))
	for i := range old {
		e := &old[i]
		if e.empty() {
			continue
		}
		inner := s.hasher.Hash(e.value) >> shardBits
		_, index, target := probeFind(table, inner, noMatch[T]{})
		probeInsert(table, entry[T]{value: e.value, target: target}, index)
	}
	sh.data = table
	sh.rehashes++
}

// Erase removes key and reports whether it was present.
func (s *Set[T, H]) Erase(key T) bool {
	return erase(s, s.hasher.Hash(key), valueMatcher[T, H]{hasher: s.hasher, value: &key})
}

// EraseBy removes the value matching a key of a different type.
func EraseBy[T any, H Hasher[T], K any, KH KeyHasher[T, K]](s *Set[T, H], kh KH, key K) bool {
	return erase(s, kh.HashKey(key), keyMatcher[T, K, KH]{hasher: kh, key: key})
}

// EraseAt removes the value acc is bound to and releases acc. It returns
// false for an empty accessor and panics for one holding only a read lock.
func (s *Set[T, H]) EraseAt(acc *Accessor[T]) bool {
	if acc == nil || !acc.Bound() {
		return false
	}
	if acc.held != writeLocked {
		panic("cmap: EraseAt needs a write accessor")
	}
	acc.shard.remove(acc.index)
	acc.Release()
	return true
}

// Len returns the number of stored values. Shards are read one by one, so
// under concurrent writes the result is approximate.
func (s *Set[T, H]) Len() int {
	n := 0
	for i := range s.shards {
		n += int(s.shards[i].size.Load())
	}
	return n
}

// Empty reports whether the set holds no values.
func (s *Set[T, H]) Empty() bool {
	return s.Len() == 0
}

// Clear removes all values, write-locking one shard at a time.
func (s *Set[T, H]) Clear() {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.lock.startWriting()
		sh.reset()
		sh.lock.stopWriting()
	}
}

// Close drops all storage. It panics if any accessor is still bound or any
// operation is in flight; the set must not be used afterwards.
func (s *Set[T, H]) Close() {
	for i := range s.shards {
		if !s.shards[i].lock.idle() {
			panic("cmap: Close with a bound accessor")
		}
	}
	for i := range s.shards {
		s.shards[i].reset()
	}
}

// ShardCount returns the number of shards.
func (s *Set[T, H]) ShardCount() int {
	return ShardCount
}

// Stats returns statistics about every shard. It read-locks each shard in
// turn, so it must not be called while holding a write accessor.
func (s *Set[T, H]) Stats() []ShardStats {
	stats := make([]ShardStats, ShardCount)
	for i := range s.shards {
		stats[i] = s.shards[i].stats(i)
	}
	return stats
}

// Summary aggregates Stats.
func (s *Set[T, H]) Summary() Summary {
	return Summarize(s.Stats())
}
