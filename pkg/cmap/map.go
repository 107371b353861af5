package cmap

import "iter"

// Pair is a key/value entry of a Map.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// pairHasher makes a pair hash and compare as its key alone.
type pairHasher[K, V any, H Hasher[K]] struct {
	keys H
}

func (h pairHasher[K, V, H]) Hash(p Pair[K, V]) uint64 {
	return h.keys.Hash(p.Key)
}

func (h pairHasher[K, V, H]) Equal(a, b Pair[K, V]) bool {
	return h.keys.Equal(a.Key, b.Key)
}

func (h pairHasher[K, V, H]) HashKey(k K) uint64 {
	return h.keys.Hash(k)
}

func (h pairHasher[K, V, H]) EqualKey(p Pair[K, V], k K) bool {
	return h.keys.Equal(p.Key, k)
}

// Map is a concurrent hash map built on a Set of pairs.
type Map[K, V any, H Hasher[K]] struct {
	set   *Set[Pair[K, V], pairHasher[K, V, H]]
	pairs pairHasher[K, V, H]
}

// NewMap creates an empty map using hasher for its keys.
func NewMap[K, V any, H Hasher[K]](hasher H) *Map[K, V, H] {
	pairs := pairHasher[K, V, H]{keys: hasher}
	return &Map[K, V, H]{
		set:   NewSet[Pair[K, V]](pairs),
		pairs: pairs,
	}
}

// NewComparableMap creates a map with comparable keys hashed by maphash.
func NewComparableMap[K comparable, V any]() *Map[K, V, ComparableHasher[K]] {
	return NewMap[K, V](NewComparableHasher[K]())
}

// NewStringMap creates a map with string keys hashed by MurmurHash3.
func NewStringMap[V any]() *Map[string, V, StringHasher] {
	return NewMap[string, V](StringHasher{})
}

// MapReader is a read-only view of one map entry; it holds the shard's read
// lock while bound. The zero value is ready to use.
type MapReader[K, V any] struct {
	acc Accessor[Pair[K, V]]
}

func (r *MapReader[K, V]) Key() K { return r.acc.slot().Key }
func (r *MapReader[K, V]) Value() V { return r.acc.slot().Value }
func (r *MapReader[K, V]) Pair() Pair[K, V] { return *r.acc.slot() }
func (r *MapReader[K, V]) Bound() bool { return r.acc.Bound() }
func (r *MapReader[K, V]) Release() { r.acc.Release() }

func (r *MapReader[K, V]) accessor() *Accessor[Pair[K, V]] {
	if r == nil {
		return nil
	}
	r.acc.write = false
	return &r.acc
}

// MapWriter is a mutable view of one map entry; it holds the shard's write
// lock while bound. The key is exposed read-only because changing it in
// place would break the entry's placement. The zero value is ready to use.
type MapWriter[K, V any] struct {
	acc Accessor[Pair[K, V]]
}

// Key returns the entry's key.
func (w *MapWriter[K, V]) Key() K { return w.acc.slot().Key }

// Value returns a pointer to the entry's value, valid until Release.
func (w *MapWriter[K, V]) Value() *V { return &w.acc.slot().Value }

// Set replaces the entry's value.
func (w *MapWriter[K, V]) Set(v V) { w.acc.slot().Value = v }

func (w *MapWriter[K, V]) Bound() bool { return w.acc.Bound() }
func (w *MapWriter[K, V]) Release() { w.acc.Release() }

func (w *MapWriter[K, V]) accessor() *Accessor[Pair[K, V]] {
	if w == nil {
		return nil
	}
	w.acc.write = true
	return &w.acc
}

// Find binds r to the entry for key. r may be nil to test presence only.
func (m *Map[K, V, H]) Find(r *MapReader[K, V], key K) bool {
	return FindBy(m.set, m.pairs, r.accessor(), key)
}

// FindWrite binds w to the entry for key under the write lock. A nil w
// only tests for presence.
func (m *Map[K, V, H]) FindWrite(w *MapWriter[K, V], key K) bool {
	return FindBy(m.set, m.pairs, w.accessor(), key)
}

// pairKeyHasher lifts a KeyHasher over map keys to one over pairs.
type pairKeyHasher[K, V, Q any, QH KeyHasher[K, Q]] struct {
	keys QH
}

func (h pairKeyHasher[K, V, Q, QH]) HashKey(q Q) uint64 {
	return h.keys.HashKey(q)
}

func (h pairKeyHasher[K, V, Q, QH]) EqualKey(p Pair[K, V], q Q) bool {
	return h.keys.EqualKey(p.Key, q)
}

// FindKey binds r to the entry whose key matches q, a key of another type
// such as a []byte for a map keyed by string. r may be nil.
func FindKey[K, V any, H Hasher[K], Q any, QH KeyHasher[K, Q]](m *Map[K, V, H], qh QH, r *MapReader[K, V], q Q) bool {
	return FindBy(m.set, pairKeyHasher[K, V, Q, QH]{keys: qh}, r.accessor(), q)
}

// FindKeyWrite is FindKey with the entry left write-locked in w.
func FindKeyWrite[K, V any, H Hasher[K], Q any, QH KeyHasher[K, Q]](m *Map[K, V, H], qh QH, w *MapWriter[K, V], q Q) bool {
	return FindBy(m.set, pairKeyHasher[K, V, Q, QH]{keys: qh}, w.accessor(), q)
}

// EraseKey removes the entry whose key matches q.
func EraseKey[K, V any, H Hasher[K], Q any, QH KeyHasher[K, Q]](m *Map[K, V, H], qh QH, q Q) bool {
	return EraseBy(m.set, pairKeyHasher[K, V, Q, QH]{keys: qh}, q)
}

// Contains reports whether key is present.
func (m *Map[K, V, H]) Contains(key K) bool {
	return m.Find(nil, key)
}

// Get returns a copy of the value stored for key.
func (m *Map[K, V, H]) Get(key K) (V, bool) {
	var r MapReader[K, V]
	if !m.Find(&r, key) {
		var zero V
		return zero, false
	}
	defer r.Release()
	return r.Value(), true
}

// Insert adds key with value unless key is present and reports whether it
// was added. The stored value is never overwritten. r may be nil; otherwise
// it is bound to the entry for key afterwards.
func (m *Map[K, V, H]) Insert(r *MapReader[K, V], key K, value V) bool {
	return m.set.Insert(r.accessor(), Pair[K, V]{Key: key, Value: value})
}

// InsertWrite is Insert with the entry left write-locked in w.
func (m *Map[K, V, H]) InsertWrite(w *MapWriter[K, V], key K, value V) bool {
	return m.set.Insert(w.accessor(), Pair[K, V]{Key: key, Value: value})
}

// InsertKey inserts key with the zero value, leaving w bound so the caller
// can fill the value in. It reports whether the key was new.
func (m *Map[K, V, H]) InsertKey(w *MapWriter[K, V], key K) bool {
	var zero V
	return m.InsertWrite(w, key, zero)
}

// Update calls fn with a pointer to the value for key under the write lock.
// It reports whether key was present.
func (m *Map[K, V, H]) Update(key K, fn func(v *V)) bool {
	var w MapWriter[K, V]
	if !m.FindWrite(&w, key) {
		return false
	}
	defer w.Release()
	fn(w.Value())
	return true
}

// Upsert makes sure key is present and calls fn with its value under the
// write lock. existed is false when the entry was just created with the zero
// value.
func (m *Map[K, V, H]) Upsert(key K, fn func(v *V, existed bool)) {
	var w MapWriter[K, V]
	inserted := m.InsertKey(&w, key)
	defer w.Release()
	fn(w.Value(), !inserted)
}

// Erase removes key and reports whether it was present.
func (m *Map[K, V, H]) Erase(key K) bool {
	return EraseBy(m.set, m.pairs, key)
}

// EraseAt removes the entry w is bound to and releases w. It returns false
// for a nil or unbound w.
func (m *Map[K, V, H]) EraseAt(w *MapWriter[K, V]) bool {
	if w == nil {
		return false
	}
	return m.set.EraseAt(&w.acc)
}

// Len returns the number of entries.
func (m *Map[K, V, H]) Len() int {
	return m.set.Len()
}

// Empty reports whether the map holds no entries.
func (m *Map[K, V, H]) Empty() bool {
	return m.set.Empty()
}

// Range calls fn for every entry, read-locking one shard at a time. The
// view is not a consistent snapshot and fn must not modify the map.
func (m *Map[K, V, H]) Range(fn func(key K, value V) bool) {
	m.set.Range(func(p Pair[K, V]) bool {
		return fn(p.Key, p.Value)
	})
}

// All returns an iterator over all entries, with Range's semantics.
func (m *Map[K, V, H]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.Range(yield)
	}
}

// Keys returns all keys.
func (m *Map[K, V, H]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.Range(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Values returns all values.
func (m *Map[K, V, H]) Values() []V {
	values := make([]V, 0, m.Len())
	m.Range(func(_ K, value V) bool {
		values = append(values, value)
		return true
	})
	return values
}

// Clear removes all entries.
func (m *Map[K, V, H]) Clear() {
	m.set.Clear()
}

// Close drops all storage; see Set.Close.
func (m *Map[K, V, H]) Close() {
	m.set.Close()
}

// Stats returns statistics about every shard.
func (m *Map[K, V, H]) Stats() []ShardStats {
	return m.set.Stats()
}

// Summary aggregates Stats.
func (m *Map[K, V, H]) Summary() Summary {
	return m.set.Summary()
}
