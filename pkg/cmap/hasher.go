package cmap

import (
	"hash/maphash"
	"unsafe"

	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
	"golang.org/x/exp/constraints"
)

// Hasher supplies hashing and equality for values stored in a Set.
// Equal values must hash to the same 64-bit value.
type Hasher[T any] interface {
	Hash(v T) uint64
	Equal(a, b T) bool
}

// KeyHasher lets a Set of T be probed with a key of another type K, for
// example a []byte against a set of strings. HashKey(k) must equal
// Hash(v) whenever EqualKey(v, k) holds.
type KeyHasher[T, K any] interface {
	HashKey(k K) uint64
	EqualKey(v T, k K) bool
}

// ComparableHasher hashes any comparable type with hash/maphash.
// Use NewComparableHasher; the zero value has no seed and panics.
type ComparableHasher[T comparable] struct {
	seed maphash.Seed
}

// NewComparableHasher returns a ComparableHasher with a random seed.
func NewComparableHasher[T comparable]() ComparableHasher[T] {
	return ComparableHasher[T]{seed: maphash.MakeSeed()}
}

func (h ComparableHasher[T]) Hash(v T) uint64 {
	return maphash.Comparable(h.seed, v)
}

func (ComparableHasher[T]) Equal(a, b T) bool {
	return a == b
}

// StringHasher hashes strings with MurmurHash3. Strings can also be looked
// up by []byte without allocating.
type StringHasher struct{}

func (StringHasher) Hash(s string) uint64 {
	return murmur3.Sum64(unsafe.Slice(unsafe.StringData(s), len(s)))
}

func (StringHasher) Equal(a, b string) bool {
	return a == b
}

func (StringHasher) HashKey(b []byte) uint64 {
	return murmur3.Sum64(b)
}

func (StringHasher) EqualKey(s string, b []byte) bool {
	return s == string(b)
}

// XXH3StringHasher hashes strings with XXH3.
type XXH3StringHasher struct{}

func (XXH3StringHasher) Hash(s string) uint64 {
	return xxh3.HashString(s)
}

func (XXH3StringHasher) Equal(a, b string) bool {
	return a == b
}

func (XXH3StringHasher) HashKey(b []byte) uint64 {
	return xxh3.Hash(b)
}

func (XXH3StringHasher) EqualKey(s string, b []byte) bool {
	return s == string(b)
}

// IntHasher hashes integers with the MurmurHash3 64-bit finalizer, so that
// consecutive keys spread over shards and slots.
type IntHasher[T constraints.Integer] struct{}

func (IntHasher[T]) Hash(v T) uint64 {
	return mix64(uint64(v))
}

func (IntHasher[T]) Equal(a, b T) bool {
	return a == b
}

func mix64(k uint64) uint64 {
	k ^= k >> 33
	k *= 0xff51afd7ed558ccd
	k ^= k >> 33
	k *= 0xc4ceb9fe1a85ec53
	k ^= k >> 33
	return k
}
