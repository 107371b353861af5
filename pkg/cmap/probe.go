package cmap

import "math"

// emptySlot is the target index stored in unused slots.
const emptySlot = math.MaxUint32

// entry is one open-addressing slot. target is the slot the value would
// occupy without collisions.
type entry[T any] struct {
	value  T
	target uint32
}

func (e *entry[T]) empty() bool {
	return e.target == emptySlot
}

func newTable[T any](capacity uint32) []entry[T] {
	table := make([]entry[T], capacity)
	for i := range table {
		table[i].target = emptySlot
	}
	return table
}

// matcher reports whether a stored value is the one being probed for.
type matcher[T any] interface {
	match(v *T) bool
}

type noMatch[T any] struct{}

func (noMatch[T]) match(*T) bool { return false }

// distance is how far slot lies past target, wrapping at capacity.
func distance(target, slot, capacity uint32) uint32 {
	if slot >= target {
		return slot - target
	}
	return slot + capacity - target
}

// probeFind looks for a value with the given in-shard hash. It returns the
// slot holding the value, or the slot where it has to be inserted to keep
// every probe run ordered by target.
//
// Entries are ordered along a run by their distance from home: an occupant
// that is closer to its own home than the query would be at that slot sorts
// after the query, so the scan can stop there. Occupants of a wrapped prefix
// (target numerically above their slot) are further from home than the
// query and are skipped.
func probeFind[T any, M matcher[T]](table []entry[T], hash uint64, m M) (found bool, index, target uint32) {
	capacity := uint32(len(table))
	if capacity == 0 {
		return false, 0, 0
	}
	target = uint32(hash % uint64(capacity))

	index = target
	for step := uint32(0); step < capacity; step++ {
		e := &table[index]
		if e.empty() {
			return false, index, target
		}
		if e.target == target {
			if m.match(&e.value) {
				return true, index, target
			}
		} else if distance(e.target, index, capacity) < step {
			return false, index, target
		}
		index++
		if index == capacity {
			index = 0
		}
	}
	// Full lap: the table is full and the caller must grow it first.
	return false, target, target
}

// probeInsert stores e at index, carrying displaced occupants forward until
// an empty slot absorbs the last one.
func probeInsert[T any](table []entry[T], e entry[T], index uint32) {
	capacity := uint32(len(table))
	for range capacity {
		slot := &table[index]
		if slot.empty() {
			*slot = e
			return
		}
		e, *slot = *slot, e
		index++
		if index == capacity {
			index = 0
		}
	}
	panic("cmap: insert into a full shard")
}

// probeErase removes the entry at index and pulls every displaced follower
// one slot back, stopping at an empty slot or at an entry sitting at home.
func probeErase[T any](table []entry[T], index uint32) {
	capacity := uint32(len(table))
	for range capacity {
		next := index + 1
		if next == capacity {
			next = 0
		}
		e := &table[next]
		if e.empty() || e.target == next {
			break
		}
		table[index] = *e
		index = next
	}
	table[index] = entry[T]{target: emptySlot}
}
