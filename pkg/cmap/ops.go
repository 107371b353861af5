package cmap

// Store sets the value for key, overwriting any existing one, and reports
// whether key was new.
func (m *Map[K, V, H]) Store(key K, value V) bool {
	var w MapWriter[K, V]
	inserted := m.InsertWrite(&w, key, value)
	if !inserted {
		w.Set(value)
	}
	w.Release()
	return inserted
}

// SetIfPresent sets the value only if the key already exists.
// Returns true if the value was set, false if the key does not exist.
func (m *Map[K, V, H]) SetIfPresent(key K, value V) bool {
	return m.Update(key, func(v *V) { *v = value })
}

// GetOrInsert returns the existing value for a key, or inserts and returns
// the given value if absent. loaded reports whether the value was present.
func (m *Map[K, V, H]) GetOrInsert(key K, value V) (actual V, loaded bool) {
	var r MapReader[K, V]
	loaded = !m.Insert(&r, key, value)
	actual = r.Value()
	r.Release()
	return actual, loaded
}

// Pop removes a key and returns its value.
// Returns the value and true if the key existed, zero value and false otherwise.
func (m *Map[K, V, H]) Pop(key K) (V, bool) {
	var w MapWriter[K, V]
	if !m.FindWrite(&w, key) {
		var zero V
		return zero, false
	}
	value := *w.Value()
	m.EraseAt(&w)
	return value, true
}

// EraseIf removes key when cond accepts its current value.
func (m *Map[K, V, H]) EraseIf(key K, cond func(v V) bool) bool {
	var w MapWriter[K, V]
	if !m.FindWrite(&w, key) {
		return false
	}
	if !cond(*w.Value()) {
		w.Release()
		return false
	}
	return m.EraseAt(&w)
}

// Versioned is an interface for values that support versioning.
type Versioned interface {
	GetVersion() uint64
	SetVersion(v uint64)
}

// CompareAndSwap replaces the value for key if its version matches
// expectedVersion, bumping the version of newValue.
// This is useful for optimistic locking patterns.
func CompareAndSwap[K any, V Versioned, H Hasher[K]](m *Map[K, V, H], key K, expectedVersion uint64, newValue V) bool {
	var w MapWriter[K, V]
	if !m.FindWrite(&w, key) {
		return false
	}
	defer w.Release()

	if (*w.Value()).GetVersion() != expectedVersion {
		return false
	}
	newValue.SetVersion(expectedVersion + 1)
	w.Set(newValue)
	return true
}

// CompareAndDelete removes key if its version matches expectedVersion.
func CompareAndDelete[K any, V Versioned, H Hasher[K]](m *Map[K, V, H], key K, expectedVersion uint64) bool {
	return m.EraseIf(key, func(v V) bool {
		return v.GetVersion() == expectedVersion
	})
}
