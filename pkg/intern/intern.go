package intern

import (
	"strings"
	"sync"

	"github.com/yndnr/shardtab/pkg/cmap"
)

type refMap = cmap.Map[string, int64, cmap.StringHasher]

// Table is a concurrent reference-counted string intern table.
type Table struct {
	refs *refMap
}

// New creates an empty table.
func New() *Table {
	return &Table{refs: cmap.NewStringMap[int64]()}
}

var defaultTable = sync.OnceValue(New)

// Default returns the process-wide table, creating it on first use.
func Default() *Table {
	return defaultTable()
}

// Intern returns the canonical copy of s and takes a reference to it.
func (t *Table) Intern(s string) string {
	canon, _ := t.Acquire(s)
	return canon
}

// Acquire is Intern that also returns the reference count after the call,
// which is 1 exactly when s was not interned before.
func (t *Table) Acquire(s string) (string, int64) {
	var w cmap.MapWriter[string, int64]
	if !t.refs.FindWrite(&w, s) {
		// Clone so the table never pins the caller's larger buffer.
		t.refs.InsertWrite(&w, strings.Clone(s), 0)
	}
	return acquire(&w)
}

// InternBytes is Intern for a byte slice. It only allocates when the string
// is not interned yet.
func (t *Table) InternBytes(b []byte) string {
	s, _ := t.AcquireBytes(b)
	return s
}

// AcquireBytes is Acquire for a byte slice.
func (t *Table) AcquireBytes(b []byte) (string, int64) {
	var w cmap.MapWriter[string, int64]
	if !cmap.FindKeyWrite(t.refs, cmap.StringHasher{}, &w, b) {
		t.refs.InsertWrite(&w, string(b), 0)
	}
	return acquire(&w)
}

func acquire(w *cmap.MapWriter[string, int64]) (string, int64) {
	n := w.Value()
	*n++
	s, refs := w.Key(), *n
	w.Release()
	return s, refs
}

// Lookup returns the canonical copy of s without taking a reference.
func (t *Table) Lookup(s string) (string, bool) {
	var r cmap.MapReader[string, int64]
	if !t.refs.Find(&r, s) {
		return "", false
	}
	defer r.Release()
	return r.Key(), true
}

// LookupBytes is Lookup for a byte slice.
func (t *Table) LookupBytes(b []byte) (string, bool) {
	var r cmap.MapReader[string, int64]
	if !cmap.FindKey(t.refs, cmap.StringHasher{}, &r, b) {
		return "", false
	}
	defer r.Release()
	return r.Key(), true
}

// Refs returns the reference count of s, zero when it is not interned.
func (t *Table) Refs(s string) int64 {
	n, _ := t.refs.Get(s)
	return n
}

// Release drops one reference to s and forgets s when none are left. It
// reports whether s was interned.
func (t *Table) Release(s string) bool {
	_, ok := t.Drop(s)
	return ok
}

// Drop is Release that also returns the references left after the call.
func (t *Table) Drop(s string) (int64, bool) {
	var w cmap.MapWriter[string, int64]
	if !t.refs.FindWrite(&w, s) {
		return 0, false
	}
	n := w.Value()
	*n--
	if left := *n; left > 0 {
		w.Release()
		return left, true
	}
	t.refs.EraseAt(&w)
	return 0, true
}

// Range calls fn for every interned string with its reference count. fn
// must not call back into the table.
func (t *Table) Range(fn func(s string, refs int64) bool) {
	t.refs.Range(fn)
}

// Len returns the number of distinct interned strings.
func (t *Table) Len() int {
	return t.refs.Len()
}

// Stats summarizes the shards backing the table.
func (t *Table) Stats() cmap.Summary {
	return t.refs.Summary()
}

// Close forgets every string. No goroutine may use the table concurrently.
func (t *Table) Close() {
	t.refs.Close()
}
