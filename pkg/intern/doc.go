// Package intern keeps one canonical copy of each distinct string.
//
// A Table counts references: every Intern adds one, every Release drops one,
// and the string is forgotten when its count reaches zero. Lookups by []byte
// do not allocate when the string is already interned.
//
// Usage:
//
//	t := intern.New()
//	a := t.Intern("GET")
//	b := t.InternBytes([]byte("GET")) // same backing memory as a
//	t.Release(a)
//	t.Release(b)
//
// Default returns a table shared by the whole process. It lives until the
// process exits; Close on it is only meant for tests.
package intern
