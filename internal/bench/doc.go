// Package bench drives a cmap.Set from many goroutines and reports what
// happened.
//
// A run has two phases. The load phase inserts every key exactly once, split
// across the workers, and then checks that the set holds precisely that many
// values; a mismatch is reported as ErrLostUpdate. The mixed phase issues
// Config.Ops random reads, inserts and erases over the same key space,
// optionally paced by a token bucket.
package bench
