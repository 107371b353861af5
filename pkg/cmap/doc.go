// Package cmap provides a concurrent hash set and map for high-contention
// workloads.
//
// A container is a fixed bank of ShardCount (4096) shards:
//
//   - Sharding: the low 12 bits of a hash pick the shard, the rest place the
//     value inside it
//   - Open addressing: values live directly in a prime-sized slot array,
//     ordered along each probe run; inserts shift forward, erases shift back
//   - Spinning RW lock: one atomic word per shard counts readers, marks the
//     writer and tracks readers a pending writer is draining
//   - Optimistic insert: probe under the read lock, upgrade only on a miss
//   - Accessors: handles that keep a shard locked while the caller looks at
//     (or, for maps, mutates the value of) one entry
//
// Usage:
//
//	s := cmap.NewSet[int](cmap.IntHasher[int]{})
//	s.Add(5)
//
//	var acc cmap.Accessor[int]
//	if s.Find(&acc, 5) {
//		fmt.Println(acc.Value())
//		acc.Release()
//	}
//
//	m := cmap.NewStringMap[int]()
//	var w cmap.MapWriter[string, int]
//	if m.InsertKey(&w, "x") {
//		w.Set(1)
//	}
//	w.Release()
//
// Thread Safety:
//
// All operations are safe for concurrent use. Locks spin (yielding, then
// sleeping under sustained contention) and cannot be cancelled. A goroutine
// holding a bound accessor must not write to the same container until it
// releases it, or it may wait forever.
package cmap
