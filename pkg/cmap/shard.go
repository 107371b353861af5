package cmap

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

const (
	shardBits = 12

	// ShardCount is the fixed number of shards in every Set and Map.
	ShardCount = 1 << shardBits

	shardMask = ShardCount - 1
)

// shard is one independently locked open-addressing table.
//
// data and rehashes change only under the write lock. size is atomic so an
// empty shard can be recognised without taking the lock.
type shard[T any] struct {
	lock     rwLock
	size     atomic.Uint32
	data     []entry[T]
	rehashes uint64
	_        cpu.CacheLinePad
}

// probe runs probeFind against the shard's current table. The caller holds
// the shard lock.
func probe[T any, M matcher[T]](sh *shard[T], hash uint64, m M) (bool, uint32, uint32) {
	return probeFind(sh.data, hash, m)
}

func (sh *shard[T]) remove(index uint32) {
	probeErase(sh.data, index)
	sh.size.Add(^uint32(0))
}

func (sh *shard[T]) reset() {
	sh.data = nil
	sh.size.Store(0)
}

// ShardStats describes one shard.
type ShardStats struct {
	Index    int    `json:"index" yaml:"index"`
	Size     int    `json:"size" yaml:"size"`
	Capacity int    `json:"capacity" yaml:"capacity"`
	Rehashes uint64 `json:"rehashes" yaml:"rehashes"`
}

func (sh *shard[T]) stats(index int) ShardStats {
	sh.lock.startReading()
	defer sh.lock.stopReading()
	return ShardStats{
		Index:    index,
		Size:     int(sh.size.Load()),
		Capacity: len(sh.data),
		Rehashes: sh.rehashes,
	}
}

// Summary aggregates ShardStats over a whole container.
type Summary struct {
	Shards     int     `json:"shards" yaml:"shards"`
	NonEmpty   int     `json:"non_empty" yaml:"non_empty"`
	Entries    int     `json:"entries" yaml:"entries"`
	Capacity   int     `json:"capacity" yaml:"capacity"`
	MaxSize    int     `json:"max_size" yaml:"max_size"`
	Rehashes   uint64  `json:"rehashes" yaml:"rehashes"`
	LoadFactor float64 `json:"load_factor" yaml:"load_factor"`
}

// Summarize folds per-shard statistics into a Summary.
func Summarize(stats []ShardStats) Summary {
	s := Summary{Shards: len(stats)}
	for _, st := range stats {
		if st.Size > 0 {
			s.NonEmpty++
		}
		s.Entries += st.Size
		s.Capacity += st.Capacity
		s.Rehashes += st.Rehashes
		s.MaxSize = max(s.MaxSize, st.Size)
	}
	if s.Capacity > 0 {
		s.LoadFactor = float64(s.Entries) / float64(s.Capacity)
	}
	return s
}
