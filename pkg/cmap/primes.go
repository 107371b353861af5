package cmap

import "sort"

// primes are the shard capacities. Each is the smallest prime at least
// twice the previous one plus one, except the last, which is the largest
// prime below emptySlot.
var primes = [...]uint32{
	3, 7, 17, 37, 79, 163, 331, 673, 1361, 2729, 5471, 10949, 21911,
	43853, 87719, 175447, 350899, 701819, 1403641, 2807303, 5614657,
	11229331, 22458671, 44917381, 89834777, 179669557, 359339171,
	718678369, 1437356741, 2874713497, 4294967291,
}

// nextPrime returns the smallest table capacity that is at least n.
func nextPrime(n uint32) uint32 {
	i := sort.Search(len(primes), func(i int) bool { return primes[i] >= n })
	if i == len(primes) {
		panic("cmap: shard capacity overflow")
	}
	return primes[i]
}
