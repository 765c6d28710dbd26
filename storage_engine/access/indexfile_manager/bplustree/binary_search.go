package bplus

import "DaemonDB/storage_engine/schema"

// lowerBound returns the smallest index in [0, n) whose key (via keyAt)
// is >= target, or n if none qualifies.
func lowerBound(n int, keyAt func(int) []byte, target []byte) int {
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo)/2
		if schema.Compare(keyAt(mid), target) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// upperBound returns the smallest index in [0, n) whose key is > target,
// or n if none qualifies.
func upperBound(n int, keyAt func(int) []byte, target []byte) int {
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo)/2
		if schema.Compare(keyAt(mid), target) <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
