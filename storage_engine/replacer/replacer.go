// Package replacer implements the pluggable page-replacement policies the
// buffer pool consults to pick an eviction victim among unpinned frames
// (§4.1). Two policies are provided: a classic insertion-order LRU and an
// LRU-K variant that ranks frames by backward K-distance.
package replacer

import "fmt"

// FrameID indexes a slot in the buffer pool's frame table.
type FrameID int32

// InvalidFrameID is never a real frame index.
const InvalidFrameID FrameID = -1

// Replacer tracks which frames are currently evictable and picks a
// victim among them. Pin/Unpin toggle evictability; a pinned frame is
// never a victim candidate. Implementations are not safe for concurrent
// use — the buffer pool serializes access with its own mutex (§5).
type Replacer interface {
	// Pin marks frameID as unpinned-ineligible for eviction: the buffer
	// pool calls this when a page's pin count goes from zero to nonzero
	// (or when a frame is freshly claimed for a resident page).
	Pin(frameID FrameID)

	// Unpin marks frameID as a victim candidate: the buffer pool calls
	// this when a page's pin count drops to zero.
	Unpin(frameID FrameID)

	// Victim removes and returns the frame the policy would evict next.
	// Reports false if no frame is currently evictable.
	Victim() (FrameID, bool)

	// Size reports how many frames are currently evictable.
	Size() int
}

// New constructs a Replacer by name, sized to capacity frames. Unknown
// names are a programming error (a hardcoded configuration mistake, not
// a runtime condition), so New panics rather than returning an error,
// matching the terminate-on-unrecognized-policy behavior described in
// §7 (FATAL).
func New(name string, capacity, k int) Replacer {
	switch name {
	case "LRU":
		return NewLRUReplacer(capacity)
	case "LRUK":
		return NewLRUKReplacer(k)
	default:
		panic(fmt.Sprintf("replacer: unknown policy %q", name))
	}
}
