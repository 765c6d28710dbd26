package replacer

import "container/list"

// LRUReplacer evicts the least recently unpinned frame first. Frames are
// tracked in a doubly linked list ordered by recency: Unpin appends to
// the back (most recently usable), Victim pops from the front (least
// recently usable). Grounded on lru_replacer.cpp's node splice-to-back
// on access.
type LRUReplacer struct {
	list     *list.List
	nodes    map[FrameID]*list.Element
	capacity int
}

// NewLRUReplacer constructs an empty LRU replacer that tracks at most
// capacity frames.
func NewLRUReplacer(capacity int) *LRUReplacer {
	return &LRUReplacer{
		list:     list.New(),
		nodes:    make(map[FrameID]*list.Element),
		capacity: capacity,
	}
}

// Pin removes frameID from the evictable list, if present.
func (r *LRUReplacer) Pin(frameID FrameID) {
	if el, ok := r.nodes[frameID]; ok {
		r.list.Remove(el)
		delete(r.nodes, frameID)
	}
}

// Unpin marks frameID evictable, moving it to the most-recently-used end
// if it was already tracked. Unpin of a frame not already tracked is
// refused once the replacer holds capacity frames.
func (r *LRUReplacer) Unpin(frameID FrameID) {
	if el, ok := r.nodes[frameID]; ok {
		r.list.MoveToBack(el)
		return
	}
	if r.list.Len() >= r.capacity {
		return
	}
	r.nodes[frameID] = r.list.PushBack(frameID)
}

// Victim evicts the front of the list: the frame that has gone longest
// without being touched.
func (r *LRUReplacer) Victim() (FrameID, bool) {
	front := r.list.Front()
	if front == nil {
		return InvalidFrameID, false
	}
	frameID := front.Value.(FrameID)
	r.list.Remove(front)
	delete(r.nodes, frameID)
	return frameID, true
}

// Size reports the number of evictable frames.
func (r *LRUReplacer) Size() int {
	return r.list.Len()
}
