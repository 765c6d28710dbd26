package bplus

import (
	"encoding/binary"

	"DaemonDB/storage_engine/page"
	"DaemonDB/storage_engine/rid"
)

// node wraps a *page.Page with the common header every B+tree node
// (leaf or internal) shares, mirroring index_bptree.cpp's BPTreePage
// base class.
type node struct {
	pg      *page.Page
	keySize int
}

func (n node) content() []byte { return n.pg.Content() }

func (n node) kind() nodeKind { return nodeKind(n.content()[offNodeType]) }

func (n node) IsLeaf() bool { return n.kind() == kindLeaf }

func (n node) PageID() int64 { return n.pg.PageID }

func (n node) ParentPageID() int64 {
	return int64(binary.LittleEndian.Uint64(n.content()[offParentID:]))
}

func (n node) SetParentPageID(id int64) {
	binary.LittleEndian.PutUint64(n.content()[offParentID:], uint64(id))
	n.pg.IsDirty = true
}

func (n node) IsRoot() bool { return n.ParentPageID() == invalidPageID }

func (n node) Size() int {
	return int(int32(binary.LittleEndian.Uint32(n.content()[offSize:])))
}

func (n node) SetSize(size int) {
	binary.LittleEndian.PutUint32(n.content()[offSize:], uint32(int32(size)))
	n.pg.IsDirty = true
}

func (n node) MaxSize() int {
	return int(int32(binary.LittleEndian.Uint32(n.content()[offMaxSize:])))
}

func (n node) setMaxSize(size int) {
	binary.LittleEndian.PutUint32(n.content()[offMaxSize:], uint32(int32(size)))
	n.pg.IsDirty = true
}

// IsSafe reports whether this node can absorb (forInsert=true) or shed
// (forInsert=false) one entry without needing to split/coalesce,
// following BPTreePage::IsSafe: the minimum occupancy for a
// non-root node is half of MaxSize rounded up, for a root leaf 1 and
// for a root internal node 2.
func (n node) IsSafe(forInsert bool) bool {
	if forInsert {
		return n.Size() < n.MaxSize()
	}
	minSize := 2
	if n.IsRoot() {
		if n.IsLeaf() {
			minSize = 1
		} else {
			minSize = 2
		}
	} else {
		minSize = (n.MaxSize() + 1) / 2
	}
	return n.Size() > minSize
}

func (n node) setKind(k nodeKind) {
	n.content()[offNodeType] = byte(k)
	n.pg.IsDirty = true
}

func (n node) setPageID(id int64) {
	binary.LittleEndian.PutUint64(n.content()[offPageID:], uint64(id))
	n.pg.IsDirty = true
}

// initCommon stamps the shared header fields of a freshly allocated
// node.
func (n node) initCommon(k nodeKind, maxSize int) {
	n.setKind(k)
	n.setPageID(n.pg.PageID)
	n.SetParentPageID(invalidPageID)
	n.SetSize(0)
	n.setMaxSize(maxSize)
}

// --- leaf view -------------------------------------------------------

// leafNode is a B+tree leaf page: keys map directly to RIDs, and leaves
// are chained via NextPageID for ordered iteration (§4.4).
type leafNode struct{ node }

func newLeafView(pg *page.Page, keySize int) leafNode {
	return leafNode{node{pg: pg, keySize: keySize}}
}

func (n leafNode) Init(maxSize int) {
	n.initCommon(kindLeaf, maxSize)
	n.SetNextPageID(invalidPageID)
}

func (n leafNode) NextPageID() int64 {
	return int64(binary.LittleEndian.Uint64(n.content()[offNextPageID:]))
}

func (n leafNode) SetNextPageID(id int64) {
	binary.LittleEndian.PutUint64(n.content()[offNextPageID:], uint64(id))
	n.pg.IsDirty = true
}

func (n leafNode) keysOffset() int   { return leafHdrSize }
func (n leafNode) valuesOffset() int { return n.keysOffset() + (n.MaxSize()+1)*n.keySize }

func (n leafNode) KeyAt(i int) []byte {
	off := n.keysOffset() + i*n.keySize
	return n.content()[off : off+n.keySize]
}

func (n leafNode) SetKeyAt(i int, key []byte) {
	copy(n.KeyAt(i), key)
	n.pg.IsDirty = true
}

func (n leafNode) ValueAt(i int) rid.RID {
	off := n.valuesOffset() + i*ridSize
	return rid.Decode(n.content()[off : off+ridSize])
}

func (n leafNode) SetValueAt(i int, r rid.RID) {
	off := n.valuesOffset() + i*ridSize
	r.Encode(n.content()[off : off+ridSize])
	n.pg.IsDirty = true
}

// InsertAt shifts entries [i:size) right by one and writes key/value at
// index i, incrementing Size. Callers are responsible for verifying
// there is room (checked by the max-size accounting in insertion.go).
func (n leafNode) InsertAt(i int, key []byte, value rid.RID) {
	size := n.Size()
	for j := size; j > i; j-- {
		n.SetKeyAt(j, n.KeyAt(j-1))
		n.SetValueAt(j, n.ValueAt(j-1))
	}
	n.SetKeyAt(i, key)
	n.SetValueAt(i, value)
	n.SetSize(size + 1)
}

// RemoveAt deletes the entry at index i, shifting later entries left.
func (n leafNode) RemoveAt(i int) {
	size := n.Size()
	for j := i; j < size-1; j++ {
		n.SetKeyAt(j, n.KeyAt(j+1))
		n.SetValueAt(j, n.ValueAt(j+1))
	}
	n.SetSize(size - 1)
}

// --- internal view -----------------------------------------------------

// internalNode is a B+tree internal page: keys[1:size) are separators,
// children[0:size) are page ids, with the invariant keys[i] separating
// children[i-1] and children[i] (children[0] has no preceding key, so
// KeyAt(0) is unused/ignored, matching BPTreeInternalPage's convention).
type internalNode struct{ node }

func newInternalView(pg *page.Page, keySize int) internalNode {
	return internalNode{node{pg: pg, keySize: keySize}}
}

func (n internalNode) Init(maxSize int) {
	n.initCommon(kindInternal, maxSize)
}

func (n internalNode) keysOffset() int { return internalHdrSize }
func (n internalNode) childrenOffset() int {
	return n.keysOffset() + (n.MaxSize()+1)*n.keySize
}

func (n internalNode) KeyAt(i int) []byte {
	off := n.keysOffset() + i*n.keySize
	return n.content()[off : off+n.keySize]
}

func (n internalNode) SetKeyAt(i int, key []byte) {
	copy(n.KeyAt(i), key)
	n.pg.IsDirty = true
}

func (n internalNode) ValueAt(i int) int64 {
	off := n.childrenOffset() + i*childSize
	return int64(binary.LittleEndian.Uint64(n.content()[off : off+childSize]))
}

func (n internalNode) SetValueAt(i int, child int64) {
	off := n.childrenOffset() + i*childSize
	binary.LittleEndian.PutUint64(n.content()[off:off+childSize], uint64(child))
	n.pg.IsDirty = true
}

// PopulateNewRoot sets up a fresh root with a single separator key and
// two children.
func (n internalNode) PopulateNewRoot(leftChild int64, key []byte, rightChild int64) {
	n.SetValueAt(0, leftChild)
	n.SetKeyAt(1, key)
	n.SetValueAt(1, rightChild)
	n.SetSize(2)
}

// InsertNodeAfter inserts (key, child) immediately after the entry
// whose child page id is oldChild, shifting later entries right.
func (n internalNode) InsertNodeAfter(oldChild int64, key []byte, newChild int64) {
	size := n.Size()
	idx := 0
	for idx < size && n.ValueAt(idx) != oldChild {
		idx++
	}
	insertAt := idx + 1
	for j := size; j > insertAt; j-- {
		n.SetKeyAt(j, n.KeyAt(j-1))
		n.SetValueAt(j, n.ValueAt(j-1))
	}
	n.SetKeyAt(insertAt, key)
	n.SetValueAt(insertAt, newChild)
	n.SetSize(size + 1)
}

// RemoveAt deletes the entry at index i (key and child), shifting later
// entries left.
func (n internalNode) RemoveAt(i int) {
	size := n.Size()
	for j := i; j < size-1; j++ {
		n.SetKeyAt(j, n.KeyAt(j+1))
		n.SetValueAt(j, n.ValueAt(j+1))
	}
	n.SetSize(size - 1)
}

// ValueIndex returns the position of child page id v, or -1.
func (n internalNode) ValueIndex(v int64) int {
	for i := 0; i < n.Size(); i++ {
		if n.ValueAt(i) == v {
			return i
		}
	}
	return -1
}
