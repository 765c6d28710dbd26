package bplus

import (
	"fmt"

	"DaemonDB/storage_engine/rid"
	"DaemonDB/storage_engine/schema"
)

// Iterator walks leaf entries in key order, crossing leaf-chain
// boundaries transparently. It does not hold any page pinned between
// calls; each step fetches and unpins its leaf, so the tree may be
// mutated by other callers between Next() calls (this index carries no
// isolation guarantee beyond the coarse per-call locking of §5).
type Iterator struct {
	t      *BPTreeIndex
	leafID int64
	idx    int
	high   []byte
	done   bool
}

// Begin returns an iterator positioned at the first entry in the tree.
func (t *BPTreeIndex) Begin() (*Iterator, error) {
	return t.BeginAt(t.keySchema.MinKey())
}

// BeginAt returns an iterator positioned at the first entry whose key is
// >= key.
func (t *BPTreeIndex) BeginAt(key []byte) (*Iterator, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h, err := t.readHeader()
	if err != nil {
		return nil, fmt.Errorf("bptree: begin: %w", err)
	}
	if h.rootPageID == invalidPageID {
		return &Iterator{done: true}, nil
	}
	leftMost := len(key) == 0
	if leftMost {
		key = t.keySchema.MinKey()
	}
	leafID, err := t.findLeafPageLowerBound(h.rootPageID, key)
	if err != nil {
		return nil, fmt.Errorf("bptree: begin: %w", err)
	}
	it := &Iterator{t: t, leafID: leafID, high: t.keySchema.MaxKey()}
	if err := it.seek(key); err != nil {
		return nil, fmt.Errorf("bptree: begin: %w", err)
	}
	return it, nil
}

// seek positions the iterator at the first entry >= key within the
// current leaf, advancing across leaf boundaries if the leaf is
// exhausted.
func (it *Iterator) seek(key []byte) error {
	for {
		leaf, err := it.t.fetchLeaf(it.leafID)
		if err != nil {
			return err
		}
		i := leaf.KeyIndex(key)
		next := leaf.NextPageID()
		size := leaf.Size()
		it.t.unpin(it.leafID, false)

		if i < size {
			it.idx = i
			return nil
		}
		if next == invalidPageID {
			it.done = true
			return nil
		}
		it.leafID = next
	}
}

// IsValid reports whether Key/RID may be called.
func (it *Iterator) IsValid() bool { return !it.done }

// Key returns the key at the iterator's current position.
func (it *Iterator) Key() ([]byte, error) {
	if it.done {
		return nil, fmt.Errorf("bptree: iterator: %w", ErrKeyNotFound)
	}
	leaf, err := it.t.fetchLeaf(it.leafID)
	if err != nil {
		return nil, err
	}
	defer it.t.unpin(it.leafID, false)
	return append([]byte(nil), leaf.KeyAt(it.idx)...), nil
}

// RID returns the value at the iterator's current position.
func (it *Iterator) RID() (rid.RID, error) {
	if it.done {
		return rid.Invalid, fmt.Errorf("bptree: iterator: %w", ErrKeyNotFound)
	}
	leaf, err := it.t.fetchLeaf(it.leafID)
	if err != nil {
		return rid.Invalid, err
	}
	defer it.t.unpin(it.leafID, false)
	return leaf.ValueAt(it.idx), nil
}

// Next advances the iterator by one entry, crossing into the next leaf
// when the current one is exhausted. It marks the iterator done at the
// end of the leaf chain or once the key it lands on is greater than the
// iterator's upper bound (the key schema's MaxKey, as set by BeginAt).
func (it *Iterator) Next() error {
	if it.done {
		return nil
	}
	leaf, err := it.t.fetchLeaf(it.leafID)
	if err != nil {
		return err
	}
	size := leaf.Size()
	next := leaf.NextPageID()
	it.idx++
	if it.idx < size {
		if it.high != nil && schema.Compare(leaf.KeyAt(it.idx), it.high) > 0 {
			it.done = true
		}
		it.t.unpin(it.leafID, false)
		return nil
	}
	it.t.unpin(it.leafID, false)
	if next == invalidPageID {
		it.done = true
		return nil
	}
	it.leafID = next
	it.idx = 0
	nextLeaf, err := it.t.fetchLeaf(it.leafID)
	if err != nil {
		return err
	}
	empty := nextLeaf.Size() == 0
	var firstKey []byte
	if !empty {
		firstKey = nextLeaf.KeyAt(0)
	}
	it.t.unpin(it.leafID, false)
	if empty {
		it.done = true
	} else if it.high != nil && schema.Compare(firstKey, it.high) > 0 {
		it.done = true
	}
	return nil
}
