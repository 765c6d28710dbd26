package bplus

import (
	"fmt"

	"DaemonDB/storage_engine/schema"
)

// minSizeOf returns the minimum number of entries n may hold without
// needing to coalesce or redistribute, following BPTreePage::GetMinSize:
// a root leaf may shrink to 1 entry, a root internal node to 2 (one
// separator, two children), any other node to half its max size.
func minSizeOf(n node) int {
	if n.IsRoot() {
		if n.IsLeaf() {
			return 1
		}
		return 2
	}
	return (n.MaxSize() + 1) / 2
}

// Delete removes key from the tree, reporting whether it was present.
func (t *BPTreeIndex) Delete(key []byte) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h, err := t.readHeader()
	if err != nil {
		return false, fmt.Errorf("bptree: delete: %w", err)
	}
	if h.rootPageID == invalidPageID {
		return false, nil
	}

	leafID, err := t.findLeafPage(h.rootPageID, key, false)
	if err != nil {
		return false, fmt.Errorf("bptree: delete: %w", err)
	}
	leaf, err := t.fetchLeaf(leafID)
	if err != nil {
		return false, fmt.Errorf("bptree: delete: %w", err)
	}

	idx := leaf.KeyIndex(key)
	if idx >= leaf.Size() || schema.Compare(leaf.KeyAt(idx), key) != 0 {
		t.unpin(leafID, false)
		return false, nil
	}
	leaf.RemoveAt(idx)

	if err := t.coalesceOrRedistributeLeaf(leaf); err != nil {
		return false, fmt.Errorf("bptree: delete: %w", err)
	}

	h, err = t.readHeader()
	if err != nil {
		return true, fmt.Errorf("bptree: delete: %w", err)
	}
	h.numEntries--
	if err := t.writeHeader(h); err != nil {
		return true, fmt.Errorf("bptree: delete: %w", err)
	}
	return true, nil
}

// coalesceOrRedistributeLeaf restores leaf's invariant after it lost an
// entry: roots are simply left as-is (or emptied via adjustRoot),
// otherwise the leaf either merges with or borrows from a sibling.
func (t *BPTreeIndex) coalesceOrRedistributeLeaf(leaf leafNode) error {
	if leaf.IsRoot() {
		if leaf.Size() == 0 {
			return t.adjustRootEmpty()
		}
		t.unpin(leaf.PageID(), true)
		return nil
	}
	if leaf.Size() > minSizeOf(leaf.node) {
		t.unpin(leaf.PageID(), true)
		return nil
	}

	parent, err := t.fetchInternal(leaf.ParentPageID())
	if err != nil {
		return err
	}
	idx := parent.ValueIndex(leaf.PageID())
	if idx > 0 {
		// Merge/borrow with the left sibling.
		siblingID := parent.ValueAt(idx - 1)
		sibling, err := t.fetchLeaf(siblingID)
		if err != nil {
			return err
		}
		if sibling.Size()+leaf.Size() <= leaf.MaxSize() {
			mergeLeaves(sibling, leaf)
			parent.RemoveAt(idx)
			t.unpin(sibling.PageID(), true)
			t.freeNode(leaf.node)
			return t.coalesceOrRedistributeInternal(parent)
		}
		redistributeLeafFromLeft(sibling, leaf)
		parent.SetKeyAt(idx, leaf.KeyAt(0))
		t.unpin(sibling.PageID(), true)
		t.unpin(leaf.PageID(), true)
		t.unpin(parent.PageID(), true)
		return nil
	}

	siblingID := parent.ValueAt(idx + 1)
	sibling, err := t.fetchLeaf(siblingID)
	if err != nil {
		return err
	}
	if sibling.Size()+leaf.Size() <= leaf.MaxSize() {
		mergeLeaves(leaf, sibling)
		parent.RemoveAt(idx + 1)
		t.unpin(leaf.PageID(), true)
		t.freeNode(sibling.node)
		return t.coalesceOrRedistributeInternal(parent)
	}
	redistributeLeafFromRight(sibling, leaf)
	parent.SetKeyAt(idx+1, sibling.KeyAt(0))
	t.unpin(sibling.PageID(), true)
	t.unpin(leaf.PageID(), true)
	t.unpin(parent.PageID(), true)
	return nil
}

// mergeLeaves appends right's entries onto left and relinks the leaf
// chain, leaving right empty (the caller frees it).
func mergeLeaves(left, right leafNode) {
	base := left.Size()
	for i := 0; i < right.Size(); i++ {
		left.SetKeyAt(base+i, right.KeyAt(i))
		left.SetValueAt(base+i, right.ValueAt(i))
	}
	left.SetSize(base + right.Size())
	left.SetNextPageID(right.NextPageID())
}

// redistributeLeafFromLeft borrows the left sibling's last entry.
func redistributeLeafFromLeft(left, leaf leafNode) {
	last := left.Size() - 1
	leaf.InsertAt(0, left.KeyAt(last), left.ValueAt(last))
	left.RemoveAt(last)
}

// redistributeLeafFromRight borrows the right sibling's first entry.
func redistributeLeafFromRight(right, leaf leafNode) {
	leaf.InsertAt(leaf.Size(), right.KeyAt(0), right.ValueAt(0))
	right.RemoveAt(0)
}

// coalesceOrRedistributeInternal mirrors coalesceOrRedistributeLeaf for
// an internal node that lost an entry (from a child merge below it).
func (t *BPTreeIndex) coalesceOrRedistributeInternal(in internalNode) error {
	if in.IsRoot() {
		if in.Size() == 1 {
			return t.adjustRootSingleChild(in)
		}
		t.unpin(in.PageID(), true)
		return nil
	}
	if in.Size() > minSizeOf(in.node) {
		t.unpin(in.PageID(), true)
		return nil
	}

	parent, err := t.fetchInternal(in.ParentPageID())
	if err != nil {
		return err
	}
	idx := parent.ValueIndex(in.PageID())
	if idx > 0 {
		siblingID := parent.ValueAt(idx - 1)
		sibling, err := t.fetchInternal(siblingID)
		if err != nil {
			return err
		}
		if sibling.Size()+in.Size() <= in.MaxSize() {
			if err := t.mergeInternal(sibling, in, parent.KeyAt(idx)); err != nil {
				return err
			}
			parent.RemoveAt(idx)
			t.unpin(sibling.PageID(), true)
			t.freeNode(in.node)
			return t.coalesceOrRedistributeInternal(parent)
		}
		if err := t.redistributeInternalFromLeft(sibling, in, parent, idx); err != nil {
			return err
		}
		t.unpin(sibling.PageID(), true)
		t.unpin(in.PageID(), true)
		t.unpin(parent.PageID(), true)
		return nil
	}

	siblingID := parent.ValueAt(idx + 1)
	sibling, err := t.fetchInternal(siblingID)
	if err != nil {
		return err
	}
	if sibling.Size()+in.Size() <= in.MaxSize() {
		if err := t.mergeInternal(in, sibling, parent.KeyAt(idx+1)); err != nil {
			return err
		}
		parent.RemoveAt(idx + 1)
		t.unpin(in.PageID(), true)
		t.freeNode(sibling.node)
		return t.coalesceOrRedistributeInternal(parent)
	}
	if err := t.redistributeInternalFromRight(sibling, in, parent, idx); err != nil {
		return err
	}
	t.unpin(sibling.PageID(), true)
	t.unpin(in.PageID(), true)
	t.unpin(parent.PageID(), true)
	return nil
}

// mergeInternal folds right into left, pulling the separator key down
// from the parent between them, and reparents right's children.
func (t *BPTreeIndex) mergeInternal(left, right internalNode, parentSeparator []byte) error {
	base := left.Size()
	left.SetKeyAt(base, parentSeparator)
	left.SetValueAt(base, right.ValueAt(0))
	for i := 1; i < right.Size(); i++ {
		left.SetKeyAt(base+i, right.KeyAt(i))
		left.SetValueAt(base+i, right.ValueAt(i))
	}
	left.SetSize(base + right.Size())
	for i := base; i < left.Size(); i++ {
		if err := t.reparentChild(left.ValueAt(i), left.PageID()); err != nil {
			return err
		}
	}
	return nil
}

func (t *BPTreeIndex) redistributeInternalFromLeft(left, in, parent internalNode, inIdx int) error {
	lastKey := append([]byte(nil), left.KeyAt(left.Size()-1)...)
	lastChild := left.ValueAt(left.Size() - 1)
	left.RemoveAt(left.Size() - 1)

	for j := in.Size(); j > 0; j-- {
		in.SetKeyAt(j, in.KeyAt(j-1))
		in.SetValueAt(j, in.ValueAt(j-1))
	}
	in.SetKeyAt(1, parent.KeyAt(inIdx))
	in.SetValueAt(0, lastChild)
	in.SetSize(in.Size() + 1)
	parent.SetKeyAt(inIdx, lastKey)
	return t.reparentChild(lastChild, in.PageID())
}

func (t *BPTreeIndex) redistributeInternalFromRight(right, in, parent internalNode, inIdx int) error {
	firstKey := append([]byte(nil), right.KeyAt(1)...)
	firstChild := right.ValueAt(0)
	right.RemoveAt(0)

	in.SetValueAt(in.Size(), firstChild)
	in.SetKeyAt(in.Size(), parent.KeyAt(inIdx+1))
	in.SetSize(in.Size() + 1)
	parent.SetKeyAt(inIdx+1, firstKey)
	return t.reparentChild(firstChild, in.PageID())
}

func (t *BPTreeIndex) reparentChild(childID int64, newParentID int64) error {
	pg, err := t.bufferPool.FetchPage(t.fileID, childID)
	if err != nil {
		return err
	}
	child := node{pg: pg, keySize: int(t.keySizeCached())}
	child.SetParentPageID(newParentID)
	t.unpin(childID, true)
	return nil
}

// freeNode returns n's page to the free-page chain; n remains resident
// and pinned once (from the fetch that produced it) until this call,
// which also releases that pin.
func (t *BPTreeIndex) freeNode(n node) error {
	if err := t.freePage(n.pg); err != nil {
		return err
	}
	t.unpin(n.PageID(), true)
	return nil
}

// adjustRootEmpty handles the root leaf becoming empty: the tree is now
// empty.
func (t *BPTreeIndex) adjustRootEmpty() error {
	h, err := t.readHeader()
	if err != nil {
		return err
	}
	rootID := h.rootPageID
	pg, err := t.bufferPool.FetchPage(t.fileID, rootID)
	if err != nil {
		return err
	}
	if err := t.freePage(pg); err != nil {
		t.unpin(rootID, true)
		return err
	}
	t.unpin(rootID, true)

	h, err = t.readHeader()
	if err != nil {
		return err
	}
	h.rootPageID = invalidPageID
	h.treeHeight = 0
	return t.writeHeader(h)
}

// adjustRootSingleChild handles an internal root left with exactly one
// child: that child becomes the new root, shrinking the tree's height.
func (t *BPTreeIndex) adjustRootSingleChild(in internalNode) error {
	onlyChild := in.ValueAt(0)
	if err := t.reparentChild(onlyChild, invalidPageID); err != nil {
		return err
	}
	if err := t.freePage(in.pg); err != nil {
		return err
	}
	t.unpin(in.PageID(), true)

	h, err := t.readHeader()
	if err != nil {
		return err
	}
	h.rootPageID = onlyChild
	h.treeHeight--
	return t.writeHeader(h)
}
