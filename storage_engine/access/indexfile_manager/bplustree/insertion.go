package bplus

import (
	"fmt"

	"DaemonDB/storage_engine/rid"
)

// Insert adds key -> value to the tree. Duplicate keys are permitted;
// a new entry is inserted at the key's lower-bound position among any
// existing equal keys, the same way the leaf's own Insert always does,
// giving duplicates a stable, insertion-defined order within the leaf.
func (t *BPTreeIndex) Insert(key []byte, value rid.RID) error {
	if len(key) != t.keySchema.RecordSize() {
		return fmt.Errorf("bptree: insert: key width %d does not match schema width %d", len(key), t.keySchema.RecordSize())
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	h, err := t.readHeader()
	if err != nil {
		return fmt.Errorf("bptree: insert: %w", err)
	}

	if h.rootPageID == invalidPageID {
		if err := t.startNewTree(key, value, h); err != nil {
			return fmt.Errorf("bptree: insert: %w", err)
		}
		return nil
	}

	leafID, err := t.findLeafPage(h.rootPageID, key, false)
	if err != nil {
		return fmt.Errorf("bptree: insert: %w", err)
	}
	leaf, err := t.fetchLeaf(leafID)
	if err != nil {
		return fmt.Errorf("bptree: insert: %w", err)
	}

	idx := leaf.KeyIndex(key)
	leaf.InsertAt(idx, key, value)

	if leaf.Size() > leaf.MaxSize() {
		if err := t.splitLeafAndInsertParent(leaf); err != nil {
			return fmt.Errorf("bptree: insert: %w", err)
		}
	} else {
		t.unpin(leafID, true)
	}

	h, err = t.readHeader()
	if err != nil {
		return fmt.Errorf("bptree: insert: %w", err)
	}
	h.numEntries++
	if err := t.writeHeader(h); err != nil {
		return fmt.Errorf("bptree: insert: %w", err)
	}
	return nil
}

// startNewTree allocates the very first leaf page and makes it the root.
func (t *BPTreeIndex) startNewTree(key []byte, value rid.RID, h indexHeader) error {
	pg, err := t.allocatePage()
	if err != nil {
		return err
	}
	leaf := newLeafView(pg, int(t.keySizeCached()))
	leaf.Init(int(h.leafMaxSize))
	leaf.InsertAt(0, key, value)
	t.unpin(pg.PageID, true)

	h, err = t.readHeader()
	if err != nil {
		return err
	}
	h.rootPageID = pg.PageID
	h.treeHeight = 1
	h.numEntries++
	return t.writeHeader(h)
}

// splitLeafAndInsertParent splits an overfull leaf in two and pushes the
// new leaf's first key up into the parent, creating a new root if leaf
// had none.
func (t *BPTreeIndex) splitLeafAndInsertParent(leaf leafNode) error {
	newPg, err := t.allocatePage()
	if err != nil {
		return err
	}
	newLeaf := newLeafView(newPg, int(t.keySizeCached()))
	newLeaf.Init(leaf.MaxSize())

	total := leaf.Size()
	splitPoint := (total + 1) / 2 // ceil: the larger half stays in leaf
	for i := splitPoint; i < total; i++ {
		newLeaf.SetKeyAt(i-splitPoint, leaf.KeyAt(i))
		newLeaf.SetValueAt(i-splitPoint, leaf.ValueAt(i))
	}
	newLeaf.SetSize(total - splitPoint)
	leaf.SetSize(splitPoint)

	newLeaf.SetNextPageID(leaf.NextPageID())
	leaf.SetNextPageID(newLeaf.PageID())
	newLeaf.SetParentPageID(leaf.ParentPageID())

	pushKey := append([]byte(nil), newLeaf.KeyAt(0)...)
	parentID := leaf.ParentPageID()

	if err := t.insertIntoParent(leaf.node, pushKey, newLeaf.node, parentID); err != nil {
		return err
	}
	t.unpin(leaf.PageID(), true)
	t.unpin(newLeaf.PageID(), true)
	return nil
}

// insertIntoParent links newN as old's right sibling one level up,
// creating a new root when old had no parent, and recursively splitting
// the parent if that insert overflows it. It leaves old and newN's
// parent-page-id fields correctly set but does not unpin them; the
// caller (the split routine that produced old/newN) owns that.
func (t *BPTreeIndex) insertIntoParent(old node, key []byte, newN node, parentID int64) error {
	if parentID == invalidPageID {
		h, err := t.readHeader()
		if err != nil {
			return err
		}
		rootPg, err := t.allocatePage()
		if err != nil {
			return err
		}
		root := newInternalView(rootPg, int(t.keySizeCached()))
		root.Init(int(h.internalMaxSize))
		root.PopulateNewRoot(old.PageID(), key, newN.PageID())
		old.SetParentPageID(root.PageID())
		newN.SetParentPageID(root.PageID())

		h, err = t.readHeader()
		if err != nil {
			t.unpin(root.PageID(), true)
			return err
		}
		h.rootPageID = root.PageID()
		h.treeHeight++
		if err := t.writeHeader(h); err != nil {
			t.unpin(root.PageID(), true)
			return err
		}
		t.unpin(root.PageID(), true)
		return nil
	}

	parent, err := t.fetchInternal(parentID)
	if err != nil {
		return err
	}
	newN.SetParentPageID(parentID)
	parent.InsertNodeAfter(old.PageID(), key, newN.PageID())

	if parent.Size() > parent.MaxSize() {
		return t.splitInternalAndInsertParent(parent)
	}
	t.unpin(parentID, true)
	return nil
}

// splitInternalAndInsertParent splits an overfull internal node, moving
// its upper half (including the separator that becomes the pushed-up
// key) into a new sibling and reparenting the children that moved.
func (t *BPTreeIndex) splitInternalAndInsertParent(in internalNode) error {
	newPg, err := t.allocatePage()
	if err != nil {
		return err
	}
	newIn := newInternalView(newPg, int(t.keySizeCached()))
	newIn.Init(in.MaxSize())

	total := in.Size()
	splitPoint := total / 2
	for i := splitPoint; i < total; i++ {
		newIn.SetKeyAt(i-splitPoint, in.KeyAt(i))
		newIn.SetValueAt(i-splitPoint, in.ValueAt(i))

		childPg, err := t.bufferPool.FetchPage(t.fileID, newIn.ValueAt(i-splitPoint))
		if err != nil {
			return err
		}
		child := node{pg: childPg, keySize: int(t.keySizeCached())}
		child.SetParentPageID(newIn.PageID())
		t.unpin(childPg.PageID, true)
	}
	newIn.SetSize(total - splitPoint)
	in.SetSize(splitPoint)
	newIn.SetParentPageID(in.ParentPageID())

	pushKey := append([]byte(nil), newIn.KeyAt(0)...)
	parentID := in.ParentPageID()

	if err := t.insertIntoParent(in.node, pushKey, newIn.node, parentID); err != nil {
		return err
	}
	t.unpin(in.PageID(), true)
	t.unpin(newIn.PageID(), true)
	return nil
}
