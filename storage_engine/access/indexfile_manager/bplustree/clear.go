package bplus

import "fmt"

// Clear frees every page owned by the tree and resets it to empty,
// leaving the header page and key schema intact.
func (t *BPTreeIndex) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	h, err := t.readHeader()
	if err != nil {
		return fmt.Errorf("bptree: clear: %w", err)
	}
	if h.rootPageID != invalidPageID {
		if err := t.clearSubtree(h.rootPageID); err != nil {
			return fmt.Errorf("bptree: clear: %w", err)
		}
	}

	h, err = t.readHeader()
	if err != nil {
		return fmt.Errorf("bptree: clear: %w", err)
	}
	h.rootPageID = invalidPageID
	h.treeHeight = 0
	h.numEntries = 0
	return t.writeHeader(h)
}

func (t *BPTreeIndex) clearSubtree(pageID int64) error {
	pg, err := t.bufferPool.FetchPage(t.fileID, pageID)
	if err != nil {
		return err
	}
	n := node{pg: pg, keySize: int(t.keySizeCached())}

	var children []int64
	if !n.IsLeaf() {
		in := internalNode{n}
		children = make([]int64, in.Size())
		for i := 0; i < in.Size(); i++ {
			children[i] = in.ValueAt(i)
		}
	}

	if err := t.freePage(pg); err != nil {
		t.unpin(pageID, true)
		return err
	}
	t.unpin(pageID, true)

	for _, c := range children {
		if err := t.clearSubtree(c); err != nil {
			return err
		}
	}
	return nil
}
