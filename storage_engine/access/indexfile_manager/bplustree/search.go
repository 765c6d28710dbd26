package bplus

import (
	"fmt"

	"DaemonDB/storage_engine/rid"
	"DaemonDB/storage_engine/schema"
)

// Search returns every RID stored under key, in leaf-chain order, or an
// empty slice if key is absent. Duplicate keys are permitted, so this
// descends to the leftmost leaf that may hold key and scans forward from
// key's lower-bound position for as long as entries keep comparing
// equal, following the leaf chain across a page boundary if a run of
// duplicates was split across two leaves. Within one leaf a newer
// duplicate sits ahead of the older ones it was inserted next to.
func (t *BPTreeIndex) Search(key []byte) ([]rid.RID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h, err := t.readHeader()
	if err != nil {
		return nil, fmt.Errorf("bptree: search: %w", err)
	}
	if h.rootPageID == invalidPageID {
		return nil, nil
	}

	leafID, err := t.findLeafPageLowerBound(h.rootPageID, key)
	if err != nil {
		return nil, fmt.Errorf("bptree: search: %w", err)
	}

	var out []rid.RID
	for leafID != invalidPageID {
		leaf, err := t.fetchLeaf(leafID)
		if err != nil {
			return out, fmt.Errorf("bptree: search: %w", err)
		}
		i := leaf.KeyIndex(key)
		stop := false
		for ; i < leaf.Size(); i++ {
			if schema.Compare(leaf.KeyAt(i), key) != 0 {
				stop = true
				break
			}
			out = append(out, leaf.ValueAt(i))
		}
		next := leaf.NextPageID()
		t.unpin(leafID, false)
		if stop {
			break
		}
		leafID = next
	}
	return out, nil
}

// SearchRange returns every RID whose key falls in [low, high], walking
// the leaf chain starting from the leftmost leaf that may contain low.
func (t *BPTreeIndex) SearchRange(low, high []byte) ([]rid.RID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h, err := t.readHeader()
	if err != nil {
		return nil, fmt.Errorf("bptree: search range: %w", err)
	}
	if h.rootPageID == invalidPageID {
		return nil, nil
	}

	leafID, err := t.findLeafPageLowerBound(h.rootPageID, low)
	if err != nil {
		return nil, fmt.Errorf("bptree: search range: %w", err)
	}

	var out []rid.RID
	for leafID != invalidPageID {
		leaf, err := t.fetchLeaf(leafID)
		if err != nil {
			return out, fmt.Errorf("bptree: search range: %w", err)
		}
		i := leaf.KeyIndex(low)
		stop := false
		for ; i < leaf.Size(); i++ {
			k := leaf.KeyAt(i)
			if schema.Compare(k, high) > 0 {
				stop = true
				break
			}
			out = append(out, leaf.ValueAt(i))
		}
		next := leaf.NextPageID()
		t.unpin(leafID, false)
		if stop {
			break
		}
		leafID = next
	}
	return out, nil
}
