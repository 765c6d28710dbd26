package bplus

// findLeafPage descends from root to the leaf that contains (or would
// contain) key, following BPTreeIndex::FindLeafPage. When leftMost is
// true the descent always takes the first child, used to find the very
// first leaf for iteration (Begin()).
func (t *BPTreeIndex) findLeafPage(root int64, key []byte, leftMost bool) (int64, error) {
	cur := root
	keySize := int(t.keySizeCached())
	for {
		pg, err := t.bufferPool.FetchPage(t.fileID, cur)
		if err != nil {
			return invalidPageID, err
		}
		n := node{pg: pg, keySize: keySize}
		if n.IsLeaf() {
			t.unpin(cur, false)
			return cur, nil
		}
		in := internalNode{n}
		var next int64
		if leftMost {
			next = in.ValueAt(0)
		} else {
			next = in.Lookup(key)
		}
		t.unpin(cur, false)
		cur = next
	}
}

// findLeafPageLowerBound descends from root to the leftmost leaf that may
// hold key: at a separator equal to key it takes the child on the left,
// where earlier duplicates of key may sit.
func (t *BPTreeIndex) findLeafPageLowerBound(root int64, key []byte) (int64, error) {
	cur := root
	for {
		in, err := t.fetchInternal(cur)
		if err != nil {
			return invalidPageID, err
		}
		if in.IsLeaf() {
			t.unpin(cur, false)
			return cur, nil
		}
		next := in.ValueAt(lowerBound(in.Size()-1, func(i int) []byte { return in.KeyAt(i + 1) }, key))
		t.unpin(cur, false)
		cur = next
	}
}
