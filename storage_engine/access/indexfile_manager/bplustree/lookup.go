package bplus

// KeyIndex returns the index of the first key >= target among this
// leaf's entries (may equal Size() if none).
func (n leafNode) KeyIndex(target []byte) int {
	return lowerBound(n.Size(), n.KeyAt, target)
}

// Lookup descends to the child that would contain key: the last child
// whose separator is <= key, following BPTreeInternalPage::Lookup.
// Separator keys live at indices [1, Size()), each pairing with the
// child at the same index.
func (n internalNode) Lookup(key []byte) int64 {
	m := n.Size() - 1
	idx := upperBound(m, func(i int) []byte { return n.KeyAt(i + 1) }, key)
	return n.ValueAt(idx)
}
