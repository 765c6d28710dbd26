// Package scan implements the index-scan cursor (§4.6): given a table,
// one of its indexes, a conjunction of column/value predicates, and a
// direction, it narrows the predicates to a single [low, high] range
// over the index's key schema, resolves that range through the index's
// SearchRange, and walks the resulting RIDs back through the table
// handle to yield full records in order.
package scan

import (
	"fmt"

	heapfile "DaemonDB/storage_engine/access/heapfile_manager"
	bplus "DaemonDB/storage_engine/access/indexfile_manager/bplustree"
	"DaemonDB/storage_engine/rid"
	"DaemonDB/storage_engine/schema"
)

// Op is a single-column comparison operator a predicate is built from.
type Op int

const (
	Eq Op = iota
	Gt
	Ge
	Lt
	Le
)

// Condition is one column/value predicate in the scan's conjunction.
// Value must already be encoded to the column's fixed field width (the
// same encoding schema.Field expects for that column).
type Condition struct {
	Column string
	Op     Op
	Value  []byte
}

// Cursor walks tbl's records in index order, restricted to the range
// implied by conds, in ascending or descending direction.
type Cursor struct {
	tbl          *heapfile.TableHeap
	idx          *bplus.BPTreeIndex
	recordSchema *schema.Schema
	conds        []Condition
	ascending    bool
	keyFields    []int // recordSchema field index of each key-schema column, by name

	rids       []rid.RID
	startIdx   int
	endIdx     int
	currentIdx int
}

// New builds a scan cursor over tbl via idx. recordSchema is the
// table's full row schema, used to locate each of the index's key
// columns within a fetched record for the exclusive-endpoint check
// (§4.6 step 3).
func New(tbl *heapfile.TableHeap, idx *bplus.BPTreeIndex, recordSchema *schema.Schema, conds []Condition, ascending bool) (*Cursor, error) {
	keySchema := idx.KeySchema()
	keyFields := make([]int, len(keySchema.Fields))
	for i, f := range keySchema.Fields {
		fi, err := recordSchema.FieldIndex(f.Name)
		if err != nil {
			return nil, fmt.Errorf("scan: index key column %q not found in table schema: %w", f.Name, err)
		}
		keyFields[i] = fi
	}
	return &Cursor{tbl: tbl, idx: idx, recordSchema: recordSchema, conds: conds, ascending: ascending, keyFields: keyFields}, nil
}

// extractKey pulls the index's key columns out of a full record, in
// key-schema field order, reading each column's bytes at its offset
// within the table's own record schema.
func (c *Cursor) extractKey(record []byte) []byte {
	keySchema := c.idx.KeySchema()
	key := make([]byte, 0, keySchema.RecordSize())
	for _, fi := range c.keyFields {
		key = append(key, c.recordSchema.FieldBytes(record, fi)...)
	}
	return key
}

// generateRangeKeys builds the [low, high] key bounds implied by conds,
// per §4.6 step 1: walk key columns in order, tightening low/high as
// equalities and one-sided bounds are found, stopping prefix processing
// at the first column with no matching equality.
func (c *Cursor) generateRangeKeys() (low, high []byte, exclusiveLow, exclusiveHigh bool) {
	keySchema := c.idx.KeySchema()
	lowVals := make([][]byte, len(keySchema.Fields))
	highVals := make([][]byte, len(keySchema.Fields))
	for i, f := range keySchema.Fields {
		lowVals[i] = minValue(f)
		highVals[i] = maxValue(f)
	}

columns:
	for i, f := range keySchema.Fields {
		found := false
		bounded := false
		for _, cond := range c.conds {
			if cond.Column != f.Name {
				continue
			}
			switch cond.Op {
			case Eq:
				lowVals[i] = cond.Value
				highVals[i] = cond.Value
				found = true
			case Ge, Gt:
				lowVals[i] = cond.Value
				exclusiveLow = cond.Op == Gt
				found = true
				bounded = true
			case Le, Lt:
				highVals[i] = cond.Value
				exclusiveHigh = cond.Op == Lt
				found = true
				bounded = true
			}
		}
		if !found {
			break
		}
		if bounded {
			break columns
		}
	}

	low = concat(lowVals)
	high = concat(highVals)
	return low, high, exclusiveLow, exclusiveHigh
}

func minValue(f schema.Field) []byte {
	return make([]byte, f.Size)
}

func maxValue(f schema.Field) []byte {
	v := make([]byte, f.Size)
	for i := range v {
		v[i] = 0xFF
	}
	return v
}

func concat(parts [][]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Init materializes the range and positions the cursor at its first
// record, per §4.6 steps 2-5.
func (c *Cursor) Init() error {
	low, high, exclusiveLow, exclusiveHigh := c.generateRangeKeys()

	rids, err := c.idx.SearchRange(low, high)
	if err != nil {
		return fmt.Errorf("scan: search range: %w", err)
	}
	c.rids = rids
	c.startIdx = 0
	c.endIdx = len(rids)

	if exclusiveLow && len(rids) > 0 {
		rec, err := c.tbl.GetRecord(rids[0])
		if err != nil {
			return fmt.Errorf("scan: resolve low bound: %w", err)
		}
		if schema.Compare(c.extractKey(rec), low) == 0 {
			c.startIdx = 1
		}
	}
	if exclusiveHigh && len(rids) > 0 && c.endIdx > c.startIdx {
		rec, err := c.tbl.GetRecord(rids[c.endIdx-1])
		if err != nil {
			return fmt.Errorf("scan: resolve high bound: %w", err)
		}
		if schema.Compare(c.extractKey(rec), high) == 0 {
			c.endIdx--
		}
	}

	if !c.ascending {
		reverse(c.rids[c.startIdx:c.endIdx])
	}

	c.currentIdx = c.startIdx
	return nil
}

func reverse(s []rid.RID) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// IsEnd reports whether the cursor has exhausted the trimmed range.
func (c *Cursor) IsEnd() bool {
	return c.currentIdx >= c.endIdx
}

// Next advances to the following record in the trimmed, direction-
// adjusted RID slice.
func (c *Cursor) Next() {
	c.currentIdx++
}

// RID returns the RID the cursor currently points at.
func (c *Cursor) RID() rid.RID {
	return c.rids[c.currentIdx]
}

// Record resolves the cursor's current RID to its full row.
func (c *Cursor) Record() ([]byte, error) {
	rec, err := c.tbl.GetRecord(c.RID())
	if err != nil {
		return nil, fmt.Errorf("scan: resolve current record: %w", err)
	}
	return rec, nil
}
