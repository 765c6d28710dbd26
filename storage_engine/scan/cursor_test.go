package scan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	heapfile "DaemonDB/storage_engine/access/heapfile_manager"
	bplus "DaemonDB/storage_engine/access/indexfile_manager/bplustree"
	"DaemonDB/storage_engine/bufferpool"
	diskmanager "DaemonDB/storage_engine/disk_manager"
	"DaemonDB/storage_engine/rid"
	"DaemonDB/storage_engine/schema"
)

func recordSchema() *schema.Schema {
	return schema.New(
		schema.Field{Name: "id", Type: schema.Uint64},
		schema.Field{Name: "tag", Type: schema.FixedBytes, Size: 8},
	)
}

func keySchema() *schema.Schema {
	return schema.New(schema.Field{Name: "id", Type: schema.Uint64})
}

func setupFixture(t *testing.T, n int) (*heapfile.TableHeap, *bplus.BPTreeIndex) {
	t.Helper()
	dir := t.TempDir()
	dm := diskmanager.New()
	bp := bufferpool.New(64, dm, "LRU", 0)

	tableFileID, err := dm.OpenFile(filepath.Join(dir, "rows.heap"))
	require.NoError(t, err)
	tbl, err := heapfile.Open(tableFileID, bp, recordSchema(), heapfile.NARY)
	require.NoError(t, err)

	indexFileID, err := dm.OpenFile(filepath.Join(dir, "rows_primary.idx"))
	require.NoError(t, err)
	idx, err := bplus.Open(indexFileID, bp, keySchema(), true)
	require.NoError(t, err)

	rs := recordSchema()
	for i := 0; i < n; i++ {
		buf := make([]byte, rs.RecordSize())
		rs.EncodeUint64(buf, 0, uint64(i))
		rs.EncodeFixedBytes(buf, 1, []byte("x"))
		r, err := tbl.InsertRecord(buf)
		require.NoError(t, err)

		key := make([]byte, 8)
		keySchema().EncodeUint64(key, 0, uint64(i))
		require.NoError(t, idx.Insert(key, r))
	}
	return tbl, idx
}

func eqCond(v uint64) Condition {
	buf := make([]byte, 8)
	keySchema().EncodeUint64(buf, 0, v)
	return Condition{Column: "id", Op: Eq, Value: buf}
}

func boundCond(op Op, v uint64) Condition {
	buf := make([]byte, 8)
	keySchema().EncodeUint64(buf, 0, v)
	return Condition{Column: "id", Op: op, Value: buf}
}

func collectIDs(t *testing.T, c *Cursor) []uint64 {
	t.Helper()
	rs := recordSchema()
	var out []uint64
	for !c.IsEnd() {
		rec, err := c.Record()
		require.NoError(t, err)
		out = append(out, rs.DecodeUint64(rec, 0))
		c.Next()
	}
	return out
}

func TestFullScanAscendingVisitsAllInOrder(t *testing.T) {
	tbl, idx := setupFixture(t, 10)
	c, err := New(tbl, idx, recordSchema(), nil, true)
	require.NoError(t, err)
	require.NoError(t, c.Init())
	require.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, collectIDs(t, c))
}

func TestFullScanDescendingReversesOrder(t *testing.T) {
	tbl, idx := setupFixture(t, 5)
	c, err := New(tbl, idx, recordSchema(), nil, false)
	require.NoError(t, err)
	require.NoError(t, c.Init())
	require.Equal(t, []uint64{4, 3, 2, 1, 0}, collectIDs(t, c))
}

func TestEqualityPredicateReturnsSingleRow(t *testing.T) {
	tbl, idx := setupFixture(t, 10)
	c, err := New(tbl, idx, recordSchema(), []Condition{eqCond(4)}, true)
	require.NoError(t, err)
	require.NoError(t, c.Init())
	require.Equal(t, []uint64{4}, collectIDs(t, c))
}

func TestInclusiveRangeIncludesEndpoints(t *testing.T) {
	tbl, idx := setupFixture(t, 10)
	conds := []Condition{boundCond(Ge, 2), boundCond(Le, 5)}
	c, err := New(tbl, idx, recordSchema(), conds, true)
	require.NoError(t, err)
	require.NoError(t, c.Init())
	require.Equal(t, []uint64{2, 3, 4, 5}, collectIDs(t, c))
}

func TestExclusiveRangeTrimsEndpoints(t *testing.T) {
	tbl, idx := setupFixture(t, 10)
	conds := []Condition{boundCond(Gt, 2), boundCond(Lt, 5)}
	c, err := New(tbl, idx, recordSchema(), conds, true)
	require.NoError(t, err)
	require.NoError(t, c.Init())
	require.Equal(t, []uint64{3, 4}, collectIDs(t, c))
}

func TestOneSidedLowerBoundOpenEnded(t *testing.T) {
	tbl, idx := setupFixture(t, 6)
	conds := []Condition{boundCond(Ge, 3)}
	c, err := New(tbl, idx, recordSchema(), conds, true)
	require.NoError(t, err)
	require.NoError(t, c.Init())
	require.Equal(t, []uint64{3, 4, 5}, collectIDs(t, c))
}

func TestEmptyRangeYieldsNoRows(t *testing.T) {
	tbl, idx := setupFixture(t, 4)
	conds := []Condition{boundCond(Ge, 100)}
	c, err := New(tbl, idx, recordSchema(), conds, true)
	require.NoError(t, err)
	require.NoError(t, c.Init())
	require.Empty(t, collectIDs(t, c))
}

func TestRIDMatchesUnderlyingInsertOrder(t *testing.T) {
	tbl, idx := setupFixture(t, 3)
	c, err := New(tbl, idx, recordSchema(), []Condition{eqCond(1)}, true)
	require.NoError(t, err)
	require.NoError(t, c.Init())
	require.False(t, c.IsEnd())
	got := c.RID()
	require.NotEqual(t, rid.Invalid, got)
	require.Equal(t, rid.RID{PageID: 1, SlotID: 1}, got)
}
