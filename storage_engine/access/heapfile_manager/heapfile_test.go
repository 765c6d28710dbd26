package heapfile

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"DaemonDB/storage_engine/bufferpool"
	diskmanager "DaemonDB/storage_engine/disk_manager"
	"DaemonDB/storage_engine/rid"
	"DaemonDB/storage_engine/schema"
)

func testSchema() *schema.Schema {
	return schema.New(
		schema.Field{Name: "id", Type: schema.Uint64},
		schema.Field{Name: "tag", Type: schema.FixedBytes, Size: 16},
	)
}

func newTestHeap(t *testing.T, model StorageModel) *TableHeap {
	t.Helper()
	dir := t.TempDir()
	dm := diskmanager.New()
	fileID, err := dm.OpenFile(filepath.Join(dir, "table.heap"))
	require.NoError(t, err)
	bp := bufferpool.New(32, dm, "LRU", 0)
	th, err := Open(fileID, bp, testSchema(), model)
	require.NoError(t, err)
	return th
}

func recordOf(sc *schema.Schema, id uint64, tag string) []byte {
	buf := make([]byte, sc.RecordSize())
	sc.EncodeUint64(buf, 0, id)
	sc.EncodeFixedBytes(buf, 1, []byte(tag))
	return buf
}

func TestInsertThenGetRoundTripsNary(t *testing.T) {
	th := newTestHeap(t, NARY)
	sc := testSchema()
	r, err := th.InsertRecord(recordOf(sc, 7, "hello"))
	require.NoError(t, err)

	got, err := th.GetRecord(r)
	require.NoError(t, err)
	require.EqualValues(t, 7, sc.DecodeUint64(got, 0))
}

func TestInsertThenGetRoundTripsPax(t *testing.T) {
	th := newTestHeap(t, PAX)
	sc := testSchema()
	r, err := th.InsertRecord(recordOf(sc, 42, "world"))
	require.NoError(t, err)

	got, err := th.GetRecord(r)
	require.NoError(t, err)
	require.EqualValues(t, 42, sc.DecodeUint64(got, 0))
	require.Equal(t, []byte("world\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"), sc.FieldBytes(got, 1))
}

func TestGetRecordOnDeletedSlotFails(t *testing.T) {
	th := newTestHeap(t, NARY)
	sc := testSchema()
	r, err := th.InsertRecord(recordOf(sc, 1, "x"))
	require.NoError(t, err)
	require.NoError(t, th.DeleteRecord(r))

	_, err = th.GetRecord(r)
	require.ErrorIs(t, err, ErrRecordMiss)
}

func TestInsertFillsPageThenAllocatesNext(t *testing.T) {
	th := newTestHeap(t, NARY)
	sc := testSchema()
	slotsPerPage := th.slotsPerPage

	var rids []rid.RID
	for i := 0; i < slotsPerPage+5; i++ {
		r, err := th.InsertRecord(recordOf(sc, uint64(i), "x"))
		require.NoError(t, err)
		rids = append(rids, r)
	}

	seenPages := map[int64]bool{}
	for _, r := range rids {
		seenPages[r.PageID] = true
	}
	require.GreaterOrEqual(t, len(seenPages), 2)

	size, err := th.Size()
	require.NoError(t, err)
	require.EqualValues(t, slotsPerPage+5, size)
}

func TestStatsReportsRecordAndPageCounts(t *testing.T) {
	th := newTestHeap(t, NARY)
	sc := testSchema()
	slotsPerPage := th.slotsPerPage

	var rids []rid.RID
	for i := 0; i < slotsPerPage+3; i++ {
		r, err := th.InsertRecord(recordOf(sc, uint64(i), "x"))
		require.NoError(t, err)
		rids = append(rids, r)
	}
	require.NoError(t, th.DeleteRecord(rids[0]))

	stats, err := th.Stats()
	require.NoError(t, err)
	require.EqualValues(t, slotsPerPage+2, stats.RecordNum)
	require.EqualValues(t, 2, stats.PageNum)
	require.GreaterOrEqual(t, stats.FreeChainLength, int64(1))
}

func TestDeleteThenInsertReusesFreedSlot(t *testing.T) {
	th := newTestHeap(t, NARY)
	sc := testSchema()
	slotsPerPage := th.slotsPerPage

	var rids []rid.RID
	for i := 0; i < slotsPerPage; i++ {
		r, err := th.InsertRecord(recordOf(sc, uint64(i), "x"))
		require.NoError(t, err)
		rids = append(rids, r)
	}
	// Page is now full and unlinked from the free chain.
	require.NoError(t, th.DeleteRecord(rids[0]))
	// Deleting from a full page re-links it, so the very next insert
	// should land back on the same page at the freed slot.
	r, err := th.InsertRecord(recordOf(sc, 999, "reused"))
	require.NoError(t, err)
	require.Equal(t, rids[0], r)
}

func TestInsertRecordAtFailsWhenOccupied(t *testing.T) {
	th := newTestHeap(t, NARY)
	sc := testSchema()
	r, err := th.InsertRecord(recordOf(sc, 1, "x"))
	require.NoError(t, err)

	err = th.InsertRecordAt(r, recordOf(sc, 2, "y"))
	require.ErrorIs(t, err, ErrSlotOccupied)
}

func TestUpdateRecordOverwritesInPlace(t *testing.T) {
	th := newTestHeap(t, PAX)
	sc := testSchema()
	r, err := th.InsertRecord(recordOf(sc, 1, "old"))
	require.NoError(t, err)

	require.NoError(t, th.UpdateRecord(r, recordOf(sc, 1, "newval")))
	got, err := th.GetRecord(r)
	require.NoError(t, err)
	require.Equal(t, recordOf(sc, 1, "newval"), got)
}

func TestScanVisitsEveryLiveRecordExactlyOnce(t *testing.T) {
	th := newTestHeap(t, NARY)
	sc := testSchema()
	const n = 30
	inserted := map[rid.RID]bool{}
	for i := 0; i < n; i++ {
		r, err := th.InsertRecord(recordOf(sc, uint64(i), "x"))
		require.NoError(t, err)
		inserted[r] = true
	}
	seen := map[rid.RID]bool{}
	r, ok, err := th.GetFirstRID()
	require.NoError(t, err)
	for ok {
		require.False(t, seen[r], "rid %v visited twice", r)
		seen[r] = true
		r, ok, err = th.GetNextRID(r)
		require.NoError(t, err)
	}
	require.Equal(t, inserted, seen)
}

func TestScanSkipsDeletedRecords(t *testing.T) {
	th := newTestHeap(t, NARY)
	sc := testSchema()
	var rids []rid.RID
	for i := 0; i < 10; i++ {
		r, err := th.InsertRecord(recordOf(sc, uint64(i), "x"))
		require.NoError(t, err)
		rids = append(rids, r)
	}
	require.NoError(t, th.DeleteRecord(rids[3]))
	require.NoError(t, th.DeleteRecord(rids[7]))

	count := 0
	r, ok, err := th.GetFirstRID()
	require.NoError(t, err)
	for ok {
		require.NotEqual(t, rids[3], r)
		require.NotEqual(t, rids[7], r)
		count++
		r, ok, err = th.GetNextRID(r)
		require.NoError(t, err)
	}
	require.Equal(t, 8, count)
}

func TestGetChunkNaryAndPaxAgreeOnColumnValues(t *testing.T) {
	sc := testSchema()
	chunkSchema := schema.New(schema.Field{Name: "id", Type: schema.Uint64})

	naryHeap := newTestHeap(t, NARY)
	paxHeap := newTestHeap(t, PAX)
	var naryPage, paxPage int64
	for i := 0; i < 4; i++ {
		r1, err := naryHeap.InsertRecord(recordOf(sc, uint64(i), "x"))
		require.NoError(t, err)
		naryPage = r1.PageID
		r2, err := paxHeap.InsertRecord(recordOf(sc, uint64(i), "x"))
		require.NoError(t, err)
		paxPage = r2.PageID
	}

	naryCols, err := naryHeap.GetChunk(naryPage, chunkSchema)
	require.NoError(t, err)
	paxCols, err := paxHeap.GetChunk(paxPage, chunkSchema)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		naryVal := chunkSchema.DecodeUint64(naryCols[0][i*8:], 0)
		paxVal := chunkSchema.DecodeUint64(paxCols[0][i*8:], 0)
		require.EqualValues(t, i, naryVal, fmt.Sprintf("nary slot %d", i))
		require.EqualValues(t, i, paxVal, fmt.Sprintf("pax slot %d", i))
	}
}

func TestOpenRejectsSchemaWiderThanOnePage(t *testing.T) {
	dir := t.TempDir()
	dm := diskmanager.New()
	fileID, err := dm.OpenFile(filepath.Join(dir, "toobig.heap"))
	require.NoError(t, err)
	bp := bufferpool.New(4, dm, "LRU", 0)
	sc := schema.New(schema.Field{Name: "huge", Type: schema.FixedBytes, Size: 8192})
	_, err = Open(fileID, bp, sc, NARY)
	require.ErrorIs(t, err, ErrTableFail)
}
