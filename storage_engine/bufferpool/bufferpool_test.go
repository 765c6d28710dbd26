package bufferpool

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	diskmanager "DaemonDB/storage_engine/disk_manager"
	"DaemonDB/storage_engine/errs"
	"DaemonDB/storage_engine/page"
)

func newTestPool(t *testing.T, capacity int, replacerName string) (*Manager, uint32) {
	t.Helper()
	dm := diskmanager.New()
	fileID, err := dm.OpenFile(filepath.Join(t.TempDir(), "data.dat"))
	require.NoError(t, err)
	return New(capacity, dm, replacerName, 2), fileID
}

func TestNewPageThenFetchRoundTrips(t *testing.T) {
	bp, fileID := newTestPool(t, 4, "LRU")

	pg, err := bp.NewPage(fileID, 0)
	require.NoError(t, err)
	copy(pg.Content(), []byte("hello"))
	require.NoError(t, bp.UnpinPage(fileID, 0, true))
	require.NoError(t, bp.FlushPage(fileID, 0))
	require.NoError(t, bp.DeletePage(fileID, 0))

	pg2, err := bp.FetchPage(fileID, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), pg2.Content()[:5])
	require.NoError(t, bp.UnpinPage(fileID, 0, false))
}

func TestFetchPageEvictsUnpinnedFrameWhenFull(t *testing.T) {
	bp, fileID := newTestPool(t, 2, "LRU")

	p0, err := bp.NewPage(fileID, 0)
	require.NoError(t, err)
	require.NoError(t, bp.UnpinPage(fileID, 0, true))
	_ = p0

	p1, err := bp.NewPage(fileID, 1)
	require.NoError(t, err)
	require.NoError(t, bp.UnpinPage(fileID, 1, true))
	_ = p1

	// Both frames occupied but unpinned; fetching a third page must
	// evict one (page 0, least recently used) rather than fail.
	p2, err := bp.FetchPage(fileID, 2)
	require.NoError(t, err)
	require.NoError(t, bp.UnpinPage(fileID, 2, true))
	_ = p2

	require.False(t, bp.IsResident(fileID, 0))
	require.True(t, bp.IsResident(fileID, 1))
	require.True(t, bp.IsResident(fileID, 2))
}

func TestFetchPageFailsWhenAllFramesPinned(t *testing.T) {
	bp, fileID := newTestPool(t, 1, "LRU")

	_, err := bp.NewPage(fileID, 0)
	require.NoError(t, err)

	_, err = bp.FetchPage(fileID, 1)
	require.ErrorIs(t, err, errs.ErrNoFreeFrame)
}

func TestUnpinPageWithoutResidencyIsPageMiss(t *testing.T) {
	bp, fileID := newTestPool(t, 1, "LRU")
	err := bp.UnpinPage(fileID, 99, false)
	require.ErrorIs(t, err, errs.ErrPageMiss)
}

func TestDeletePagePinnedFails(t *testing.T) {
	bp, fileID := newTestPool(t, 1, "LRU")
	_, err := bp.NewPage(fileID, 0)
	require.NoError(t, err)

	err = bp.DeletePage(fileID, 0)
	require.Error(t, err)
}

func TestReadPageGuardDropUnpinsExactlyOnce(t *testing.T) {
	bp, fileID := newTestPool(t, 2, "LRU")
	_, err := bp.NewPage(fileID, 0)
	require.NoError(t, err)
	require.NoError(t, bp.UnpinPage(fileID, 0, true))

	guard, err := bp.FetchPageRead(fileID, 0)
	require.NoError(t, err)
	require.Equal(t, page.PageSize, len(guard.Data()))
	guard.Drop()
	guard.Drop() // must not double-unpin

	stats := bp.Stats()
	require.Equal(t, 0, stats.PinnedPages)
}

func TestStatsReflectsPinnedAndDirty(t *testing.T) {
	bp, fileID := newTestPool(t, 2, "LRU")
	_, err := bp.NewPage(fileID, 0)
	require.NoError(t, err)

	stats := bp.Stats()
	require.Equal(t, 1, stats.Resident)
	require.Equal(t, 1, stats.PinnedPages)
	require.Equal(t, 1, stats.DirtyPages)
}
