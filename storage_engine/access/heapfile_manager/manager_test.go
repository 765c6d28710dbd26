package heapfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"DaemonDB/storage_engine/bufferpool"
	"DaemonDB/storage_engine/catalog"
	diskmanager "DaemonDB/storage_engine/disk_manager"
)

func newTestManager(t *testing.T, cat *catalog.Cache) *Manager {
	t.Helper()
	dir := t.TempDir()
	dm := diskmanager.New()
	bp := bufferpool.New(32, dm, "LRU", 0)
	if cat == nil {
		return NewManager(filepath.Join(dir, "tables"), dm, bp)
	}
	return NewManagerWithCatalog(filepath.Join(dir, "tables"), dm, bp, cat)
}

func TestCreateTableThenTableReturnsSameHandle(t *testing.T) {
	m := newTestManager(t, nil)
	sc := testSchema()
	th, err := m.CreateTable("users", sc, NARY)
	require.NoError(t, err)

	got, err := m.Table("users")
	require.NoError(t, err)
	require.Same(t, th, got)
}

func TestReopenWithoutCatalogFails(t *testing.T) {
	m := newTestManager(t, nil)
	_, err := m.CreateTable("users", testSchema(), NARY)
	require.NoError(t, err)

	m.Forget("users")
	_, err = m.Reopen("users")
	require.Error(t, err)
}

func TestReopenRestoresTableFromCatalogDescriptor(t *testing.T) {
	cat, err := catalog.New()
	require.NoError(t, err)
	defer cat.Close()

	m := newTestManager(t, cat)
	sc := testSchema()
	th, err := m.CreateTable("users", sc, PAX)
	require.NoError(t, err)
	r, err := th.InsertRecord(recordOf(sc, 1, "hi"))
	require.NoError(t, err)

	m.Forget("users")
	reopened, err := m.Reopen("users")
	require.NoError(t, err)

	got, err := reopened.GetRecord(r)
	require.NoError(t, err)
	require.EqualValues(t, 1, sc.DecodeUint64(got, 0))
}
