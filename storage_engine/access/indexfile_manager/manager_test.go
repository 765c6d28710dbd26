package indexfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"DaemonDB/storage_engine/bufferpool"
	"DaemonDB/storage_engine/catalog"
	diskmanager "DaemonDB/storage_engine/disk_manager"
	"DaemonDB/storage_engine/rid"
	"DaemonDB/storage_engine/schema"
)

func testKeySchema() *schema.Schema {
	return schema.New(schema.Field{Name: "id", Type: schema.Uint64})
}

func newTestIndexManager(t *testing.T, cat *catalog.Cache) *Manager {
	t.Helper()
	dir := t.TempDir()
	dm := diskmanager.New()
	bp := bufferpool.New(32, dm, "LRU", 0)
	if cat == nil {
		m, err := NewManager(filepath.Join(dir, "indexes"), dm, bp)
		require.NoError(t, err)
		return m
	}
	m, err := NewManagerWithCatalog(filepath.Join(dir, "indexes"), dm, bp, cat)
	require.NoError(t, err)
	return m
}

func TestGetOrCreateIndexThenIndexReturnsSameTree(t *testing.T) {
	m := newTestIndexManager(t, nil)
	tree, err := m.GetOrCreateIndex("users", testKeySchema())
	require.NoError(t, err)

	got, err := m.Index("users")
	require.NoError(t, err)
	require.Same(t, tree, got)
}

func TestReopenWithoutCatalogFails(t *testing.T) {
	m := newTestIndexManager(t, nil)
	_, err := m.GetOrCreateIndex("users", testKeySchema())
	require.NoError(t, err)

	m.Forget("users")
	_, err = m.Reopen("users")
	require.Error(t, err)
}

func TestReopenRestoresIndexFromCatalogDescriptor(t *testing.T) {
	cat, err := catalog.New()
	require.NoError(t, err)
	defer cat.Close()

	m := newTestIndexManager(t, cat)
	sc := testKeySchema()
	tree, err := m.GetOrCreateIndex("users", sc)
	require.NoError(t, err)

	key := make([]byte, 8)
	sc.EncodeUint64(key, 0, 42)
	require.NoError(t, tree.Insert(key, rid.RID{PageID: 1, SlotID: 0}))

	m.Forget("users")
	reopened, err := m.Reopen("users")
	require.NoError(t, err)

	rids, err := reopened.Search(key)
	require.NoError(t, err)
	require.Len(t, rids, 1)
}
