package diskmanager

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"DaemonDB/storage_engine/page"
)

func TestReadWritePageRoundTrip(t *testing.T) {
	dm := New()
	fileID, err := dm.OpenFile(filepath.Join(t.TempDir(), "table.dat"))
	require.NoError(t, err)

	buf := make([]byte, page.PageSize)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	require.NoError(t, dm.WritePage(fileID, 3, buf))

	out := make([]byte, page.PageSize)
	require.NoError(t, dm.ReadPage(fileID, 3, out))
	require.Equal(t, buf, out)
}

func TestReadPageBeyondEndOfFileIsZeroFilled(t *testing.T) {
	dm := New()
	fileID, err := dm.OpenFile(filepath.Join(t.TempDir(), "table.dat"))
	require.NoError(t, err)

	out := make([]byte, page.PageSize)
	for i := range out {
		out[i] = 0xFF
	}
	require.NoError(t, dm.ReadPage(fileID, 7, out))

	for _, b := range out {
		require.Zero(t, b)
	}
}

func TestGetFileNameRoundTrips(t *testing.T) {
	dm := New()
	path := filepath.Join(t.TempDir(), "index.dat")
	fileID, err := dm.OpenFile(path)
	require.NoError(t, err)

	name, err := dm.GetFileName(fileID)
	require.NoError(t, err)
	require.Equal(t, path, name)
}

func TestOpenFileIsIdempotentPerPath(t *testing.T) {
	dm := New()
	path := filepath.Join(t.TempDir(), "table.dat")
	id1, err := dm.OpenFile(path)
	require.NoError(t, err)
	id2, err := dm.OpenFile(path)
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}
