package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"DaemonDB/storage_engine/schema"
)

func testSchema() *schema.Schema {
	return schema.New(schema.Field{Name: "id", Type: schema.Uint64})
}

func TestPutThenGetTableRoundTrips(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	c.PutTable("users", TableDescriptor{FileID: 3, RecordSchema: testSchema(), Model: 1})
	got, ok := c.GetTable("users")
	require.True(t, ok)
	require.EqualValues(t, 3, got.FileID)
	require.EqualValues(t, 1, got.Model)
}

func TestGetTableMissReturnsFalse(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.GetTable("nonexistent")
	require.False(t, ok)
}

func TestPutThenGetIndexRoundTrips(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	c.PutIndex("users", IndexDescriptor{FileID: 9, KeySchema: testSchema()})
	got, ok := c.GetIndex("users")
	require.True(t, ok)
	require.EqualValues(t, 9, got.FileID)
}

func TestGetIndexMissReturnsFalse(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.GetIndex("nonexistent")
	require.False(t, ok)
}
