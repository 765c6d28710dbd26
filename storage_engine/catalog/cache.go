// Package catalog is a process-wide, admission-controlled cache of table
// and index descriptors (schema plus storage model), backed by
// Ristretto's TinyLFU policy (§5). It is deliberately not the buffer
// pool: the buffer pool must implement the exact LRU/LRU-K contract
// (§4.1), which Ristretto's probabilistic admission cannot guarantee.
// This cache instead holds the comparatively rare, larger schema/header
// metadata so a table or index reopened later in the same process
// doesn't require the caller to resupply its schema and storage model.
package catalog

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"DaemonDB/storage_engine/schema"
)

// StorageModel mirrors heapfile.StorageModel without importing the
// heapfile package, avoiding an import cycle (heapfile_manager imports
// catalog, not the reverse).
type StorageModel uint8

// TableDescriptor is the metadata needed to reopen a table without the
// caller re-deriving its schema and storage model.
type TableDescriptor struct {
	FileID       uint32
	RecordSchema *schema.Schema
	Model        StorageModel
}

// IndexDescriptor is the analogous metadata for reopening a B+tree
// index.
type IndexDescriptor struct {
	FileID    uint32
	KeySchema *schema.Schema
}

// Cache holds one Ristretto cache for table descriptors and one for
// index descriptors, keyed by table name.
type Cache struct {
	tables  *ristretto.Cache[string, TableDescriptor]
	indexes *ristretto.Cache[string, IndexDescriptor]
}

// New constructs an empty catalog cache.
func New() (*Cache, error) {
	tables, err := ristretto.NewCache(&ristretto.Config[string, TableDescriptor]{
		NumCounters: 1e4,
		MaxCost:     1 << 16,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: create table descriptor cache: %w", err)
	}
	indexes, err := ristretto.NewCache(&ristretto.Config[string, IndexDescriptor]{
		NumCounters: 1e4,
		MaxCost:     1 << 16,
		BufferItems: 64,
	})
	if err != nil {
		tables.Close()
		return nil, fmt.Errorf("catalog: create index descriptor cache: %w", err)
	}
	return &Cache{tables: tables, indexes: indexes}, nil
}

// descriptorCost weights a cache entry by field count, so a schema with
// many columns counts for more against MaxCost than a narrow one.
func descriptorCost(fieldCount int) int64 {
	return int64(fieldCount) + 1
}

// PutTable admits tableName's descriptor into the cache.
func (c *Cache) PutTable(tableName string, d TableDescriptor) {
	c.tables.SetWithTTL(tableName, d, descriptorCost(len(d.RecordSchema.Fields)), 0)
	c.tables.Wait()
}

// GetTable looks up tableName's cached descriptor.
func (c *Cache) GetTable(tableName string) (TableDescriptor, bool) {
	return c.tables.Get(tableName)
}

// PutIndex admits tableName's index descriptor into the cache.
func (c *Cache) PutIndex(tableName string, d IndexDescriptor) {
	c.indexes.SetWithTTL(tableName, d, descriptorCost(len(d.KeySchema.Fields)), 0)
	c.indexes.Wait()
}

// GetIndex looks up tableName's cached index descriptor.
func (c *Cache) GetIndex(tableName string) (IndexDescriptor, bool) {
	return c.indexes.Get(tableName)
}

// Close releases both underlying Ristretto caches' background workers.
func (c *Cache) Close() {
	c.tables.Close()
	c.indexes.Close()
}
