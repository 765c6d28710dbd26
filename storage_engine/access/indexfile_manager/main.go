// Package indexfile is the manager-of-managers for B+tree indexes: one
// open bplus.BPTreeIndex per table's primary key, keyed by table name,
// sharing the database's single buffer pool and disk manager.
package indexfile

import (
	"fmt"
	"os"
	"path/filepath"

	bplus "DaemonDB/storage_engine/access/indexfile_manager/bplustree"
	"DaemonDB/storage_engine/bufferpool"
	"DaemonDB/storage_engine/catalog"
	diskmanager "DaemonDB/storage_engine/disk_manager"
	"DaemonDB/storage_engine/schema"
)

// NewManager constructs an index manager rooted at baseDir.
func NewManager(baseDir string, dm *diskmanager.Manager, bp *bufferpool.Manager) (*Manager, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("index manager: create %s: %w", baseDir, err)
	}
	return &Manager{
		baseDir:     baseDir,
		indexes:     make(map[string]*bplus.BPTreeIndex),
		fileIDs:     make(map[string]uint32),
		bufferPool:  bp,
		diskManager: dm,
	}, nil
}

// NewManagerWithCatalog is NewManager plus a descriptor cache: once an
// index has been opened through GetOrCreateIndex, Reopen can restore it
// later without the caller resupplying its key schema.
func NewManagerWithCatalog(baseDir string, dm *diskmanager.Manager, bp *bufferpool.Manager, cat *catalog.Cache) (*Manager, error) {
	m, err := NewManager(baseDir, dm, bp)
	if err != nil {
		return nil, err
	}
	m.catalog = cat
	return m, nil
}

// GetOrCreateIndex returns the primary index for tableName, opening (and
// creating, if the backing file is new) it on first use.
func (m *Manager) GetOrCreateIndex(tableName string, keySchema *schema.Schema) (*bplus.BPTreeIndex, error) {
	m.mu.RLock()
	tree, exists := m.indexes[tableName]
	m.mu.RUnlock()
	if exists {
		return tree, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if tree, exists := m.indexes[tableName]; exists {
		return tree, nil
	}

	indexPath := filepath.Join(m.baseDir, fmt.Sprintf("%s_primary.idx", tableName))
	fileID, err := m.diskManager.OpenFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("index manager: open %s: %w", indexPath, err)
	}

	tree, err = bplus.Open(fileID, m.bufferPool, keySchema, false)
	if err != nil {
		return nil, fmt.Errorf("index manager: open index for table %q: %w", tableName, err)
	}

	m.indexes[tableName] = tree
	m.fileIDs[tableName] = fileID
	if m.catalog != nil {
		m.catalog.PutIndex(tableName, catalog.IndexDescriptor{FileID: fileID, KeySchema: keySchema})
	}
	return tree, nil
}

// Reopen restores tableName's index using the key schema cached at
// GetOrCreateIndex time, without the caller resupplying it. Fails if no
// catalog was configured or tableName's index was never opened through
// one.
func (m *Manager) Reopen(tableName string) (*bplus.BPTreeIndex, error) {
	m.mu.RLock()
	if tree, ok := m.indexes[tableName]; ok {
		m.mu.RUnlock()
		return tree, nil
	}
	m.mu.RUnlock()

	if m.catalog == nil {
		return nil, fmt.Errorf("index manager: reopen index for table %q: no catalog configured", tableName)
	}
	desc, ok := m.catalog.GetIndex(tableName)
	if !ok {
		return nil, fmt.Errorf("index manager: reopen index for table %q: no cached descriptor", tableName)
	}

	tree, err := bplus.Open(desc.FileID, m.bufferPool, desc.KeySchema, false)
	if err != nil {
		return nil, fmt.Errorf("index manager: reopen index for table %q: %w", tableName, err)
	}

	m.mu.Lock()
	m.indexes[tableName] = tree
	m.fileIDs[tableName] = desc.FileID
	m.mu.Unlock()
	return tree, nil
}

// Forget drops tableName's in-memory index without closing its
// underlying file, so a later Reopen exercises the catalog-descriptor
// path instead of the already-open map.
func (m *Manager) Forget(tableName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.indexes, tableName)
}

// Index returns the already-open index for tableName.
func (m *Manager) Index(tableName string) (*bplus.BPTreeIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tree, exists := m.indexes[tableName]
	if !exists {
		return nil, fmt.Errorf("index manager: no index open for table %q", tableName)
	}
	return tree, nil
}

// CloseIndex flushes and drops tableName's index from the cache.
func (m *Manager) CloseIndex(tableName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fileID, exists := m.fileIDs[tableName]
	if !exists {
		return nil
	}
	delete(m.indexes, tableName)
	delete(m.fileIDs, tableName)
	if err := m.bufferPool.FlushAllPages(); err != nil {
		return fmt.Errorf("index manager: close index for table %q: %w", tableName, err)
	}
	return m.diskManager.CloseFile(fileID)
}

// CloseAll flushes and drops every cached index.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.bufferPool.FlushAllPages(); err != nil {
		return fmt.Errorf("index manager: close all: %w", err)
	}
	var lastErr error
	for tableName, fileID := range m.fileIDs {
		if err := m.diskManager.CloseFile(fileID); err != nil {
			lastErr = fmt.Errorf("index manager: close index for table %q: %w", tableName, err)
		}
		delete(m.indexes, tableName)
		delete(m.fileIDs, tableName)
	}
	return lastErr
}
