package heapfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"DaemonDB/storage_engine/bufferpool"
	"DaemonDB/storage_engine/catalog"
	diskmanager "DaemonDB/storage_engine/disk_manager"
	"DaemonDB/storage_engine/schema"
)

// Manager owns every open TableHeap in a database directory, mapping
// table names to the file ids the disk manager and buffer pool address
// them by.
type Manager struct {
	baseDir     string
	diskManager *diskmanager.Manager
	bufferPool  *bufferpool.Manager
	catalog     *catalog.Cache // optional; nil disables Reopen
	tables      map[string]*TableHeap
	fileIDs     map[string]uint32
	mu          sync.RWMutex
}

// NewManager constructs a table manager rooted at baseDir.
func NewManager(baseDir string, dm *diskmanager.Manager, bp *bufferpool.Manager) *Manager {
	return &Manager{
		baseDir:     baseDir,
		diskManager: dm,
		bufferPool:  bp,
		tables:      make(map[string]*TableHeap),
		fileIDs:     make(map[string]uint32),
	}
}

// NewManagerWithCatalog is NewManager plus a descriptor cache: once a
// table has been created through this manager, Reopen can restore it
// later without the caller resupplying its schema and storage model.
func NewManagerWithCatalog(baseDir string, dm *diskmanager.Manager, bp *bufferpool.Manager, cat *catalog.Cache) *Manager {
	m := NewManager(baseDir, dm, bp)
	m.catalog = cat
	return m
}

// CreateTable opens (creating if necessary) the on-disk file backing
// tableName and initializes it with recordSchema and model.
func (m *Manager) CreateTable(tableName string, recordSchema *schema.Schema, model StorageModel) (*TableHeap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tables[tableName]; exists {
		return nil, fmt.Errorf("heapfile manager: table %q already open", tableName)
	}

	if err := os.MkdirAll(m.baseDir, 0755); err != nil {
		return nil, fmt.Errorf("heapfile manager: create %s: %w", m.baseDir, err)
	}

	path := filepath.Join(m.baseDir, tableName+".heap")
	fileID, err := m.diskManager.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("heapfile manager: open %s: %w", path, err)
	}

	th, err := Open(fileID, m.bufferPool, recordSchema, model)
	if err != nil {
		return nil, fmt.Errorf("heapfile manager: initialize table %q: %w", tableName, err)
	}

	m.tables[tableName] = th
	m.fileIDs[tableName] = fileID
	if m.catalog != nil {
		m.catalog.PutTable(tableName, catalog.TableDescriptor{
			FileID:       fileID,
			RecordSchema: recordSchema,
			Model:        catalog.StorageModel(model),
		})
	}
	return th, nil
}

// Reopen restores tableName's TableHeap using the schema and storage
// model cached at CreateTable time, without the caller resupplying
// either. Fails if no catalog was configured or tableName was never
// created through one.
func (m *Manager) Reopen(tableName string) (*TableHeap, error) {
	m.mu.RLock()
	if th, ok := m.tables[tableName]; ok {
		m.mu.RUnlock()
		return th, nil
	}
	m.mu.RUnlock()

	if m.catalog == nil {
		return nil, fmt.Errorf("heapfile manager: reopen table %q: no catalog configured", tableName)
	}
	desc, ok := m.catalog.GetTable(tableName)
	if !ok {
		return nil, fmt.Errorf("heapfile manager: reopen table %q: no cached descriptor", tableName)
	}

	th, err := Open(desc.FileID, m.bufferPool, desc.RecordSchema, StorageModel(desc.Model))
	if err != nil {
		return nil, fmt.Errorf("heapfile manager: reopen table %q: %w", tableName, err)
	}

	m.mu.Lock()
	m.tables[tableName] = th
	m.fileIDs[tableName] = desc.FileID
	m.mu.Unlock()
	return th, nil
}

// Forget drops tableName's in-memory TableHeap without closing its
// underlying file, so a later Reopen exercises the catalog-descriptor
// path instead of the already-open map.
func (m *Manager) Forget(tableName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, tableName)
}

// Table returns the already-open TableHeap for tableName.
func (m *Manager) Table(tableName string) (*TableHeap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	th, ok := m.tables[tableName]
	if !ok {
		return nil, fmt.Errorf("heapfile manager: table %q not open", tableName)
	}
	return th, nil
}

// FileID returns the disk-manager file id backing tableName.
func (m *Manager) FileID(tableName string) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.fileIDs[tableName]
	if !ok {
		return 0, fmt.Errorf("heapfile manager: table %q not open", tableName)
	}
	return id, nil
}
