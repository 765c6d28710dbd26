// Package heapfile implements the table handle (§4.5): a chain of
// fixed-size-record slotted pages rooted at a table header page,
// storing rows under either the NARY (row-major) or PAX (column-major)
// storage model. The storage model changes only how a page handle reads
// and writes a slot; every allocation, scan and free-chain algorithm is
// shared between the two.
package heapfile

import (
	"sync"

	"DaemonDB/storage_engine/bufferpool"
	"DaemonDB/storage_engine/page"
	"DaemonDB/storage_engine/schema"
)

// StorageModel selects how a table's pages lay out their records.
type StorageModel uint8

const (
	// NARY stores each record contiguously ("row store").
	NARY StorageModel = 0
	// PAX partitions each field into its own column array within the
	// page, all slots for one field stored contiguously.
	PAX StorageModel = 1
)

// HeaderPageID is the fixed location of a table file's header.
const HeaderPageID int64 = 0

// TableHeap is a single table's page chain.
type TableHeap struct {
	fileID       uint32
	bufferPool   *bufferpool.Manager
	recordSchema *schema.Schema
	model        StorageModel
	slotsPerPage int
	mu           sync.RWMutex
}

// tableHeader is the in-memory shape of a table file's header page.
type tableHeader struct {
	firstPageID     int64
	firstFreePageID int64
	pageCount       int64
	numRecords      int64
	numSlotsPerPage int32
	recordSize      int32
	model           StorageModel
}

const invalidPageID = page.InvalidPageID
