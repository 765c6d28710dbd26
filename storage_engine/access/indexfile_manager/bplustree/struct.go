// Package bplus implements the on-disk B+tree index (§4.4): fixed-size
// keys mapped to RIDs, stored directly in page-native byte layouts (no
// serialize/deserialize step — nodes are thin accessor views over a
// *page.Page's bytes, the same way the disk-resident header pages are
// read and written in place).
package bplus

import (
	"sync"

	"DaemonDB/storage_engine/bufferpool"
	"DaemonDB/storage_engine/page"
	"DaemonDB/storage_engine/rid"
	"DaemonDB/storage_engine/schema"
)

// HeaderPageID is the fixed location of a B+tree file's index header.
const HeaderPageID int64 = 0

const invalidPageID = page.InvalidPageID

// BPTreeIndex is a disk-backed B+tree keyed by fixed-width byte strings
// under keySchema, mapping each key to a rid.RID. One coarse RWMutex
// guards the whole tree (§5) — no latch-crabbing.
type BPTreeIndex struct {
	fileID     uint32
	bufferPool *bufferpool.Manager
	keySchema  *schema.Schema
	mu         sync.RWMutex
}

// indexHeader is the in-memory shape of the header page (page id 0).
type indexHeader struct {
	rootPageID      int64
	firstFreePageID int64
	treeHeight      int32
	pageCount       int64
	numEntries      int64
	keySize         int32
	leafMaxSize     int32
	internalMaxSize int32
}

const (
	ridSize   = rid.Size // 12
	childSize = 8        // page id
)

// common node header layout, relative to page.Content()
const (
	offNodeType   = 0
	offPageID     = offNodeType + 1
	offParentID   = offPageID + 8
	offSize       = offParentID + 8
	offMaxSize    = offSize + 4
	commonHdrSize = offMaxSize + 4 // 25

	offNextPageID  = commonHdrSize
	leafHdrSize    = offNextPageID + 8 // 33
	internalHdrSize = commonHdrSize     // 25
)

type nodeKind uint8

const (
	kindInternal nodeKind = 0
	kindLeaf     nodeKind = 1
)
