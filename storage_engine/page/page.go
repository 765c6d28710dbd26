// Package page defines the fixed-size in-memory page that the buffer pool
// hands out and that every higher layer (B+tree, table heap) treats as an
// uninterpreted byte buffer plus a small generic header.
package page

import "encoding/binary"

const (
	// PageSize is the fixed size of every on-disk and in-memory page.
	PageSize = 4096

	// HeaderSize is the generic page header every consumer shares: eight
	// bytes holding the free-chain link (§3, "next-free-page link").
	// B+tree nodes and table pages both read/write it through
	// NextFreePageID/SetNextFreePageID rather than laying it out
	// themselves, the same way a generic Page class can own
	// next_free_page_id independently of whatever node/record layout is
	// built on top of it.
	HeaderSize = 8

	// ContentSize is how many bytes a consumer (B+tree node, table page)
	// has to work with after the generic header.
	ContentSize = PageSize - HeaderSize
)

// InvalidPageID is the sentinel for "no such page" (page/frame/slot ids
// are signed integers whose -1 value denotes invalid).
const InvalidPageID int64 = -1

// InvalidFileID is never a real file id; used only as a zero-value guard.
const InvalidFileID uint32 = 0

// Page is the in-memory copy of one PageSize-byte block, plus the
// bookkeeping the buffer pool needs to decide when it may be evicted.
// Locking is the buffer pool's job (one coarse mutex protects the frame
// table, §5), so Page itself carries no lock.
type Page struct {
	FileID   uint32
	PageID   int64
	Data     []byte
	IsDirty  bool
	PinCount int32
}

// New allocates a page with a zeroed PageSize buffer, not resident in any
// file until a buffer pool assigns it an identity.
func New() *Page {
	return &Page{
		PageID: InvalidPageID,
		Data:   make([]byte, PageSize),
	}
}

// Reset clears identity and content so a frame can be reused for a
// different resident page. The Data buffer itself is reused, not
// reallocated.
func (p *Page) Reset() {
	p.FileID = InvalidFileID
	p.PageID = InvalidPageID
	p.IsDirty = false
	p.PinCount = 0
	for i := range p.Data {
		p.Data[i] = 0
	}
}

// SetFilePageID assigns a new resident identity without touching Data;
// callers load the actual bytes separately (from disk, or leave the page
// zeroed for a brand new allocation).
func (p *Page) SetFilePageID(fileID uint32, pageID int64) {
	p.FileID = fileID
	p.PageID = pageID
}

// Pin increments the reference count that keeps this page's frame from
// being chosen as an eviction victim.
func (p *Page) Pin() { p.PinCount++ }

// Unpin decrements the pin count. Callers must not unpin past zero.
func (p *Page) Unpin() {
	if p.PinCount > 0 {
		p.PinCount--
	}
}

// Content returns the mutable slice past the generic header — the region
// a consumer lays its own node/record structure into.
func (p *Page) Content() []byte {
	return p.Data[HeaderSize:]
}

// NextFreePageID reads the free-chain link out of the generic header.
func (p *Page) NextFreePageID() int64 {
	return int64(binary.LittleEndian.Uint64(p.Data[:HeaderSize]))
}

// SetNextFreePageID writes the free-chain link into the generic header.
func (p *Page) SetNextFreePageID(id int64) {
	binary.LittleEndian.PutUint64(p.Data[:HeaderSize], uint64(id))
	p.IsDirty = true
}
