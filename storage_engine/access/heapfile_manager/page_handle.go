package heapfile

import (
	"encoding/binary"

	"DaemonDB/storage_engine/page"
	"DaemonDB/storage_engine/schema"
)

// A table page's local header (content-relative offsets, i.e. after the
// generic page.HeaderSize reserved bytes which carry the free-chain
// link shared with the B+tree, per the unified Page convention):
//
//	0   8  nextPageID  int64   next page in full-table scan order,
//	                           set once at allocation and never mutated
//	8   4  numSlots    uint32
//	12  4  recordNum   uint32  live record count
//	16     pageLocalHeaderSize
//
// followed by a numSlots-bit occupancy bitmap, followed by the slot
// data region (NARY: contiguous records; PAX: one column array per
// field).
const (
	plOffNextPage       = 0
	plOffNumSlots       = plOffNextPage + 8
	plOffRecordNum      = plOffNumSlots + 4
	pageLocalHeaderSize = plOffRecordNum + 4
)

// PageHandle reads and writes slots on one table page; naryPageHandle
// and paxPageHandle differ only in how a slot's bytes map onto the
// page, per §4.5's "storage model affects only page-handle reads and
// writes" note.
type PageHandle interface {
	NumSlots() int
	RecordNum() int
	IsSet(slot int) bool
	FindFirstFree() (int, bool)
	FindFirstSetFrom(start int) (int, bool)
	ReadSlot(slot int) []byte
	WriteSlot(slot int, data []byte)
	SetOccupied(slot int, occupied bool)
	NextPageID() int64
}

type baseHandle struct {
	pg *page.Page
}

func (b baseHandle) content() []byte { return b.pg.Content() }

func (b baseHandle) NextPageID() int64 {
	return int64(binary.LittleEndian.Uint64(b.content()[plOffNextPage:]))
}

func (b baseHandle) setNextPageID(id int64) {
	binary.LittleEndian.PutUint64(b.content()[plOffNextPage:], uint64(id))
	b.pg.IsDirty = true
}

func (b baseHandle) NumSlots() int {
	return int(binary.LittleEndian.Uint32(b.content()[plOffNumSlots:]))
}

func (b baseHandle) setNumSlots(n int) {
	binary.LittleEndian.PutUint32(b.content()[plOffNumSlots:], uint32(n))
	b.pg.IsDirty = true
}

func (b baseHandle) RecordNum() int {
	return int(binary.LittleEndian.Uint32(b.content()[plOffRecordNum:]))
}

func (b baseHandle) setRecordNum(n int) {
	binary.LittleEndian.PutUint32(b.content()[plOffRecordNum:], uint32(n))
	b.pg.IsDirty = true
}

func (b baseHandle) bitmap() []byte {
	n := b.NumSlots()
	return b.content()[pageLocalHeaderSize : pageLocalHeaderSize+bitmapBytes(n)]
}

func (b baseHandle) dataOffset() int {
	return pageLocalHeaderSize + bitmapBytes(b.NumSlots())
}

func (b baseHandle) IsSet(slot int) bool { return getBit(b.bitmap(), slot) }

func (b baseHandle) SetOccupied(slot int, occupied bool) {
	was := getBit(b.bitmap(), slot)
	setBit(b.bitmap(), slot, occupied)
	b.pg.IsDirty = true
	if occupied && !was {
		b.setRecordNum(b.RecordNum() + 1)
	} else if !occupied && was {
		b.setRecordNum(b.RecordNum() - 1)
	}
}

func (b baseHandle) FindFirstFree() (int, bool) {
	i := findFirstZero(b.bitmap(), b.NumSlots())
	if i < 0 {
		return 0, false
	}
	return i, true
}

func (b baseHandle) FindFirstSetFrom(start int) (int, bool) {
	i := findFirstSetFrom(b.bitmap(), b.NumSlots(), start)
	if i < 0 {
		return 0, false
	}
	return i, true
}

// initPage stamps a fresh page's local header and zeroes its bitmap.
func initPage(pg *page.Page, numSlots int, nextPageID int64) {
	b := baseHandle{pg}
	b.setNumSlots(numSlots)
	b.setRecordNum(0)
	b.setNextPageID(nextPageID)
	bm := b.bitmap()
	for i := range bm {
		bm[i] = 0
	}
	pg.IsDirty = true
}

// --- NARY: row-major, one contiguous record per slot ------------------

type naryPageHandle struct {
	baseHandle
	recordSize int
}

func newNaryPageHandle(pg *page.Page, recordSize int) naryPageHandle {
	return naryPageHandle{baseHandle{pg}, recordSize}
}

func (h naryPageHandle) slotOffset(slot int) int {
	return h.dataOffset() + slot*h.recordSize
}

func (h naryPageHandle) ReadSlot(slot int) []byte {
	off := h.slotOffset(slot)
	out := make([]byte, h.recordSize)
	copy(out, h.content()[off:off+h.recordSize])
	return out
}

func (h naryPageHandle) WriteSlot(slot int, data []byte) {
	off := h.slotOffset(slot)
	copy(h.content()[off:off+h.recordSize], data)
	h.pg.IsDirty = true
}

// --- PAX: column-major, one array per field ----------------------------

type paxPageHandle struct {
	baseHandle
	sch *schema.Schema
}

func newPaxPageHandle(pg *page.Page, sch *schema.Schema) paxPageHandle {
	return paxPageHandle{baseHandle{pg}, sch}
}

// columnOffset returns the byte offset of field i's column array.
func (h paxPageHandle) columnOffset(field int) int {
	off := h.dataOffset()
	numSlots := h.NumSlots()
	for j := 0; j < field; j++ {
		off += numSlots * h.sch.Fields[j].Size
	}
	return off
}

func (h paxPageHandle) ReadSlot(slot int) []byte {
	out := make([]byte, h.sch.RecordSize())
	recOff := 0
	for j, f := range h.sch.Fields {
		colOff := h.columnOffset(j) + slot*f.Size
		copy(out[recOff:recOff+f.Size], h.content()[colOff:colOff+f.Size])
		recOff += f.Size
	}
	return out
}

func (h paxPageHandle) WriteSlot(slot int, data []byte) {
	recOff := 0
	for j, f := range h.sch.Fields {
		colOff := h.columnOffset(j) + slot*f.Size
		copy(h.content()[colOff:colOff+f.Size], data[recOff:recOff+f.Size])
		recOff += f.Size
	}
	h.pg.IsDirty = true
}

// column returns field i's raw column array across every slot
// (including unoccupied ones — callers filter via the bitmap).
func (h paxPageHandle) column(field int) []byte {
	size := h.NumSlots() * h.sch.Fields[field].Size
	off := h.columnOffset(field)
	return h.content()[off : off+size]
}
