// Package errs collects the sentinel error kinds shared across storage
// engine layers (§7), so callers can test for a specific failure with
// errors.Is regardless of which package produced it after wrapping.
package errs

import "errors"

var (
	// ErrNoFreeFrame is returned when every frame in the buffer pool is
	// pinned and none can be evicted to satisfy a fetch or new-page
	// request.
	ErrNoFreeFrame = errors.New("buffer pool: no free frame available")

	// ErrPageMiss is returned when an operation on a resident page
	// (UnpinPage, FlushPage) names a page that is not in the pool. A
	// read past the end of the backing file is zero-filled, not a miss.
	ErrPageMiss = errors.New("buffer pool: page miss")

	// ErrEmptyContainer names the failure of an operation that needs a
	// non-empty structure. No storage-engine operation returns it:
	// iterating an empty B+tree yields an iterator that is already done.
	ErrEmptyContainer = errors.New("operation not valid on empty container")
)
