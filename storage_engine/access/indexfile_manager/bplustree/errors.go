package bplus

import "errors"

// ErrIndexFail is returned when an index cannot be initialized (e.g. its
// key schema is too wide to fit a single node in one page), per §7.
var ErrIndexFail = errors.New("bptree: index initialization failed")

// ErrKeyNotFound is returned by Iterator.Key and Iterator.RID once the
// iterator is exhausted. Search reports a missing key with an empty
// result, not with this error.
var ErrKeyNotFound = errors.New("bptree: key not found")
