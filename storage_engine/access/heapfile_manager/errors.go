package heapfile

import "errors"

// ErrTableFail is returned when a table cannot be initialized (e.g. its
// record schema is too wide to fit a single slot on one page).
var ErrTableFail = errors.New("heapfile: table initialization failed")

// ErrRecordMiss is returned by GetRecord/UpdateRecord/DeleteRecord when
// the target slot's occupancy bit is 0.
var ErrRecordMiss = errors.New("heapfile: record not found")

// ErrSlotOccupied is returned by the RID-addressed InsertRecord overload
// when the caller-specified slot is already occupied.
var ErrSlotOccupied = errors.New("heapfile: slot already occupied")
