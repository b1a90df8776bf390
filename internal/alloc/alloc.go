// Package alloc keeps the ownership ledger for storage memory.
//
// Every buffer a store holds (record fields, array slots, list nodes) is
// reserved here before it is created and released here when it is torn
// down. A pass that cleans up correctly ends with nothing live and nothing
// outstanding; releasing what was never reserved panics.
package alloc

import (
	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
)

// Allocator is the reservation interface the stores are written against.
type Allocator interface {
	Reserve(n int64) error
	Release(n int64)
}

// Heap is the default Allocator: the Go heap with an optional byte limit.
//
// Heap is not safe for concurrent use; a pass owns its heap exclusively.
type Heap struct {
	limit int64 // 0 means unlimited

	live        int64 // bytes currently reserved
	peak        int64 // high-water mark of live
	outstanding int64 // reservations not yet released

	reservations uint64 // total successful Reserve calls
	releases     uint64 // total Release calls
	refusals     uint64 // Reserve calls refused by the limit
}

// NewHeap returns a heap that refuses reservations beyond limit bytes.
// A limit of zero or less is unlimited.
func NewHeap(limit int64) *Heap {
	if limit < 0 {
		limit = 0
	}
	return &Heap{limit: limit}
}

// Reserve accounts for n bytes about to be allocated.
func (h *Heap) Reserve(n int64) error {
	if n < 0 {
		panic("alloc: negative reservation")
	}
	if h.limit > 0 && (n > h.limit || h.live > h.limit-n) {
		h.refusals += 1
		return &fault.AllocationError{Requested: n, InUse: h.live, Limit: h.limit}
	}
	h.live += n
	if h.live > h.peak {
		h.peak = h.live
	}
	h.outstanding += 1
	h.reservations += 1
	return nil
}

// Release returns n bytes from an earlier reservation.
func (h *Heap) Release(n int64) {
	if n < 0 || n > h.live || h.outstanding == 0 {
		panic("alloc: release of memory that is not reserved")
	}
	h.live -= n
	h.outstanding -= 1
	h.releases += 1
}

// Limit returns the configured limit, 0 when unlimited.
func (h *Heap) Limit() int64 { return h.limit }

// Live returns the bytes currently reserved.
func (h *Heap) Live() int64 { return h.live }

// Peak returns the largest number of bytes reserved at once.
func (h *Heap) Peak() int64 { return h.peak }

// Outstanding returns the number of reservations not yet released.
func (h *Heap) Outstanding() int64 { return h.outstanding }

// Stats is a snapshot of the heap ledger.
type Stats struct {
	Limit        int64
	Live         int64
	Peak         int64
	Outstanding  int64
	Reservations uint64
	Releases     uint64
	Refusals     uint64
}

// Stats returns a snapshot of the ledger.
func (h *Heap) Stats() Stats {
	return Stats{
		Limit:        h.limit,
		Live:         h.live,
		Peak:         h.peak,
		Outstanding:  h.outstanding,
		Reservations: h.reservations,
		Releases:     h.releases,
		Refusals:     h.refusals,
	}
}
