package core

import (
	"iter"
	"math"

	"github.com/0xRadioAc7iv/go-fastaload/internal/alloc"
	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
	"github.com/0xRadioAc7iv/go-fastaload/internal/record"
)

// RecordArray is contiguous record storage that doubles its capacity when
// full.
//
// Slots [0, Len) hold owned records. Slots [Len, Cap) are zero and are
// never read or released. Capacity never shrinks.
type RecordArray struct {
	allocator alloc.Allocator
	buffer    []record.Record // len(buffer) is the capacity
	length    int
	destroyed bool
}

// NewRecordArray reserves initialCapacity slots (at least one) from a.
func NewRecordArray(a alloc.Allocator, initialCapacity int) (*RecordArray, error) {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	if int64(initialCapacity) > math.MaxInt64/slotBytes {
		return nil, &fault.AllocationError{Requested: math.MaxInt64}
	}

	if err := a.Reserve(int64(initialCapacity) * slotBytes); err != nil {
		return nil, err
	}

	return &RecordArray{
		allocator: a,
		buffer:    make([]record.Record, initialCapacity),
	}, nil
}

// Append stores r as the new last element, taking ownership of its fields.
// When the array is full the capacity is doubled first; if that fails the
// array is left exactly as it was and the AllocationError is returned.
func (ra *RecordArray) Append(r record.Record) error {
	if !r.Owned() {
		panic("core: append of a borrowed record")
	}

	if ra.length == len(ra.buffer) {
		if err := ra.grow(); err != nil {
			return err
		}
	}

	ra.buffer[ra.length] = r
	ra.length += 1
	return nil
}

// grow moves the live records to a buffer of twice the capacity. The new
// buffer is reserved before anything is touched so a refusal leaves the
// old buffer in place.
func (ra *RecordArray) grow() error {
	oldCapacity := int64(len(ra.buffer))

	if oldCapacity > math.MaxInt64/(GrowthFactor*slotBytes) || oldCapacity*GrowthFactor > math.MaxInt {
		return &fault.AllocationError{Requested: math.MaxInt64}
	}
	newCapacity := oldCapacity * GrowthFactor

	if err := ra.allocator.Reserve(newCapacity * slotBytes); err != nil {
		return err
	}

	buffer := make([]record.Record, newCapacity)
	copy(buffer, ra.buffer[:ra.length])

	clear(ra.buffer)
	ra.allocator.Release(oldCapacity * slotBytes)
	ra.buffer = buffer
	return nil
}

// Len returns the number of live records.
func (ra *RecordArray) Len() int {
	return ra.length
}

// Cap returns the number of slots currently allocated.
func (ra *RecordArray) Cap() int {
	return len(ra.buffer)
}

// At returns the record at index i, which must be in [0, Len).
func (ra *RecordArray) At(i int) record.Record {
	if i < 0 || i >= ra.length {
		panic("core: record array index out of range")
	}
	return ra.buffer[i]
}

// All yields the live records in index order.
func (ra *RecordArray) All() iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		for i := 0; i < ra.length; i++ {
			if !yield(ra.buffer[i]) {
				return
			}
		}
	}
}

// WastePercentage returns the share of capacity not holding live records.
func (ra *RecordArray) WastePercentage() float64 {
	capacity := len(ra.buffer)
	if capacity == 0 {
		return 0
	}
	return float64(capacity-ra.length) / float64(capacity) * 100
}

// Destroy releases the fields of every live record and then the slots.
// An array is destroyed exactly once; a second call panics.
func (ra *RecordArray) Destroy() {
	if ra.destroyed {
		panic("core: record array destroyed twice")
	}
	ra.destroyed = true

	for i := 0; i < ra.length; i++ {
		ra.buffer[i].Release(ra.allocator)
	}
	ra.allocator.Release(int64(len(ra.buffer)) * slotBytes)

	ra.buffer = nil
	ra.length = 0
}
