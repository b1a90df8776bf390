// Package record defines the unit the loader accumulates: one FASTA record.
package record

import (
	"github.com/0xRadioAc7iv/go-fastaload/internal/alloc"
)

// Record is a description/sequence pair with the id its source assigned.
//
// A record is either borrowed or owned. Borrowed records are views into a
// source's transient buffers and are only valid until the source is read
// again. Owned records hold their own copies, reserved from an allocator,
// and must be released back to it exactly once.
type Record struct {
	ID          int64
	Description []byte
	Sequence    []byte
	CRC         uint32 // checksum of Description and Sequence, set by Clone

	owned    bool
	reserved int64 // bytes reserved for the fields
}

// Borrow wraps a source's buffers without copying them.
func Borrow(id int64, description, sequence []byte) Record {
	return Record{
		ID:          id,
		Description: description,
		Sequence:    sequence,
	}
}

// Clone returns an owned copy of r whose fields live in memory reserved
// from a. Nothing is reserved when the error is non-nil.
func (r Record) Clone(a alloc.Allocator) (Record, error) {
	d := len(r.Description)
	n := d + len(r.Sequence)

	if err := a.Reserve(int64(n)); err != nil {
		return Record{}, err
	}

	// one backing array per record, split between the two fields
	buf := make([]byte, n)
	copy(buf, r.Description)
	copy(buf[d:], r.Sequence)

	description := buf[:d:d]
	sequence := buf[d:]

	return Record{
		ID:          r.ID,
		Description: description,
		Sequence:    sequence,
		CRC:         CalculateCRC(description, sequence),
		owned:       true,
		reserved:    int64(n),
	}, nil
}

// Release gives the record's field memory back to a. The record must be
// owned; releasing a borrowed or already released record panics.
func (r *Record) Release(a alloc.Allocator) {
	if !r.owned {
		panic("record: release of a record that is not owned")
	}
	a.Release(r.reserved)
	r.Description = nil
	r.Sequence = nil
	r.owned = false
	r.reserved = 0
}

// Owned reports whether the record holds its own field memory.
func (r Record) Owned() bool {
	return r.owned
}

// Size returns the number of bytes held by the two fields.
func (r Record) Size() int {
	return len(r.Description) + len(r.Sequence)
}

// Valid reports whether the fields still match the checksum taken by Clone.
func (r Record) Valid() bool {
	return r.owned && ValidateCRC(r.Description, r.Sequence, r.CRC)
}

// Releaser destroys record fields by releasing them to Allocator.
// It is the destructor handed to list teardown.
type Releaser struct {
	Allocator alloc.Allocator
}

// DestroyFields releases the fields of r.
func (rl Releaser) DestroyFields(r *Record) {
	r.Release(rl.Allocator)
}
