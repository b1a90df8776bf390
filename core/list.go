package core

import (
	"iter"

	"github.com/0xRadioAc7iv/go-fastaload/internal/alloc"
	"github.com/0xRadioAc7iv/go-fastaload/internal/record"
)

// NodeDestructor releases whatever a node's record owns. The list calls it
// once per node during Destroy, before releasing the node itself.
type NodeDestructor interface {
	DestroyFields(r *record.Record)
}

// NodeDestructorFunc adapts a function to a NodeDestructor.
type NodeDestructorFunc func(r *record.Record)

func (f NodeDestructorFunc) DestroyFields(r *record.Record) { f(r) }

// a node in the list
type node struct {
	rec  record.Record
	next *node
}

// RecordList is a singly linked list of records with a tail pointer so
// that appends are O(1).
type RecordList struct {
	allocator alloc.Allocator
	head      *node
	tail      *node
	length    int
}

// NewRecordList returns an empty list. Nothing is reserved until the first
// append.
func NewRecordList(a alloc.Allocator) *RecordList {
	return &RecordList{allocator: a}
}

// AppendTail links a new node holding r after the current tail. If the
// node cannot be reserved the list is unchanged.
func (l *RecordList) AppendTail(r record.Record) error {
	if !r.Owned() {
		panic("core: append of a borrowed record")
	}

	if err := l.allocator.Reserve(nodeBytes); err != nil {
		return err
	}
	n := &node{rec: r}

	if l.tail == nil {
		l.head = n
		l.tail = n
	} else {
		l.tail.next = n
		l.tail = n
	}
	l.length += 1
	return nil
}

// Append is AppendTail.
func (l *RecordList) Append(r record.Record) error {
	return l.AppendTail(r)
}

// Traverse yields the records from head to tail. Every call starts again
// at the head.
func (l *RecordList) Traverse() iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		for p := l.head; p != nil; p = p.next {
			if !yield(p.rec) {
				return
			}
		}
	}
}

// Len returns the number of nodes.
func (l *RecordList) Len() int {
	return l.length
}

// IsEmpty is true when the list has no nodes.
func (l *RecordList) IsEmpty() bool {
	return l.head == nil
}

// Head returns the first record, false if the list is empty.
func (l *RecordList) Head() (record.Record, bool) {
	if l.head == nil {
		return record.Record{}, false
	}
	return l.head.rec, true
}

// Tail returns the last record, false if the list is empty.
func (l *RecordList) Tail() (record.Record, bool) {
	if l.tail == nil {
		return record.Record{}, false
	}
	return l.tail.rec, true
}

// Destroy walks the list once, hands each record to d and releases the
// node. A nil d leaves the record fields to the caller.
func (l *RecordList) Destroy(d NodeDestructor) {
	p := l.head
	for p != nil {
		next := p.next
		if d != nil {
			d.DestroyFields(&p.rec)
		}
		p.next = nil
		l.allocator.Release(nodeBytes)
		p = next
	}
	l.head = nil
	l.tail = nil
	l.length = 0
}

// check that the tail is reachable from the head in Len-1 steps and
// terminates the list
func (l *RecordList) consistent() bool {
	if l.head == nil || l.tail == nil {
		return l.head == nil && l.tail == nil && l.length == 0
	}
	steps := 0
	p := l.head
	for p.next != nil {
		p = p.next
		steps += 1
	}
	return p == l.tail && steps == l.length-1
}
