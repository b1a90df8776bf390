package core

import (
	"iter"
	"strings"

	"github.com/0xRadioAc7iv/go-fastaload/internal/alloc"
	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
	"github.com/0xRadioAc7iv/go-fastaload/internal/record"
)

// Strategy names a storage implementation.
type Strategy string

const (
	ArrayStrategy Strategy = "array"
	ListStrategy  Strategy = "list"
)

// accepted spellings, including the legacy program names
var strategyNames = map[string]Strategy{
	"array":       ArrayStrategy,
	"arraydouble": ArrayStrategy,
	"list":        ListStrategy,
	"linked":      ListStrategy,
	"llheadtail":  ListStrategy,
}

// ParseStrategy maps a user supplied name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	if s, ok := strategyNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return "", fault.ErrInvalidStrategy
}

func (s Strategy) String() string {
	return string(s)
}

// Store is the accumulation contract shared by both strategies.
type Store interface {
	// Append takes ownership of an owned record.
	Append(r record.Record) error
	Len() int
	All() iter.Seq[record.Record]
	// Destroy releases every record and all storage, exactly once.
	Destroy()
}

// Diagnostics is implemented by stores that over-allocate.
type Diagnostics interface {
	Cap() int
	WastePercentage() float64
}

// NewStore creates an empty store for strategy backed by a.
func NewStore(strategy Strategy, a alloc.Allocator, initialCapacity int) (Store, error) {
	switch strategy {
	case ArrayStrategy:
		ra, err := NewRecordArray(a, initialCapacity)
		if err != nil {
			return nil, err
		}
		return ra, nil
	case ListStrategy:
		return &listStore{
			RecordList: NewRecordList(a),
			destructor: record.Releaser{Allocator: a},
		}, nil
	}
	return nil, fault.ErrInvalidStrategy
}

// listStore fixes the list's destructor to release fields to its allocator
type listStore struct {
	*RecordList
	destructor NodeDestructor
	destroyed  bool
}

func (s *listStore) All() iter.Seq[record.Record] {
	return s.Traverse()
}

func (s *listStore) Destroy() {
	if s.destroyed {
		panic("core: record list destroyed twice")
	}
	s.destroyed = true
	s.RecordList.Destroy(s.destructor)
}
