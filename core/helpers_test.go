package core_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xRadioAc7iv/go-fastaload/internal/alloc"
	"github.com/0xRadioAc7iv/go-fastaload/internal/record"
)

// a borrowed record with predictable contents
func borrowed(id int) record.Record {
	return record.Borrow(
		int64(id),
		[]byte(fmt.Sprintf("seq%d test record", id)),
		[]byte(fmt.Sprintf("ACGT%dTTGA", id)),
	)
}

// an owned copy of borrowed(id)
func owned(t *testing.T, a alloc.Allocator, id int) record.Record {
	t.Helper()
	r, err := borrowed(id).Clone(a)
	require.NoError(t, err, "clone of record %d", id)
	return r
}

// the smallest initial * 2^k that is at least max(n, 1)
func expectedCapacity(initial, n int) int {
	c := initial
	for c < n {
		c *= 2
	}
	return c
}
