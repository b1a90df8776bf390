package core

import (
	"unsafe"

	"github.com/0xRadioAc7iv/go-fastaload/internal/record"
)

const (
	OneKilobyte = 1024
	OneMegabyte = 1024 * OneKilobyte // 1024 (1KB) * 1024 => 1MB
	OneGigabyte = 1024 * OneMegabyte

	DefaultInitialCapacity  = 1
	DefaultRepeats          = 1
	DefaultProgressInterval = 10000 // print a '.' every this many records
	DefaultMemoryLimit      = 0     // unlimited

	GrowthFactor = 2
)

// bytes accounted per array slot and per list node
const (
	slotBytes = int64(unsafe.Sizeof(record.Record{}))
	nodeBytes = int64(unsafe.Sizeof(node{}))
)
