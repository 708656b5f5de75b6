package chainset

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is used to size the first allocation of a bucket so that
// its backing array spans at most one cache line of elements.
// It's automatically calculated using the `golang.org/x/sys` package.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})
