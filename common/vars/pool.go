package vars

import (
	"sync/atomic"
	"unsafe"
)

// unavailablePtr holds a pointer to the current snapshot of unavailable
// ticket numbers. Readers are lock-free; the cron swaps the pointer.
var unavailablePtr unsafe.Pointer

// GetUnavailableNumbers returns the current snapshot. Safe for concurrent
// access; the returned slice must not be mutated.
func GetUnavailableNumbers() []int32 {
	ptr := atomic.LoadPointer(&unavailablePtr)
	if ptr == nil {
		return nil
	}
	return *(*[]int32)(ptr)
}

// SetUnavailableNumbers atomically replaces the snapshot. The input is
// copied so later caller mutations cannot leak into readers.
func SetUnavailableNumbers(numbers []int32) {
	var ptr unsafe.Pointer

	if len(numbers) > 0 {
		numbersCopy := make([]int32, len(numbers))
		copy(numbersCopy, numbers)
		ptr = unsafe.Pointer(&numbersCopy)
	}

	atomic.StorePointer(&unavailablePtr, ptr)
}
