//go:build wasip1

// Package abi moves bytes across the guest side of the host boundary.
//
// Every buffer crossing the boundary is described by a packed i64: the
// pointer in the high 32 bits, the length in the low 32 bits. Buffers the
// host writes into come from the allocate export and stay pinned until the
// guest frees them.
package abi

import (
	"fmt"
	"sync"
	"unsafe"
)

// PtrHighBits is the shift of the pointer half of a packed value.
const PtrHighBits = 32

// DefaultLimit caps the bytes pinned at any one time.
const DefaultLimit = 64 * 1024 * 1024

var pinned = struct {
	sync.Mutex
	bufs  map[uint32][]byte
	total int
	limit int
}{
	bufs:  make(map[uint32][]byte),
	limit: DefaultLimit,
}

// allocate pins a new buffer and returns its address. It panics past the limit.
//
//go:wasmexport allocate
func allocate(size uint32) uint32 {
	if size == 0 {
		return 0
	}

	pinned.Lock()
	defer pinned.Unlock()

	if pinned.total+int(size) > pinned.limit {
		panic(fmt.Sprintf("abi: pinning %d bytes would exceed the %d byte limit (%d in use)",
			size, pinned.limit, pinned.total))
	}

	buf := make([]byte, size)
	ptr := uint32(uintptr(unsafe.Pointer(&buf[0])))
	pinned.bufs[ptr] = buf
	pinned.total += int(size)
	return ptr
}

// deallocate unpins ptr. Unknown pointers are ignored; the size argument is
// not trusted.
//
//go:wasmexport deallocate
func deallocate(ptr uint32, _ uint32) {
	pinned.Lock()
	defer pinned.Unlock()

	buf, ok := pinned.bufs[ptr]
	if !ok {
		return
	}
	delete(pinned.bufs, ptr)
	pinned.total -= len(buf)
}

// SetLimit changes the pinning limit.
func SetLimit(bytes int) error {
	if bytes <= 0 {
		return fmt.Errorf("abi: limit must be positive, got %d", bytes)
	}
	pinned.Lock()
	defer pinned.Unlock()
	pinned.limit = bytes
	return nil
}

// InUse reports the number of pinned buffers and their total size.
func InUse() (buffers, bytes int) {
	pinned.Lock()
	defer pinned.Unlock()
	return len(pinned.bufs), pinned.total
}

// Release unpins every buffer.
func Release() {
	pinned.Lock()
	defer pinned.Unlock()
	clear(pinned.bufs)
	pinned.total = 0
}

// Send copies data into a pinned buffer for the host to read.
// Free the result once the host call returns.
func Send(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	size := uint32(len(data)) //nolint:gosec // G115: guest buffers are below 4GiB
	ptr := allocate(size)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), size), data) //nolint:gosec // G103: linear memory access
	return Pack(ptr, size)
}

// Receive copies a buffer the host wrote and unpins it.
func Receive(packed uint64) []byte {
	ptr, length := Unpack(packed)
	if ptr == 0 || length == 0 {
		return nil
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), length) //nolint:gosec // G103: linear memory access
	data := append([]byte(nil), src...)
	deallocate(ptr, length)
	return data
}

// Free unpins the buffer behind packed.
func Free(packed uint64) {
	if ptr, length := Unpack(packed); ptr != 0 && length > 0 {
		deallocate(ptr, length)
	}
}

// Pack joins ptr and length. A null pointer with a length is a bug.
func Pack(ptr, length uint32) uint64 {
	if ptr == 0 && length > 0 {
		panic(fmt.Sprintf("abi: null pointer with length %d", length))
	}
	return uint64(ptr)<<PtrHighBits | uint64(length)
}

// Unpack splits a packed value. A null pointer with a length is a bug.
func Unpack(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> PtrHighBits)
	length = uint32(packed)
	if ptr == 0 && length > 0 {
		panic(fmt.Sprintf("abi: null pointer with length %d", length))
	}
	return ptr, length
}
