package engine

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/jjfiv/quizdown/pkg/boundary"
)

// HeapStats counts live allocations.
type HeapStats struct {
	LiveStrings int
	LiveResults int
	Strings     int
	Results     int
}

// heap stores NUL-terminated strings and result wrappers under opaque
// addresses. Addresses are never reused.
type heap struct {
	mu      sync.Mutex
	next    boundary.Pointer
	strings map[boundary.Pointer][]byte
	results map[*boundary.RawResult]struct{}

	totalStrings int
	totalResults int
}

const heapBase boundary.Pointer = 0x10000

func newHeap() *heap {
	return &heap{
		next:    heapBase,
		strings: make(map[boundary.Pointer][]byte),
		results: make(map[*boundary.RawResult]struct{}),
	}
}

func (h *heap) allocString(s string) boundary.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()

	buf := make([]byte, len(s)+1)
	copy(buf, s)
	p := h.next
	// Keep addresses 16-byte aligned like a real allocator.
	h.next += boundary.Pointer((len(buf) + 15) &^ 15)
	h.strings[p] = buf
	h.totalStrings++
	return p
}

func (h *heap) read(p boundary.Pointer) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	buf, ok := h.strings[p]
	if !ok {
		return nil, fmt.Errorf("engine: read of unallocated address %#x", uintptr(p))
	}
	if end := bytes.IndexByte(buf, 0); end >= 0 {
		buf = buf[:end]
	}
	return append([]byte(nil), buf...), nil
}

func (h *heap) freeString(p boundary.Pointer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.strings[p]; !ok {
		return false
	}
	delete(h.strings, p)
	return true
}

func (h *heap) allocResult(r *boundary.RawResult) *boundary.RawResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.results[r] = struct{}{}
	h.totalResults++
	return r
}

func (h *heap) freeResult(r *boundary.RawResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.results[r]; !ok {
		return fmt.Errorf("engine: free of unknown result wrapper %p", r)
	}
	delete(h.results, r)
	return nil
}

func (h *heap) stats() HeapStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HeapStats{
		LiveStrings: len(h.strings),
		LiveResults: len(h.results),
		Strings:     h.totalStrings,
		Results:     h.totalResults,
	}
}
