// Package arena provides a linear, frame-scoped allocator for per-frame
// scratch data. Allocation is a pointer bump; release is a bulk reset when
// the frame's scope ends, so scratch structures never outlive the frame.
package arena

import "unsafe"

// Arena owns a fixed byte slab carved up linearly. One arena serves one
// producer thread; scopes from the same arena must be released in LIFO order.
type Arena struct {
	buf  []byte
	off  int
	high int
}

// New returns an arena backed by a slab of the given size in bytes.
func New(size int) *Arena {
	return &Arena{buf: make([]byte, size)}
}

// Scope opens a frame scope. Release it (usually with defer) to return every
// allocation made through it in one reset.
func (a *Arena) Scope() *Scope {
	return &Scope{arena: a, mark: a.off}
}

// HighWater returns the largest slab offset reached so far, useful for
// sizing the slab.
func (a *Arena) HighWater() int {
	return a.high
}

// Scope is the guard for one frame's allocations.
type Scope struct {
	arena    *Arena
	mark     int
	released bool
}

// Release resets the arena to where it was when the scope opened.
// Safe to call more than once; allocations after Release go to the heap.
func (s *Scope) Release() {
	if s.released {
		return
	}
	s.arena.off = s.mark
	s.released = true
}

// Alloc returns a zeroed slice of n values of T carved from the scope's
// arena. When the slab is exhausted (or the scope already released) it falls
// back to the regular heap rather than failing: a frame over budget degrades,
// it does not crash.
func Alloc[T any](s *Scope, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := uintptr(unsafe.Alignof(zero))

	a := s.arena
	if s.released || len(a.buf) == 0 {
		return make([]T, n)
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.buf)))
	off := a.off
	if pad := int((-(base + uintptr(off))) & (align - 1)); pad > 0 {
		off += pad
	}
	end := off + n*size
	if end > len(a.buf) {
		return make([]T, n)
	}
	a.off = end
	if end > a.high {
		a.high = end
	}
	out := unsafe.Slice((*T)(unsafe.Pointer(&a.buf[off])), n)
	clear(out)
	return out
}
