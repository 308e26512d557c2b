/*
 * MIT License
 *
 * Copyright (c) 2026 echosrv contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package allocator implements the per-operation allocator contract: a
// fixed inline block sized per call site, with fallback to the heap when
// a request outgrows it. A session's read and write paths each own one,
// so steady-state echo traffic never touches the general allocator.
package allocator

import "unsafe"

// Allocator hands out at most one outstanding allocation at a time from a
// fixed-size inline block, falling back to the heap for oversized or
// concurrent requests. Not safe for concurrent use: a session's strand
// owns each of its allocators.
type Allocator struct {
	block []byte
	inUse bool
}

// New returns an Allocator whose inline block holds capacity bytes.
func New(capacity int) *Allocator {
	if capacity < 0 {
		capacity = 0
	}
	return &Allocator{block: make([]byte, capacity)}
}

// Allocate returns a slice of length size. If size fits in the unused
// inline block, that block is returned; otherwise (oversized, or the
// block is already outstanding) a heap slice is allocated.
func (a *Allocator) Allocate(size int) []byte {
	if size <= len(a.block) && !a.inUse {
		a.inUse = true
		return a.block[:size]
	}
	return make([]byte, size)
}

// Deallocate releases ptr. If ptr is backed by the inline block, the
// block is marked free for reuse; otherwise it is a heap slice and is
// simply dropped. It panics if ptr aliases the inline block but the
// block is not currently marked in use, which indicates a double-free.
func (a *Allocator) Deallocate(ptr []byte) {
	if len(a.block) == 0 || !sameBacking(ptr, a.block) {
		return
	}
	if !a.inUse {
		panic("allocator: double free of inline block")
	}
	a.inUse = false
}

// sameBacking reports whether ptr is the slice Allocate returned from
// block, i.e. shares block's first array element. Allocate only ever
// returns block[:size] from offset 0, so a data-pointer comparison
// against block's own start is sufficient.
func sameBacking(ptr, block []byte) bool {
	if cap(block) == 0 {
		return false
	}
	return unsafe.SliceData(block[:cap(block)]) == unsafe.SliceData(ptr[:cap(ptr)])
}
