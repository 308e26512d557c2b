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

// Package cyclicbuf implements a fixed-capacity ring buffer used by a
// session to echo bytes in place, without per-read/write reallocation.
package cyclicbuf

// Buffer is a fixed-capacity ring. It is not safe for concurrent use; a
// session owns one and touches it only from its own strand.
type Buffer struct {
	ring   []byte
	head   int // start of filled region
	filled int // number of filled bytes
}

// New allocates a ring of the given capacity. Capacity 0 is legal: every
// operation on it is a no-op over empty slices.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{ring: make([]byte, capacity)}
}

// Cap returns the fixed capacity of the ring.
func (b *Buffer) Cap() int {
	return len(b.ring)
}

// Filled returns the number of bytes currently committed and not yet
// consumed.
func (b *Buffer) Filled() int {
	return b.filled
}

// Free returns the number of bytes available to be committed.
func (b *Buffer) Free() int {
	return len(b.ring) - b.filled
}

// Data returns the filled region as one or two contiguous slices, older
// bytes first. The returned slices alias the internal ring and are only
// valid until the next Commit/Consume/Reset call.
func (b *Buffer) Data() [][]byte {
	if b.filled == 0 {
		return nil
	}

	c := len(b.ring)
	if c == 0 {
		return nil
	}

	first := b.head
	firstLen := b.filled
	if firstLen > c-first {
		firstLen = c - first
	}

	out := [][]byte{b.ring[first : first+firstLen]}
	if rem := b.filled - firstLen; rem > 0 {
		out = append(out, b.ring[0:rem])
	}
	return out
}

// Prepared returns the free region as one or two contiguous slices,
// writable in place by a read. The returned slices alias the internal
// ring and are only valid until the next Commit/Consume/Reset call.
func (b *Buffer) Prepared() [][]byte {
	free := b.Free()
	if free == 0 {
		return nil
	}

	c := len(b.ring)
	tail := b.head + b.filled
	if tail >= c {
		tail -= c
	}

	firstLen := free
	if firstLen > c-tail {
		firstLen = c - tail
	}

	out := [][]byte{b.ring[tail : tail+firstLen]}
	if rem := free - firstLen; rem > 0 {
		out = append(out, b.ring[0:rem])
	}
	return out
}

// Commit moves n bytes from the free region into the filled region,
// as after a successful read of n bytes into Prepared(). It panics if
// n exceeds the current free byte count: the caller issued a read
// larger than what Prepared() offered, which is a programmer error.
func (b *Buffer) Commit(n int) {
	if n < 0 || n > b.Free() {
		panic("cyclicbuf: commit exceeds free bytes")
	}
	b.filled += n
}

// Consume drops n bytes from the front of the filled region, as after a
// successful write of n bytes from Data(). It panics if n exceeds the
// current filled byte count.
func (b *Buffer) Consume(n int) {
	if n < 0 || n > b.filled {
		panic("cyclicbuf: consume exceeds filled bytes")
	}

	c := len(b.ring)
	b.filled -= n
	if c > 0 {
		b.head = (b.head + n) % c
	}
}

// Reset discards all contents and restores the empty state.
func (b *Buffer) Reset() {
	b.head = 0
	b.filled = 0
}
