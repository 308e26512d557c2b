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

// Package satcounter implements the session manager's statistics
// counters: plain integers that pin at their type's maximum value on
// overflow instead of wrapping, and remember that they once overflowed.
package satcounter

import "sync/atomic"

// Unsigned is the set of integer types a Counter can be built over.
type Unsigned interface {
	~uint | ~uint32 | ~uint64
}

// Counter is a saturating, concurrency-safe counter. Zero value is
// ready to use at zero.
type Counter[T Unsigned] struct {
	value     atomic.Uint64
	saturated atomic.Bool
}

// Add adds delta to the counter, pinning at the maximum value of T and
// recording the overflow (sticky: once true, Overflowed stays true)
// rather than wrapping around.
func (c *Counter[T]) Add(delta T) {
	max := maxOf[T]()
	for {
		cur := c.value.Load()
		if cur >= max {
			c.saturated.Store(true)
			return
		}
		next := cur + uint64(delta)
		if next < cur || next > max { // overflowed uint64 math or pinned past max
			next = max
			c.saturated.Store(true)
		}
		if c.value.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Load returns the current value.
func (c *Counter[T]) Load() T {
	return T(c.value.Load())
}

// Overflowed reports whether the counter has ever saturated.
func (c *Counter[T]) Overflowed() bool {
	return c.saturated.Load()
}

// Reset restores the counter to zero and clears the overflow flag.
func (c *Counter[T]) Reset() {
	c.value.Store(0)
	c.saturated.Store(false)
}

func maxOf[T Unsigned]() uint64 {
	var z T
	return uint64(^z)
}
