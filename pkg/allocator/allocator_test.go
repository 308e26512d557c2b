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

package allocator_test

import (
	"testing"

	"github.com/nabbar/echosrv/pkg/allocator"
)

func TestAllocateWithinCapacityUsesInlineBlock(t *testing.T) {
	a := allocator.New(256)

	got := a.Allocate(128)
	if len(got) != 128 {
		t.Fatalf("len = %d, want 128", len(got))
	}

	// A second allocate before Deallocate must fall back to the heap,
	// not reuse the single outstanding inline block.
	second := a.Allocate(64)
	if len(second) != 64 {
		t.Fatalf("len = %d, want 64", len(second))
	}

	a.Deallocate(got)
	a.Deallocate(second)

	// Now the inline block is free again.
	third := a.Allocate(32)
	if len(third) != 32 {
		t.Fatalf("len = %d, want 32", len(third))
	}
}

func TestAllocateOversizedFallsBackToHeap(t *testing.T) {
	a := allocator.New(64)

	got := a.Allocate(128)
	if len(got) != 128 || cap(got) < 128 {
		t.Fatalf("expected heap-backed slice of length 128, got len=%d cap=%d", len(got), cap(got))
	}

	a.Deallocate(got) // must be a harmless no-op for heap slices
}

func TestDeallocateOfHeapSliceIsNoop(t *testing.T) {
	a := allocator.New(16)
	heap := make([]byte, 8)
	a.Deallocate(heap) // unrelated slice, must not panic or affect inline state

	inline := a.Allocate(8)
	if len(inline) != 8 {
		t.Fatalf("inline block should still be available, got len=%d", len(inline))
	}
}

func TestDoubleDeallocatePanics(t *testing.T) {
	a := allocator.New(16)
	got := a.Allocate(8)
	a.Deallocate(got)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on double free of inline block")
		}
	}()
	a.Deallocate(got)
}

func TestZeroCapacityAlwaysHeapAllocates(t *testing.T) {
	a := allocator.New(0)

	got := a.Allocate(4)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	a.Deallocate(got) // no inline block exists; must be a no-op
}
