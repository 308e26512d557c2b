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

package sessionpool_test

import (
	"testing"

	"github.com/nabbar/echosrv/pkg/session"
	"github.com/nabbar/echosrv/pkg/sessionpool"
)

func cfg() session.Config {
	return session.Config{BufferSize: 16, MaxTransferSize: 8}
}

func TestSingleCreateReusesReleased(t *testing.T) {
	f := sessionpool.NewSingle(1)

	a, ok := f.Create(cfg())
	if !ok {
		t.Fatalf("Create failed")
	}
	f.Release(a)

	if f.Recycled() != 1 {
		t.Fatalf("Recycled() = %d, want 1", f.Recycled())
	}

	b, ok := f.Create(cfg())
	if !ok {
		t.Fatalf("Create failed")
	}
	if a != b {
		t.Fatalf("expected Create to reuse the released session")
	}
	if f.Recycled() != 0 {
		t.Fatalf("Recycled() = %d after reuse, want 0", f.Recycled())
	}
}

func TestSingleReleaseBeyondCapacityDrops(t *testing.T) {
	f := sessionpool.NewSingle(1)

	a, _ := f.Create(cfg())
	b, _ := f.Create(cfg())

	f.Release(a)
	f.Release(b) // bin already has 1 (its capacity); b is dropped

	if f.Recycled() != 1 {
		t.Fatalf("Recycled() = %d, want 1", f.Recycled())
	}
}

func TestShardedRoundRobinsCreate(t *testing.T) {
	f := sessionpool.NewSharded([]int{2, 2})

	first, _ := f.Create(cfg())
	f.Release(first)
	second, _ := f.Create(cfg())
	f.Release(second)

	if f.Recycled(0) != 1 || f.Recycled(1) != 1 {
		t.Fatalf("expected one recycled session per shard, got %d/%d", f.Recycled(0), f.Recycled(1))
	}
}

func TestShardedReleaseReturnsToOriginatingShard(t *testing.T) {
	f := sessionpool.NewSharded([]int{1, 1})

	a, _ := f.Create(cfg()) // shard 0
	_, _ = f.Create(cfg())  // shard 1, cursor now back at 0

	f.Release(a) // must go back to shard 0 regardless of current cursor

	if f.Recycled(0) != 1 {
		t.Fatalf("Recycled(0) = %d, want 1", f.Recycled(0))
	}
	if f.Recycled(1) != 0 {
		t.Fatalf("Recycled(1) = %d, want 0", f.Recycled(1))
	}
}

func TestShardedReleaseToFullShardDrops(t *testing.T) {
	f := sessionpool.NewSharded([]int{0})

	a, _ := f.Create(cfg())
	f.Release(a) // shard 0's bin has capacity 0: dropped, not recycled

	if f.Recycled(0) != 0 {
		t.Fatalf("Recycled(0) = %d, want 0", f.Recycled(0))
	}
}
