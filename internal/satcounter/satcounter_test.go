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

package satcounter_test

import (
	"sync"
	"testing"

	"github.com/nabbar/echosrv/internal/satcounter"
)

func TestAddAccumulates(t *testing.T) {
	var c satcounter.Counter[uint32]
	c.Add(3)
	c.Add(4)

	if c.Load() != 7 {
		t.Fatalf("Load() = %d, want 7", c.Load())
	}
	if c.Overflowed() {
		t.Fatalf("counter should not report overflow yet")
	}
}

func TestAddSaturatesAtMax(t *testing.T) {
	var c satcounter.Counter[uint32]
	max := ^uint32(0)
	c.Add(max)
	c.Add(10)

	if c.Load() != max {
		t.Fatalf("Load() = %d, want max %d", c.Load(), max)
	}
	if !c.Overflowed() {
		t.Fatalf("expected overflow to be recorded")
	}
}

func TestOverflowIsSticky(t *testing.T) {
	var c satcounter.Counter[uint32]
	c.Add(^uint32(0))
	c.Add(1)

	if !c.Overflowed() {
		t.Fatalf("overflow flag must remain set")
	}
}

func TestResetClearsValueAndOverflow(t *testing.T) {
	var c satcounter.Counter[uint32]
	c.Add(^uint32(0))
	c.Add(1)
	c.Reset()

	if c.Load() != 0 || c.Overflowed() {
		t.Fatalf("reset did not clear value/overflow")
	}
}

func TestConcurrentAddIsRaceFree(t *testing.T) {
	var c satcounter.Counter[uint64]
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(1)
		}()
	}
	wg.Wait()

	if c.Load() != 100 {
		t.Fatalf("Load() = %d, want 100", c.Load())
	}
}
