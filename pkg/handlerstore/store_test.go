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

package handlerstore_test

import (
	"sync"
	"testing"

	"github.com/nabbar/echosrv/pkg/handlerstore"
)

// inlinePoster runs posted funcs synchronously, enough to exercise Storage
// without pulling in internal/strand from this leaf package's tests.
type inlinePoster struct{}

func (inlinePoster) Post(f func()) { f() }

func TestPostInvokesAndEmptiesSlot(t *testing.T) {
	s := handlerstore.New[int](inlinePoster{})

	var got int
	s.Put(func(v int) { got = v })

	if !s.HasTarget() {
		t.Fatalf("expected resident handler after Put")
	}

	s.Post(42)

	if got != 42 {
		t.Fatalf("handler invoked with %d, want 42", got)
	}
	if s.HasTarget() {
		t.Fatalf("slot should be empty after Post")
	}
}

func TestPostWithoutTargetIsNoop(t *testing.T) {
	s := handlerstore.New[int](inlinePoster{})
	s.Post(7) // must not panic
}

func TestCancelDropsHandlerWithoutInvoking(t *testing.T) {
	s := handlerstore.New[int](inlinePoster{})

	called := false
	s.Put(func(int) { called = true })
	s.Cancel()

	if s.HasTarget() {
		t.Fatalf("slot should be empty after Cancel")
	}

	s.Post(1)
	if called {
		t.Fatalf("cancelled handler must not be invoked")
	}
}

func TestPutTwiceWithoutDrainPanics(t *testing.T) {
	s := handlerstore.New[int](inlinePoster{})
	s.Put(func(int) {})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on second Put before drain")
		}
	}()
	s.Put(func(int) {})
}

func TestConcurrentPostIsSerializedBySlot(t *testing.T) {
	s := handlerstore.New[int](inlinePoster{})

	var mu sync.Mutex
	sum := 0
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		s.Put(func(v int) {
			mu.Lock()
			sum += v
			mu.Unlock()
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Post(1)
		}()
		wg.Wait()
	}

	if sum != 100 {
		t.Fatalf("sum = %d, want 100", sum)
	}
}
