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

// Package handlerstore implements a single-slot rendezvous for a pending
// completion callback, the asynchronous completion handoff primitive a
// session uses for its wait/stop continuations.
package handlerstore

import "sync"

// Poster is the subset of an executor a Storage posts invocations to.
// internal/strand.Strand satisfies it.
type Poster interface {
	Post(func())
}

// Storage holds at most one pending handler bound to a result type A.
// Zero value is not usable; construct with New.
type Storage[A any] struct {
	mu      sync.Mutex
	handler func(A)
	exec    Poster
}

// New returns a Storage that posts invocations to exec.
func New[A any](exec Poster) *Storage[A] {
	return &Storage[A]{exec: exec}
}

// Put stores handler. It panics if a handler is already resident: at most
// one handler may be outstanding at a time, and a second concurrent Put
// before Post/Cancel is a programmer error (e.g. two concurrent
// async_wait calls), which callers are expected to reject before
// reaching Put.
func (s *Storage[A]) Put(handler func(A)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handler != nil {
		panic("handlerstore: handler already resident")
	}
	s.handler = handler
}

// HasTarget reports whether a handler is currently resident, without
// disturbing it.
func (s *Storage[A]) HasTarget() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler != nil
}

// Post moves the resident handler out, posts its invocation with value
// to the bound executor, and empties the slot. Safe to call from any
// goroutine. A no-op if no handler is resident.
func (s *Storage[A]) Post(value A) {
	s.mu.Lock()
	h := s.handler
	s.handler = nil
	s.mu.Unlock()

	if h == nil {
		return
	}

	s.exec.Post(func() { h(value) })
}

// Cancel drops the resident handler without invoking it.
func (s *Storage[A]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = nil
}
