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

// Package strand gives a single goroutine exclusive ownership of a
// piece of state by funneling every mutation through one task queue,
// the idiomatic Go rendering of an asio strand: instead of posting
// callbacks onto a shared executor guarded by a mutex, each session and
// the session manager each own one Strand and never touch their state
// from outside it.
package strand

// Strand serializes func() tasks onto one owning goroutine. Zero value
// is not usable; construct with New.
type Strand struct {
	tasks chan func()
	done  chan struct{}
}

// New starts a Strand's draining goroutine and returns it. Call Close
// to stop the goroutine and release its channel.
func New(queueDepth int) *Strand {
	if queueDepth < 0 {
		queueDepth = 0
	}
	s := &Strand{
		tasks: make(chan func(), queueDepth),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Strand) run() {
	defer close(s.done)
	for t := range s.tasks {
		t()
	}
}

// Post enqueues task to run on the strand's goroutine. Tasks run in the
// order Post was called. Panics if called after Close.
func (s *Strand) Post(task func()) {
	s.tasks <- task
}

// Close stops accepting new tasks and waits for the queue to drain and
// the owning goroutine to exit. Safe to call once.
func (s *Strand) Close() {
	close(s.tasks)
	<-s.done
}
