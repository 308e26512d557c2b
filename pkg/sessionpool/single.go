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

package sessionpool

import (
	"sync"

	"github.com/nabbar/echosrv/pkg/session"
)

// Single is a Factory with one bounded recycle bin shared by every
// session it creates. Safe for concurrent use; the manager calls it
// only from its own strand in practice, but the lock makes that an
// optimization rather than a requirement.
type Single struct {
	mu        sync.Mutex
	recycled  []*session.Session
	maxRecycled int
}

// NewSingle returns a Single factory whose recycle bin holds at most
// maxRecycled sessions.
func NewSingle(maxRecycled int) *Single {
	if maxRecycled < 0 {
		maxRecycled = 0
	}
	return &Single{maxRecycled: maxRecycled}
}

// Create pops a recycled session and resets it if the bin is non-empty,
// otherwise constructs a new one from cfg.
func (f *Single) Create(cfg session.Config) (*session.Session, bool) {
	f.mu.Lock()
	n := len(f.recycled)
	if n > 0 {
		s := f.recycled[n-1]
		f.recycled = f.recycled[:n-1]
		f.mu.Unlock()
		return s, true
	}
	f.mu.Unlock()

	return session.New(cfg), true
}

// Release resets s and returns it to the recycle bin if there is room;
// otherwise s is closed and dropped.
func (f *Single) Release(s *session.Session) {
	s.Reset()

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.recycled) >= f.maxRecycled {
		s.Close()
		return
	}
	f.recycled = append(f.recycled, s)
}

// Recycled reports how many sessions currently sit in the bin.
// Intended for statistics/tests.
func (f *Single) Recycled() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recycled)
}

// RecycledTotal satisfies the optional statistics hook a session
// manager uses to report its recycle-bin occupancy.
func (f *Single) RecycledTotal() int {
	return f.Recycled()
}
