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

type shard struct {
	recycled    []*session.Session
	maxRecycled int
}

// Sharded is a Factory backed by N shards, each with its own bounded
// recycle bin. create assigns shards round-robin; release always
// returns a session to the shard that created it. A shard owns no
// executor of its own: every session runs on its own strand whichever
// shard it belongs to.
type Sharded struct {
	mu     sync.Mutex
	shards []*shard
	cursor int
	origin map[*session.Session]int
}

// NewSharded returns a Sharded factory with one shard per entry in
// maxRecycledPerShard (its length is the shard count).
func NewSharded(maxRecycledPerShard []int) *Sharded {
	shards := make([]*shard, len(maxRecycledPerShard))
	for i, max := range maxRecycledPerShard {
		if max < 0 {
			max = 0
		}
		shards[i] = &shard{maxRecycled: max}
	}
	return &Sharded{shards: shards, origin: make(map[*session.Session]int)}
}

// Create assigns the next shard round-robin, whether or not that
// shard's recycle bin is used, pops a recycled session from it if
// non-empty, and records the shard as the session's origin.
func (f *Sharded) Create(cfg session.Config) (*session.Session, bool) {
	if len(f.shards) == 0 {
		return nil, false
	}

	f.mu.Lock()
	idx := f.cursor
	f.cursor = (f.cursor + 1) % len(f.shards)
	sh := f.shards[idx]

	var s *session.Session
	if n := len(sh.recycled); n > 0 {
		s = sh.recycled[n-1]
		sh.recycled = sh.recycled[:n-1]
	}
	f.mu.Unlock()

	if s == nil {
		s = session.New(cfg)
	}

	f.mu.Lock()
	f.origin[s] = idx
	f.mu.Unlock()

	return s, true
}

// Release resets s and returns it to the shard that created it if that
// shard's bin has room; otherwise s is closed and dropped. Matches the
// original's documented choice to silently drop on a full shard rather
// than spill into another shard's bin.
func (f *Sharded) Release(s *session.Session) {
	s.Reset()

	f.mu.Lock()
	idx, ok := f.origin[s]
	delete(f.origin, s)
	f.mu.Unlock()

	if !ok {
		s.Close()
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	sh := f.shards[idx]
	if len(sh.recycled) >= sh.maxRecycled {
		s.Close()
		return
	}
	sh.recycled = append(sh.recycled, s)
}

// ShardCount reports the number of shards.
func (f *Sharded) ShardCount() int {
	return len(f.shards)
}

// Recycled reports how many sessions sit in shard idx's bin. Intended
// for statistics/tests.
func (f *Sharded) Recycled(idx int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.shards[idx].recycled)
}

// RecycledTotal satisfies the optional statistics hook a session
// manager uses to report its aggregate recycle-bin occupancy across
// every shard.
func (f *Sharded) RecycledTotal() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for _, sh := range f.shards {
		total += len(sh.recycled)
	}
	return total
}
