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

package sessionmgr

import (
	"sync/atomic"

	"github.com/nabbar/echosrv/internal/satcounter"
)

// Stats holds the manager's counters. Active, Stopping and Recycled are
// live gauges read straight off the lists and the factory — a
// saturating counter only ever increases, so it cannot represent a
// value that legitimately goes back down as sessions come and go.
// maxActive is a peak kept in a plain atomic. The exported fields are
// genuinely monotonic events and use satcounter.Counter so they pin and
// record overflow rather than wrap.
type Stats struct {
	maxActive atomic.Uint64

	TotalAccepted    satcounter.Counter[uint64]
	ActiveShutdowned satcounter.Counter[uint64]
	OutOfWork        satcounter.Counter[uint64]
	TimedOut         satcounter.Counter[uint64]
	ErrorStopped     satcounter.Counter[uint64]
}

// bumpMaxActive records current as the new peak if it exceeds the prior
// one. Safe for concurrent use, though the manager only ever calls it
// from its own strand.
func (s *Stats) bumpMaxActive(current uint64) {
	for {
		prev := s.maxActive.Load()
		if current <= prev {
			return
		}
		if s.maxActive.CompareAndSwap(prev, current) {
			return
		}
	}
}

// MaxActive returns the highest active-session count ever observed.
func (s *Stats) MaxActive() uint64 {
	return s.maxActive.Load()
}

// Snapshot is a point-in-time, read-only copy of every statistic,
// suitable for exposing over the admin HTTP surface or a metrics
// collector.
type Snapshot struct {
	Active           uint64
	Stopping         uint64
	Recycled         uint64
	MaxActive        uint64
	TotalAccepted    uint64
	ActiveShutdowned uint64
	OutOfWork        uint64
	TimedOut         uint64
	ErrorStopped     uint64
}
