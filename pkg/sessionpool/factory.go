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

// Package sessionpool constructs and recycles sessions behind one
// Factory interface, with two policies: a single shared recycle bin, or
// one bin per shard with sessions pinned to the shard that created
// them.
package sessionpool

import "github.com/nabbar/echosrv/pkg/session"

// Factory creates sessions and takes them back for recycling.
type Factory interface {
	// Create returns a session ready for Attach, reusing a recycled
	// instance when one is available. Returns (nil, false) when the
	// factory cannot supply a session (spec's no_memory case). Single
	// never does, since Go sessions are ordinary heap values; Sharded
	// does only when it was built with no shards. The signature keeps
	// the no_memory contract visible to callers (the session manager)
	// that must handle it.
	Create(cfg session.Config) (*session.Session, bool)

	// Release returns s to its recycle bin if capacity remains, or
	// drops it (Close is called either way is up to Release's
	// implementation: a dropped session is closed, a recycled one is
	// reset and kept alive for its next Create).
	Release(s *session.Session)
}
