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
	"container/list"
	"net"

	"github.com/nabbar/echosrv/pkg/session"
	"github.com/google/uuid"
)

// ProxyState is the manager's own view of a session, distinct from the
// session's internal State even though the labels overlap.
type ProxyState int

const (
	ProxyReady ProxyState = iota
	ProxyStart
	ProxyWork
	ProxyStop
	ProxyStopped
)

func (s ProxyState) String() string {
	switch s {
	case ProxyReady:
		return "ready"
	case ProxyStart:
		return "start"
	case ProxyWork:
		return "work"
	case ProxyStop:
		return "stop"
	case ProxyStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// proxy is the manager-scoped bookkeeping object wrapping a session:
// its state as seen by the manager, the remote endpoint it serves, and
// which of the manager's lists currently owns it. Mutated only on the
// manager's strand.
type proxy struct {
	id     uuid.UUID
	sess   *session.Session
	state  ProxyState
	remote net.Addr

	// pending counts manager-issued operations against sess that have
	// not yet completed. A proxy is only ever dropped once this is zero
	// and state is ProxyStopped.
	pending int

	// elem is the list element the proxy currently sits in (active or
	// stopping), so it can be removed in O(1) without a linear scan.
	elem *list.Element
}
