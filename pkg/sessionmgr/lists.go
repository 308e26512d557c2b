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

import "container/list"

// pushActive adds p to the active list and records its element.
func (m *Manager) pushActive(p *proxy) {
	p.elem = m.active.PushBack(p)
}

// pushStopping moves p from active to stopping. p is leaving active, so
// this is one of the points that frees an admit permit and lets
// runAcceptLoop re-arm Accept.
func (m *Manager) pushStopping(p *proxy) {
	if p.elem != nil {
		m.active.Remove(p.elem)
		m.admit.Release(1)
	}
	p.elem = m.stopping.PushBack(p)
}

// dropFromActive removes p from the active list without moving it
// anywhere else (used when a session fails to start, or when stopping
// is already full and p is force-reset straight from active).
func (m *Manager) dropFromActive(p *proxy) {
	if p.elem != nil {
		m.active.Remove(p.elem)
		p.elem = nil
		m.admit.Release(1)
	}
}

// dropFromStopping removes p from the stopping list once its stop has
// completed and it has been returned to the factory, releasing the
// stopAdmit permit gracefulShutdown acquired when it pushed p here.
func (m *Manager) dropFromStopping(p *proxy) {
	if p.elem != nil {
		m.stopping.Remove(p.elem)
		p.elem = nil
		m.stopAdmit.Release(1)
	}
}

// eachProxy visits every proxy currently in l. f may remove the visited
// proxy from l (e.g. moving it to another list); the next element is
// captured before f runs so that is safe.
func eachProxy(l *list.List, f func(*proxy)) {
	e := l.Front()
	for e != nil {
		next := e.Next()
		f(e.Value.(*proxy))
		e = next
	}
}
