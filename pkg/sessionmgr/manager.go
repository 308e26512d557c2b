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

// Package sessionmgr implements the accept/dispatch pipeline: a TCP
// acceptor, a session factory, the active/stopping session lists, and
// the statistics a supervisor reads back. It is the orchestration layer
// sitting above pkg/session.
package sessionmgr

import (
	"container/list"
	"context"
	"errors"
	"net"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/nabbar/echosrv/internal/errs"
	"github.com/nabbar/echosrv/internal/logging"
	"github.com/nabbar/echosrv/internal/strand"
	"github.com/nabbar/echosrv/pkg/handlerstore"
	"github.com/nabbar/echosrv/pkg/session"
	"github.com/nabbar/echosrv/pkg/sessionpool"
)

// State is the manager's own lifecycle state, mutated only on its
// strand.
type State int

const (
	StateReady State = iota
	StateWork
	StateStop
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateWork:
		return "work"
	case StateStop:
		return "stop"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// recycledCounter is implemented by pkg/sessionpool's two factories so
// Snapshot can report the recycle-bin occupancy without the Factory
// interface itself needing to carry a statistics-only method.
type recycledCounter interface {
	RecycledTotal() int
}

// Manager drives the accept loop and owns every session it has
// accepted until each is stopped and returned to its factory.
type Manager struct {
	cfg     Config
	factory sessionpool.Factory

	listener net.Listener

	st        *strand.Strand
	waitStore *handlerstore.Storage[error]
	stopStore *handlerstore.Storage[error]

	active   *list.List
	stopping *list.List

	// admit gates how many sessions may occupy active at once; runAcceptLoop
	// acquires a permit before every Accept and releases it exactly where a
	// proxy leaves active (dropFromActive, pushStopping). stopAdmit gates
	// stopping the same way, but non-blocking: gracefulShutdown tries to
	// acquire and force-resets the session when the gate is full.
	admit        *semaphore.Weighted
	stopAdmit    *semaphore.Weighted
	acceptCtx    context.Context
	acceptCancel context.CancelFunc

	stats Stats
	log   *logging.Logger

	state      State
	firstError error
}

// Option customizes a Manager at construction time.
type Option func(*Manager)

// WithLogger attaches log to the manager; every accept and stop it
// logs carries the proxy's uuid under the "session_id" field for
// correlating a connection's lifecycle across the manager's strand and
// the session's own. Without this option the manager logs nowhere.
func WithLogger(log *logging.Logger) Option {
	return func(m *Manager) { m.log = log }
}

func NewManager(cfg Config, factory sessionpool.Factory, opts ...Option) *Manager {
	m := &Manager{
		cfg:       cfg,
		factory:   factory,
		active:    list.New(),
		stopping:  list.New(),
		state:     StateReady,
		admit:     semaphore.NewWeighted(int64(cfg.MaxSessionCount)),
		stopAdmit: semaphore.NewWeighted(int64(cfg.MaxStoppingSessions)),
	}
	m.acceptCtx, m.acceptCancel = context.WithCancel(context.Background())
	m.st = strand.New(64)
	m.waitStore = handlerstore.New[error](m.st)
	m.stopStore = handlerstore.New[error](m.st)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AsyncStart opens the acceptor, binds cfg.Endpoint, starts the accept
// loop, and completes handler. Returns invalid_state if called outside
// StateReady.
func (m *Manager) AsyncStart(handler func(error)) {
	m.st.Post(func() {
		if m.state != StateReady {
			handler(errs.New(errs.CodeInvalidState))
			return
		}

		ln, err := net.Listen("tcp", m.cfg.Endpoint)
		if err != nil {
			m.state = StateStopped
			m.firstError = errs.Wrap(errs.CodeListenFailed, err)
			handler(m.firstError)
			return
		}

		m.listener = ln
		m.state = StateWork
		go m.runAcceptLoop(ln)
		handler(nil)
	})
}

// AsyncWait stores handler to fire once when the manager observes a
// terminal condition: a fatal accept error, the active list draining to
// zero while stopping, or out_of_work.
func (m *Manager) AsyncWait(handler func(error)) {
	m.st.Post(func() {
		if m.waitStore.HasTarget() {
			handler(errs.New(errs.CodeInvalidState))
			return
		}
		m.waitStore.Put(handler)
	})
}

// AsyncStop transitions to StateStop, closes the acceptor, and requests
// stop on every active/stopping session; handler fires once every proxy
// has reached stopped and none remain pending.
func (m *Manager) AsyncStop(handler func(error)) {
	m.st.Post(func() {
		if m.state == StateStopped {
			handler(nil)
			return
		}
		if m.state == StateStop {
			if m.stopStore.HasTarget() {
				handler(errs.New(errs.CodeInvalidState))
				return
			}
			m.stopStore.Put(handler)
			m.maybeCompleteStop()
			return
		}

		m.state = StateStop
		if m.listener != nil {
			_ = m.listener.Close()
		}
		m.acceptCancel()
		m.stopStore.Put(handler)

		eachProxy(m.active, func(p *proxy) { m.requestStop(p) })
		m.maybeCompleteStop()
	})
}

// Addr returns the acceptor's bound address. Only meaningful after
// AsyncStart's handler has fired with a nil error; intended for tests
// and diagnostics (e.g. when Endpoint used an ephemeral ":0" port).
func (m *Manager) Addr() net.Addr {
	result := make(chan net.Addr, 1)
	m.st.Post(func() {
		if m.listener == nil {
			result <- nil
			return
		}
		result <- m.listener.Addr()
	})
	return <-result
}

// Snapshot returns a point-in-time snapshot of every statistic.
func (m *Manager) Snapshot() Snapshot {
	result := make(chan Snapshot, 1)
	m.st.Post(func() {
		var recycled int
		if rc, ok := m.factory.(recycledCounter); ok {
			recycled = rc.RecycledTotal()
		}
		result <- Snapshot{
			Active:           uint64(m.active.Len()),
			Stopping:         uint64(m.stopping.Len()),
			Recycled:         uint64(recycled),
			MaxActive:        m.stats.MaxActive(),
			TotalAccepted:    m.stats.TotalAccepted.Load(),
			ActiveShutdowned: m.stats.ActiveShutdowned.Load(),
			OutOfWork:        m.stats.OutOfWork.Load(),
			TimedOut:         m.stats.TimedOut.Load(),
			ErrorStopped:     m.stats.ErrorStopped.Load(),
		}
	})
	return <-result
}

// runAcceptLoop only re-issues Accept once a permit on admit is free,
// so a listener at capacity leaves excess connections sitting in the OS
// backlog instead of accepting and closing them.
func (m *Manager) runAcceptLoop(ln net.Listener) {
	for {
		if err := m.admit.Acquire(m.acceptCtx, 1); err != nil {
			return
		}

		conn, err := ln.Accept()
		m.st.Post(func() { m.onAccept(conn, err) })
		if err != nil {
			m.admit.Release(1)
			return
		}
	}
}

func (m *Manager) onAccept(conn net.Conn, err error) {
	if m.state != StateWork {
		if conn != nil {
			_ = conn.Close()
		}
		m.admit.Release(1)
		return
	}

	if err != nil {
		m.admit.Release(1)
		m.onAcceptError(err)
		return
	}

	sess, ok := m.factory.Create(m.cfg.Session)
	if !ok {
		m.admit.Release(1)
		m.stats.ErrorStopped.Add(1)
		_ = conn.Close()
		return
	}

	sc, ok := conn.(session.Conn)
	if !ok {
		m.admit.Release(1)
		m.stats.ErrorStopped.Add(1)
		_ = conn.Close()
		m.factory.Release(sess)
		return
	}

	p := &proxy{id: uuid.New(), sess: sess, state: ProxyStart, remote: conn.RemoteAddr(), pending: 1}
	m.pushActive(p)
	m.stats.TotalAccepted.Add(1)
	m.stats.bumpMaxActive(uint64(m.active.Len()))

	if m.log != nil {
		m.log.Info("session accepted").Field("session_id", p.id).Field("remote", p.remote).Log()
	}

	sess.Attach(sc)
	sess.AsyncStart(func(err error) {
		m.st.Post(func() { m.onSessionStarted(p, err) })
	})
}

func (m *Manager) onAcceptError(err error) {
	m.firstError = err

	if m.state == StateStop {
		// We closed the listener ourselves; this is expected, not a
		// fault, and does not count as out_of_work.
		return
	}

	var netErr net.Error
	fatal := !errors.As(err, &netErr) || !netErr.Temporary()
	if fatal {
		if m.active.Len() == 0 {
			m.stats.OutOfWork.Add(1)
			m.fireWait(errs.New(errs.CodeOutOfWork))
		}
		// If sessions are still active, out_of_work is reported once they
		// drain; see onSessionStopped's call to maybeReportDrainedOutOfWork.
	}
}

func (m *Manager) onSessionStarted(p *proxy, err error) {
	p.pending--
	if err != nil {
		p.state = ProxyStopped
		m.dropFromActive(p)
		m.stats.ErrorStopped.Add(1)
		m.factory.Release(p.sess)
		m.maybeCompleteStop()
		return
	}

	p.state = ProxyWork
	p.pending++
	p.sess.AsyncWait(func(err error) {
		m.st.Post(func() { m.onSessionWaitDone(p, err) })
	})
}

func (m *Manager) onSessionWaitDone(p *proxy, err error) {
	p.pending--

	var ce *errs.CodeError
	switch {
	case errors.As(err, &ce) && ce.Code == errs.CodeOperationAborted:
		// The manager itself requested this stop; no extra accounting.
	case errors.As(err, &ce) && ce.Code == errs.CodeInactivityTimeout:
		m.stats.TimedOut.Add(1)
	case err == nil:
		m.stats.ActiveShutdowned.Add(1)
	default:
		m.stats.ErrorStopped.Add(1)
	}

	m.gracefulShutdown(p)
}

// requestStop is the manager-initiated path into shutdown (used by
// AsyncStop to fan out to every active session).
func (m *Manager) requestStop(p *proxy) {
	if p.state == ProxyStop || p.state == ProxyStopped {
		return
	}
	m.gracefulShutdown(p)
}

func (m *Manager) gracefulShutdown(p *proxy) {
	if p.state == ProxyStop || p.state == ProxyStopped {
		return
	}

	if !m.stopAdmit.TryAcquire(1) {
		// No room to track this session as a graceful shutdown in
		// progress: drop it straight to stopped and let AsyncStop run its
		// own (still strand-safe) teardown instead of reaching into the
		// session from outside its strand.
		p.state = ProxyStopped
		m.dropFromActive(p)
		p.pending++
		p.sess.AsyncStop(func(err error) {
			m.st.Post(func() { m.onForceStopped(p) })
		})
		return
	}

	p.state = ProxyStop
	m.pushStopping(p)
	p.pending++
	p.sess.AsyncStop(func(err error) {
		m.st.Post(func() { m.onSessionStopped(p, err) })
	})
}

// onForceStopped completes the over-capacity stopping path: the proxy
// was already dropped from active (never added to stopping) when the
// stop was requested, so only the factory return remains.
func (m *Manager) onForceStopped(p *proxy) {
	p.pending--
	m.factory.Release(p.sess)
	m.maybeReportDrainedOutOfWork()
	m.maybeCompleteStop()
}

func (m *Manager) onSessionStopped(p *proxy, err error) {
	p.pending--
	p.state = ProxyStopped
	m.dropFromStopping(p)
	m.factory.Release(p.sess)

	if m.log != nil {
		m.log.Info("session stopped").Field("session_id", p.id).Err(err).Log()
	}

	m.maybeReportDrainedOutOfWork()
	m.maybeCompleteStop()
}

// maybeReportDrainedOutOfWork fires out_of_work once the active list
// has drained to zero after a fatal, manager-unintended accept failure
// (the listener died while sessions were still in flight).
func (m *Manager) maybeReportDrainedOutOfWork() {
	if m.state != StateWork {
		return
	}
	if m.firstError == nil || m.active.Len() != 0 {
		return
	}
	m.stats.OutOfWork.Add(1)
	m.fireWait(errs.New(errs.CodeOutOfWork))
}

func (m *Manager) fireWait(err error) {
	m.waitStore.Post(err)
}

func (m *Manager) maybeCompleteStop() {
	if m.state != StateStop {
		return
	}
	if m.active.Len() != 0 || m.stopping.Len() != 0 {
		return
	}
	m.state = StateStopped
	m.fireWait(m.firstError)
	m.stopStore.Post(m.firstError)
}
