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

// Package session implements a single TCP echo session: its lifecycle
// state machine and the cyclic-buffer read/write loop that drives it.
// All state is mutated only from the session's own strand; callers
// interact with it exclusively through the three async operations.
package session

import (
	"io"
	"net"
	"time"

	"github.com/nabbar/echosrv/internal/errs"
	"github.com/nabbar/echosrv/internal/strand"
	"github.com/nabbar/echosrv/pkg/allocator"
	"github.com/nabbar/echosrv/pkg/cyclicbuf"
	"github.com/nabbar/echosrv/pkg/handlerstore"
)

// Conn is the subset of *net.TCPConn a Session needs. Satisfied by the
// stdlib type; defined as an interface so tests can fake it.
type Conn interface {
	net.Conn
	CloseWrite() error
	SetReadBuffer(bytes int) error
	SetWriteBuffer(bytes int) error
	SetNoDelay(noDelay bool) error
}

// Session owns one TCP connection and echoes bytes read from it back in
// order. Construct with New; attach a connection with Attach before
// calling AsyncStart.
type Session struct {
	cfg Config

	conn Conn
	buf  *cyclicbuf.Buffer

	st *strand.Strand

	waitStore *handlerstore.Storage[error]
	stopStore *handlerstore.Storage[error]

	readAlloc  *allocator.Allocator
	writeAlloc *allocator.Allocator

	state          State
	readInProgress bool
	writeInProgress bool

	// stopRequested records an AsyncStop that arrived while still in
	// StateStart, where there is no socket half to shut down yet and no
	// work loop to drain. AsyncStart's completion honors it once the
	// session would otherwise have moved on into StateWork.
	stopRequested bool

	firstError error
	waitFired  bool

	timer *time.Timer
}

// New constructs a Session in StateReady from cfg. The strand it runs
// on is created and owned by the session; Close releases it.
func New(cfg Config) *Session {
	s := &Session{
		cfg:        cfg,
		buf:        cyclicbuf.New(cfg.BufferSize),
		st:         strand.New(16),
		readAlloc:  allocator.New(readAllocSize),
		writeAlloc: allocator.New(writeAllocSize),
		state:      StateReady,
	}
	s.waitStore = handlerstore.New[error](s.st)
	s.stopStore = handlerstore.New[error](s.st)
	return s
}

// Close releases the session's strand goroutine. Call once the session
// will never be reused (i.e. it is being dropped, not recycled).
func (s *Session) Close() {
	s.st.Close()
}

// State returns the session's current lifecycle state. Intended for
// diagnostics; the authoritative state is only ever touched on the
// strand.
func (s *Session) State() State {
	result := make(chan State, 1)
	s.st.Post(func() { result <- s.state })
	return <-result
}

// Reset restores a stopped session to StateReady so the factory can
// recycle it without reallocating its buffer or allocators.
func (s *Session) Reset() {
	done := make(chan struct{})
	s.st.Post(func() {
		s.conn = nil
		s.buf.Reset()
		s.state = StateReady
		s.readInProgress = false
		s.writeInProgress = false
		s.stopRequested = false
		s.firstError = nil
		s.waitFired = false
		s.stopTimer()
		close(done)
	})
	<-done
}

// Attach binds conn to the session ahead of AsyncStart. Must be called
// while the session is in StateReady.
func (s *Session) Attach(conn Conn) {
	done := make(chan struct{})
	s.st.Post(func() {
		s.conn = conn
		close(done)
	})
	<-done
}

// AsyncStart moves ready -> start -> work, applying socket options
// along the way, and invokes handler with the result. Returns
// invalid_state through handler if called outside StateReady.
func (s *Session) AsyncStart(handler func(error)) {
	s.st.Post(func() {
		if s.state != StateReady {
			handler(errs.New(errs.CodeInvalidState))
			return
		}

		s.state = StateStart
		if err := s.applySocketOptions(); err != nil {
			s.firstError = err
			s.state = StateStopped
			handler(err)
			return
		}

		s.state = StateWork
		if s.stopRequested {
			s.stopRequested = false
			s.state = StateShutdown
			if s.conn != nil {
				_ = s.conn.CloseWrite()
			}
		} else {
			s.armTimer()
		}
		s.evaluate()
		handler(nil)
	})
}

func (s *Session) applySocketOptions() error {
	if s.conn == nil {
		return nil
	}
	if s.cfg.SocketRecvBufferSize != nil {
		if err := s.conn.SetReadBuffer(*s.cfg.SocketRecvBufferSize); err != nil {
			return err
		}
	}
	if s.cfg.SocketSendBufferSize != nil {
		if err := s.conn.SetWriteBuffer(*s.cfg.SocketSendBufferSize); err != nil {
			return err
		}
	}
	if s.cfg.NoDelay != nil {
		if err := s.conn.SetNoDelay(*s.cfg.NoDelay); err != nil {
			return err
		}
	}
	return nil
}

// AsyncWait stores handler to be invoked once when the work loop
// terminates: first non-recoverable error, inactivity timeout, or stop
// request. A second concurrent AsyncWait before the first has fired
// receives invalid_state immediately.
func (s *Session) AsyncWait(handler func(error)) {
	s.st.Post(func() {
		if s.waitStore.HasTarget() || s.waitFired {
			handler(errs.New(errs.CodeInvalidState))
			return
		}
		s.waitStore.Put(handler)
	})
}

// AsyncStop requests graceful shutdown: work -> shutdown, shutting down
// the write half of the socket so the peer observes EOF and cancelling
// any in-flight read, then waiting for in-flight I/O to complete before
// transitioning to stopped. Calling it from ready stops the session
// immediately. Idempotent: a call on a stopped session is invoked
// immediately with the session's recorded outcome; a call while shutdown
// is already underway attaches handler as the stop target if none is
// resident yet, or receives invalid_state immediately otherwise.
func (s *Session) AsyncStop(handler func(error)) {
	s.st.Post(func() {
		switch s.state {
		case StateReady:
			s.state = StateStopped
			handler(nil)
			return
		case StateStopped:
			handler(s.firstError)
			return
		}

		if s.stopStore.HasTarget() {
			handler(errs.New(errs.CodeInvalidState))
			return
		}
		s.stopStore.Put(handler)

		switch s.state {
		case StateStart:
			// AsyncStart is still in flight on this same strand; there is
			// no socket half to close yet and no work loop to drain. Its
			// completion will carry this request into StateShutdown.
			s.stopRequested = true
		case StateWork:
			s.state = StateShutdown
			if s.conn != nil {
				_ = s.conn.CloseWrite()
			}
		}
		if s.conn != nil {
			_ = s.conn.SetReadDeadline(time.Now())
		}
		s.fireWait(errs.New(errs.CodeOperationAborted))
		s.evaluate()
	})
}

// fireWait posts err to the wait target exactly once per session
// lifecycle. Must run on the strand.
func (s *Session) fireWait(err error) {
	if s.waitFired {
		return
	}
	s.waitFired = true
	if s.firstError == nil {
		s.firstError = err
	}
	s.waitStore.Post(err)
}

// evaluate re-checks the read/write issuance conditions and the
// shutdown-completion condition. Must run on the strand.
func (s *Session) evaluate() {
	if s.state != StateWork && s.state != StateShutdown {
		return
	}

	if !s.readInProgress && !s.waitFired && s.buf.Free() > 0 && s.conn != nil {
		s.issueRead()
	}
	if !s.writeInProgress && s.buf.Filled() > 0 && s.conn != nil {
		s.issueWrite()
	}

	if s.state == StateShutdown && !s.readInProgress && !s.writeInProgress {
		s.state = StateStop
		s.stopTimer()
		if s.conn != nil {
			_ = s.conn.Close()
		}
		s.state = StateStopped
		s.stopStore.Post(s.firstError)
	}
}

func (s *Session) issueRead() {
	segs := s.buf.Prepared()
	if len(segs) == 0 {
		return
	}
	dst := segs[0]
	if len(dst) > s.cfg.MaxTransferSize {
		dst = dst[:s.cfg.MaxTransferSize]
	}

	scratch := s.readAlloc.Allocate(len(dst))
	s.readInProgress = true
	conn := s.conn

	go func() {
		n, err := conn.Read(scratch)
		s.st.Post(func() {
			s.onReadComplete(dst, scratch, n, err)
		})
	}()
}

func (s *Session) onReadComplete(dst, scratch []byte, n int, err error) {
	s.readInProgress = false
	if n > 0 {
		copy(dst[:n], scratch[:n])
		s.buf.Commit(n)
		s.resetTimer()
	}
	s.readAlloc.Deallocate(scratch)

	if err != nil {
		if err == io.EOF {
			s.fireWait(nil)
		} else {
			if s.firstError == nil {
				s.firstError = err
			}
			s.fireWait(err)
		}
	}
	s.evaluate()
}

func (s *Session) issueWrite() {
	segs := s.buf.Data()
	if len(segs) == 0 {
		return
	}
	src := segs[0]
	if len(src) > s.cfg.MaxTransferSize {
		src = src[:s.cfg.MaxTransferSize]
	}

	scratch := s.writeAlloc.Allocate(len(src))
	copy(scratch, src)
	s.writeInProgress = true
	conn := s.conn

	go func() {
		n, err := conn.Write(scratch[:len(src)])
		s.st.Post(func() {
			s.onWriteComplete(scratch, n, err)
		})
	}()
}

func (s *Session) onWriteComplete(scratch []byte, n int, err error) {
	s.writeInProgress = false
	if n > 0 {
		s.buf.Consume(n)
		s.resetTimer()
	}
	s.writeAlloc.Deallocate(scratch)

	if err != nil {
		if s.firstError == nil {
			s.firstError = err
		}
		s.fireWait(err)
	}
	s.evaluate()
}

func (s *Session) armTimer() {
	if s.cfg.InactivityTimeout == nil {
		return
	}
	d := *s.cfg.InactivityTimeout
	s.timer = time.AfterFunc(d, func() {
		s.st.Post(func() {
			if s.state != StateWork {
				return
			}
			s.fireWait(errs.New(errs.CodeInactivityTimeout))
			s.state = StateShutdown
			if s.conn != nil {
				_ = s.conn.CloseWrite()
			}
			s.evaluate()
		})
	})
}

func (s *Session) resetTimer() {
	if s.timer != nil {
		s.timer.Reset(*s.cfg.InactivityTimeout)
	}
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
	}
}
