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

// Package lifecycle provides a start/stop/restart wrapper for a
// long-lived background component; the admin HTTP surface sits behind
// one of these. Sessions and the session manager serialize their work
// on an internal/strand.Strand instead.
package lifecycle

import (
	"context"
	"sync"
)

// StartFunc launches the wrapped work. It receives a context that is
// cancelled when Stop is called, and must return once the work has
// wound down (or promptly, if it launches its own goroutines that watch
// ctx themselves).
type StartFunc func(ctx context.Context) error

// StopFunc runs synchronously during Stop, after the start context has
// been cancelled, to release anything StartFunc does not watch ctx for
// itself. May be nil.
type StopFunc func()

// Runner wraps a start/stop pair with idempotent Start/Stop and a live
// IsRunning check. Zero value is not usable; construct with New.
type Runner struct {
	mu      sync.Mutex
	start   StartFunc
	stop    StopFunc
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New returns a Runner wrapping start and stop. stop may be nil.
func New(start StartFunc, stop StopFunc) *Runner {
	return &Runner{start: start, stop: stop}
}

// Start stops any prior running instance, then launches start in its
// own goroutine. Returns once the goroutine has been launched; start's
// own error is not observable here (by design: a session manager learns
// of an async_start failure through its completion handler, not through
// Start's return value).
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true

	done := r.done
	go func() {
		defer close(done)
		_ = r.start(ctx)
	}()
}

// Stop cancels the running instance's context, runs the stop hook, and
// waits for the start goroutine to return. Idempotent: calling Stop
// when nothing is running is a no-op.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Runner) stopLocked() {
	if !r.running {
		return
	}

	r.cancel()
	if r.stop != nil {
		r.stop()
	}
	<-r.done
	r.running = false
}

// IsRunning reports whether a start goroutine is currently live.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}
