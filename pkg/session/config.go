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

package session

import (
	"fmt"
	"time"
)

// Config is immutable once a session is constructed from it.
type Config struct {
	BufferSize            int
	MaxTransferSize       int
	SocketRecvBufferSize  *int
	SocketSendBufferSize  *int
	NoDelay               *bool
	InactivityTimeout     *time.Duration
}

// Validate rejects a Config before any session is built from it.
func (c Config) Validate() error {
	if c.BufferSize <= 0 {
		return fmt.Errorf("session: buffer_size must be > 0, got %d", c.BufferSize)
	}
	if c.MaxTransferSize <= 0 {
		return fmt.Errorf("session: max_transfer_size must be > 0, got %d", c.MaxTransferSize)
	}
	if c.SocketRecvBufferSize != nil && *c.SocketRecvBufferSize < 0 {
		return fmt.Errorf("session: socket_recv_buffer_size must be >= 0")
	}
	if c.SocketSendBufferSize != nil && *c.SocketSendBufferSize < 0 {
		return fmt.Errorf("session: socket_send_buffer_size must be >= 0")
	}
	if c.InactivityTimeout != nil && *c.InactivityTimeout < 0 {
		return fmt.Errorf("session: inactivity_timeout must be >= 0")
	}
	return nil
}

const (
	readAllocSize  = 256
	writeAllocSize = 640
)
