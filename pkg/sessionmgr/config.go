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
	"fmt"

	"github.com/nabbar/echosrv/pkg/session"
)

// Config configures a Manager. Immutable once the manager is built.
type Config struct {
	Endpoint              string
	MaxSessionCount       int
	RecycledSessionCount  int
	MaxStoppingSessions   int
	ListenBacklog         int
	Session               session.Config
}

// Validate rejects a Config before any manager is constructed from it,
// matching the fail-fast contract: configuration rejection never
// surfaces as a runtime start failure.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("sessionmgr: endpoint must be set")
	}
	if c.MaxSessionCount < 1 {
		return fmt.Errorf("sessionmgr: max_session_count must be >= 1, got %d", c.MaxSessionCount)
	}
	if c.RecycledSessionCount < 0 {
		return fmt.Errorf("sessionmgr: recycled_session_count must be >= 0")
	}
	if c.MaxStoppingSessions < 0 {
		return fmt.Errorf("sessionmgr: max_stopping_sessions must be >= 0")
	}
	if c.ListenBacklog < 0 {
		return fmt.Errorf("sessionmgr: listen_backlog must be >= 0")
	}
	return c.Session.Validate()
}
