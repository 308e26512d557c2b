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

// Package errs defines the small taxonomy of error codes a session or
// session manager surfaces to its caller through a wait or stop
// completion, plus the configuration-rejection errors raised before a
// manager is ever constructed.
package errs

import "fmt"

// Code identifies one member of the error taxonomy.
type Code int

const (
	// CodeInvalidState means an operation was requested against a
	// session or manager in a state that does not permit it.
	CodeInvalidState Code = 100

	// CodeOperationAborted means a pending operation was cancelled by
	// a stop request before it could complete on its own.
	CodeOperationAborted Code = 200

	// CodeInactivityTimeout means a session's configured inactivity
	// timer expired with no data transferred during that period.
	CodeInactivityTimeout Code = 300

	// CodeNoMemory means a session or buffer allocation could not be
	// satisfied, typically because a pool or allocator is exhausted.
	CodeNoMemory Code = 400

	// CodeOutOfWork means the manager's acceptor failed for good and no
	// active session remains, so no further work will arrive.
	CodeOutOfWork Code = 500

	// CodeListenFailed means the manager could not bind or listen on
	// its configured address.
	CodeListenFailed Code = 600

	// CodeConfig means a configuration value failed validation before
	// any component was started.
	CodeConfig Code = 700
)

var messages = map[Code]string{
	CodeInvalidState:      "invalid state",
	CodeOperationAborted:  "operation aborted",
	CodeInactivityTimeout: "inactivity timeout",
	CodeNoMemory:          "no memory",
	CodeOutOfWork:         "out of work",
	CodeListenFailed:      "listen failed",
	CodeConfig:            "invalid configuration",
}

// String returns the taxonomy message for c, or "unknown error code" if
// c is not a registered member.
func (c Code) String() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return "unknown error code"
}

// CodeError pairs a Code with the underlying cause, if any.
type CodeError struct {
	Code  Code
	Cause error
}

// New builds a CodeError for code with no underlying cause.
func New(code Code) *CodeError {
	return &CodeError{Code: code}
}

// Wrap builds a CodeError for code that wraps cause.
func Wrap(code Code, cause error) *CodeError {
	return &CodeError{Code: code, Cause: cause}
}

func (e *CodeError) Error() string {
	if e.Cause == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code.String(), e.Cause)
}

func (e *CodeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *CodeError carrying the same Code,
// enabling errors.Is(err, errs.New(errs.CodeInvalidState)) comparisons
// that ignore the wrapped cause.
func (e *CodeError) Is(target error) bool {
	t, ok := target.(*CodeError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
