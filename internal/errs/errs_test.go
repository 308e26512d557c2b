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

package errs_test

import (
	"errors"
	"testing"

	"github.com/nabbar/echosrv/internal/errs"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := errs.Wrap(errs.CodeInactivityTimeout, cause)

	if err.Error() != "inactivity timeout: connection reset" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected Unwrap to expose the cause to errors.Is")
	}
}

func TestIsMatchesByCodeIgnoringCause(t *testing.T) {
	a := errs.Wrap(errs.CodeNoMemory, errors.New("pool exhausted"))
	b := errs.New(errs.CodeNoMemory)

	if !errors.Is(a, b) {
		t.Fatalf("expected errors with the same code to match via errors.Is")
	}

	c := errs.New(errs.CodeInvalidState)
	if errors.Is(a, c) {
		t.Fatalf("errors with different codes must not match")
	}
}

func TestUnknownCodeStringsFallback(t *testing.T) {
	var unknown errs.Code = 999
	if unknown.String() != "unknown error code" {
		t.Fatalf("unexpected string for unregistered code: %q", unknown.String())
	}
}
