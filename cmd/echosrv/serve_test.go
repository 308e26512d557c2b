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

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExitCodeOfUnwrapsExitError(t *testing.T) {
	wrapped := &exitError{code: exitManagerFailed, err: errors.New("boom")}
	code, ok := exitCodeOf(wrapped)
	if !ok || code != exitManagerFailed {
		t.Fatalf("exitCodeOf = %d, %v", code, ok)
	}

	if _, ok := exitCodeOf(errors.New("plain")); ok {
		t.Fatalf("expected plain error to not carry an exit code")
	}
}

func TestRunReturnsConfigInvalidWithoutEndpoint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "echosrv.yaml")
	if err := os.WriteFile(path, []byte("max_session_count: 4\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	code := run([]string{"serve", "--config", path})
	if code != exitConfigInvalid {
		t.Fatalf("exit code = %d, want %d", code, exitConfigInvalid)
	}
}

func TestRunServeStartsAndStopsOnSignal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "echosrv.yaml")
	contents := "endpoint: 127.0.0.1:0\nbuffer_size: 64\nmax_transfer_size: 32\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	done := make(chan int, 1)
	go func() { done <- run([]string{"serve", "--config", path}) }()

	// serve blocks on a stop signal; send one to this process after a
	// short delay so the test doesn't hang if startup fails silently.
	time.Sleep(100 * time.Millisecond)
	proc, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatalf("find self: %v", err)
	}
	if err := proc.Signal(os.Interrupt); err != nil {
		t.Fatalf("signal self: %v", err)
	}

	select {
	case code := <-done:
		if code != exitOK {
			t.Fatalf("exit code = %d, want %d", code, exitOK)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not return after SIGINT")
	}
}
