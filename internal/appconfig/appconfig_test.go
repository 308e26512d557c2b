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

package appconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nabbar/echosrv/internal/appconfig"
	"github.com/spf13/pflag"
)

func writeYAML(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "echosrv.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromYAMLAppliesDefaults(t *testing.T) {
	path := writeYAML(t, "endpoint: 127.0.0.1:9000\n")

	cfg, err := appconfig.Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "127.0.0.1:9000" {
		t.Fatalf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.MaxSessionCount != 64 || cfg.BufferSize != 4096 || cfg.ShardCount != 1 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadRejectsMissingEndpoint(t *testing.T) {
	path := writeYAML(t, "max_session_count: 4\n")

	if _, err := appconfig.Load(path, nil); err == nil {
		t.Fatalf("expected validation error for missing endpoint")
	}
}

func TestLoadRejectsInvalidLogFormat(t *testing.T) {
	path := writeYAML(t, "endpoint: 127.0.0.1:9000\nlog_format: xml\n")

	if _, err := appconfig.Load(path, nil); err == nil {
		t.Fatalf("expected validation error for bad log_format")
	}
}

func TestLoadBindsFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	appconfig.RegisterFlags(fs)
	if err := fs.Parse([]string{"--endpoint=127.0.0.1:9001", "--shard-count=3"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := appconfig.Load("", fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "127.0.0.1:9001" || cfg.ShardCount != 3 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestSessionAndManagerConfigProjections(t *testing.T) {
	path := writeYAML(t, "endpoint: 127.0.0.1:9000\nbuffer_size: 128\nmax_transfer_size: 64\n")

	cfg, err := appconfig.Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	sc := cfg.SessionConfig()
	if sc.BufferSize != 128 || sc.MaxTransferSize != 64 {
		t.Fatalf("session config projection mismatch: %+v", sc)
	}
	if err := sc.Validate(); err != nil {
		t.Fatalf("projected session config invalid: %v", err)
	}

	mc := cfg.ManagerConfig()
	if mc.Endpoint != cfg.Endpoint || mc.Session.BufferSize != 128 {
		t.Fatalf("manager config projection mismatch: %+v", mc)
	}
	if err := mc.Validate(); err != nil {
		t.Fatalf("projected manager config invalid: %v", err)
	}
}
