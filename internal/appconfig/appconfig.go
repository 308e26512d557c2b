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

// Package appconfig loads and validates echosrv's configuration. It
// mirrors the teacher's load-then-validate-then-start component shape,
// trimmed to a single flat schema since this repository has exactly one
// manager to construct, not a registry of components.
package appconfig

import (
	"fmt"
	"time"

	"github.com/nabbar/echosrv/pkg/session"
	"github.com/nabbar/echosrv/pkg/sessionmgr"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the fully-loaded, validated application configuration. It
// is immutable once returned by Load: appconfig.Load separates
// construction-time parsing from the steady-state config structs
// handed to sessionmgr and session.
type Config struct {
	Endpoint             string
	MaxSessionCount      int
	RecycledSessionCount int
	MaxStoppingSessions  int
	ListenBacklog        int

	BufferSize           int
	MaxTransferSize      int
	SocketRecvBufferSize *int
	SocketSendBufferSize *int
	NoDelay              *bool
	InactivityTimeout    *time.Duration

	ShardCount int

	AdminListen string

	LogLevel  string
	LogFormat string
}

// defaults mirrors the zero-value-is-valid philosophy of the schema:
// every key is optional except endpoint, which has no default.
func defaults(v *viper.Viper) {
	v.SetDefault("max_session_count", 64)
	v.SetDefault("recycled_session_count", 16)
	v.SetDefault("max_stopping_sessions", 16)
	v.SetDefault("listen_backlog", 128)
	v.SetDefault("buffer_size", 4096)
	v.SetDefault("max_transfer_size", 4096)
	v.SetDefault("shard_count", 1)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// RegisterFlags wires the schema onto a pflag.FlagSet (typically a
// cobra command's Flags()), so `echosrv serve --endpoint ...` and
// environment variables both resolve through the same viper instance.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML configuration file")
	fs.String("endpoint", "", "TCP accept address (host:port)")
	fs.Int("max-session-count", 64, "hard cap on active sessions")
	fs.Int("recycled-session-count", 16, "recycle bin capacity")
	fs.Int("max-stopping-sessions", 16, "concurrent graceful shutdowns")
	fs.Int("listen-backlog", 128, "OS listen queue hint")
	fs.Int("buffer-size", 4096, "cyclic buffer bytes per session")
	fs.Int("max-transfer-size", 4096, "per-operation transfer cap")
	fs.Int("shard-count", 1, "session factory shard count (1 = single pool)")
	fs.String("admin-listen", "", "admin/metrics HTTP address, empty disables it")
	fs.String("log-level", "info", "logging level")
	fs.String("log-format", "text", "logging format: text or json")
	fs.Duration("inactivity-timeout", 0, "per-session idle cap, 0 disables it")
}

// flagKeys maps each dashed flag name (conventional for a CLI) to the
// underscored config key it resolves (shared with YAML and env). viper's
// BindPFlags binds a flag under its literal name, which would otherwise
// leave "shard-count" unreachable from "shard_count" lookups.
var flagKeys = map[string]string{
	"endpoint":               "endpoint",
	"max-session-count":      "max_session_count",
	"recycled-session-count": "recycled_session_count",
	"max-stopping-sessions":  "max_stopping_sessions",
	"listen-backlog":         "listen_backlog",
	"buffer-size":            "buffer_size",
	"max-transfer-size":      "max_transfer_size",
	"shard-count":            "shard_count",
	"admin-listen":           "admin_listen",
	"log-level":              "log_level",
	"log-format":             "log_format",
	"inactivity-timeout":     "inactivity_timeout",
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for flagName, key := range flagKeys {
		f := fs.Lookup(flagName)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// Load reads configuration from an optional YAML file, environment
// variables (ECHOSRV_ prefix), and bound flags, in viper's usual
// override order, then validates the result fail-fast before any
// manager is constructed.
func Load(configPath string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix("echosrv")
	v.AutomaticEnv()

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return Config{}, fmt.Errorf("appconfig: bind flags: %w", err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("appconfig: read config %q: %w", configPath, err)
		}
	}

	cfg := Config{
		Endpoint:             v.GetString("endpoint"),
		MaxSessionCount:      v.GetInt("max_session_count"),
		RecycledSessionCount: v.GetInt("recycled_session_count"),
		MaxStoppingSessions:  v.GetInt("max_stopping_sessions"),
		ListenBacklog:        v.GetInt("listen_backlog"),
		BufferSize:           v.GetInt("buffer_size"),
		MaxTransferSize:      v.GetInt("max_transfer_size"),
		ShardCount:           v.GetInt("shard_count"),
		AdminListen:          v.GetString("admin_listen"),
		LogLevel:             v.GetString("log_level"),
		LogFormat:            v.GetString("log_format"),
	}

	if v.IsSet("no_delay") {
		nd := v.GetBool("no_delay")
		cfg.NoDelay = &nd
	}
	if v.IsSet("socket_recv_buffer_size") {
		n := v.GetInt("socket_recv_buffer_size")
		cfg.SocketRecvBufferSize = &n
	}
	if v.IsSet("socket_send_buffer_size") {
		n := v.GetInt("socket_send_buffer_size")
		cfg.SocketSendBufferSize = &n
	}
	if d := v.GetDuration("inactivity_timeout"); d > 0 {
		cfg.InactivityTimeout = &d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces spec §6's schema constraints fail-fast, before any
// manager or session is constructed.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("appconfig: endpoint is required")
	}
	if c.MaxSessionCount < 1 {
		return fmt.Errorf("appconfig: max_session_count must be >= 1")
	}
	if c.RecycledSessionCount < 0 {
		return fmt.Errorf("appconfig: recycled_session_count must be >= 0")
	}
	if c.MaxStoppingSessions < 0 {
		return fmt.Errorf("appconfig: max_stopping_sessions must be >= 0")
	}
	if c.ListenBacklog < 0 {
		return fmt.Errorf("appconfig: listen_backlog must be >= 0")
	}
	if c.BufferSize < 1 {
		return fmt.Errorf("appconfig: buffer_size must be >= 1")
	}
	if c.MaxTransferSize < 1 {
		return fmt.Errorf("appconfig: max_transfer_size must be >= 1")
	}
	if c.ShardCount < 1 {
		return fmt.Errorf("appconfig: shard_count must be >= 1")
	}
	if c.SocketRecvBufferSize != nil && *c.SocketRecvBufferSize < 0 {
		return fmt.Errorf("appconfig: socket_recv_buffer_size must be >= 0")
	}
	if c.SocketSendBufferSize != nil && *c.SocketSendBufferSize < 0 {
		return fmt.Errorf("appconfig: socket_send_buffer_size must be >= 0")
	}
	if c.InactivityTimeout != nil && *c.InactivityTimeout < 0 {
		return fmt.Errorf("appconfig: inactivity_timeout must be >= 0")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("appconfig: log_format must be %q or %q", "text", "json")
	}
	return nil
}

// SessionConfig projects the steady-state per-session fields out of c,
// the immutable struct handed to every session the manager creates.
func (c Config) SessionConfig() session.Config {
	return session.Config{
		BufferSize:           c.BufferSize,
		MaxTransferSize:      c.MaxTransferSize,
		SocketRecvBufferSize: c.SocketRecvBufferSize,
		SocketSendBufferSize: c.SocketSendBufferSize,
		NoDelay:              c.NoDelay,
		InactivityTimeout:    c.InactivityTimeout,
	}
}

// ManagerConfig projects the manager-level fields out of c, ready to
// pass to sessionmgr.NewManager alongside a factory built from
// ShardCount.
func (c Config) ManagerConfig() sessionmgr.Config {
	return sessionmgr.Config{
		Endpoint:             c.Endpoint,
		MaxSessionCount:      c.MaxSessionCount,
		RecycledSessionCount: c.RecycledSessionCount,
		MaxStoppingSessions:  c.MaxStoppingSessions,
		ListenBacklog:        c.ListenBacklog,
		Session:              c.SessionConfig(),
	}
}
