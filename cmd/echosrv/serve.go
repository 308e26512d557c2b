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
	"fmt"
	"os/signal"
	"syscall"

	"github.com/nabbar/echosrv/internal/adminhttp"
	"github.com/nabbar/echosrv/internal/appconfig"
	"github.com/nabbar/echosrv/internal/logging"
	"github.com/nabbar/echosrv/internal/metrics"
	"github.com/nabbar/echosrv/pkg/sessionmgr"
	"github.com/nabbar/echosrv/pkg/sessionpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// exitError carries a process exit code alongside the error cobra
// reports, so run can translate the taxonomy in spec §7 into the
// concrete codes §3.3 commits to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCodeOf(err error) (int, bool) {
	if ee, ok := err.(*exitError); ok {
		return ee.code, true
	}
	return 0, false
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the echo server and block until a stop signal arrives.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return serve(cmd, configPath)
		},
	}

	appconfig.RegisterFlags(cmd.Flags())

	return cmd
}

func serve(cmd *cobra.Command, configPath string) error {
	cfg, err := appconfig.Load(configPath, cmd.Flags())
	if err != nil {
		return &exitError{code: exitConfigInvalid, err: err}
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &exitError{code: exitConfigInvalid, err: fmt.Errorf("serve: %w", err)}
	}
	log := logging.New("echosrv", level, cfg.LogFormat)

	factory := newFactory(cfg)
	manager := sessionmgr.NewManager(cfg.ManagerConfig(), factory, sessionmgr.WithLogger(log))

	var admin *adminhttp.Server
	if cfg.AdminListen != "" {
		reg := prometheus.NewRegistry()
		metrics.NewCollector(manager).MustRegister(reg)
		admin = adminhttp.New(cfg.AdminListen, manager, reg, logging.New("adminhttp", level, cfg.LogFormat))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	startErr := make(chan error, 1)
	manager.AsyncStart(func(err error) { startErr <- err })
	if err := <-startErr; err != nil {
		return &exitError{code: exitConfigInvalid, err: fmt.Errorf("serve: %w", err)}
	}
	log.Info("echosrv listening").Field("endpoint", cfg.Endpoint).Log()

	if admin != nil {
		admin.Start()
		log.Info("admin http surface listening").Field("addr", cfg.AdminListen).Log()
	}

	waitErr := make(chan error, 1)
	manager.AsyncWait(func(err error) { waitErr <- err })

	var terminal error
	select {
	case <-ctx.Done():
		log.Info("stop signal received").Log()
		terminal = stopManager(manager, waitErr)
	case terminal = <-waitErr:
		log.Warn("manager terminated unexpectedly").Err(terminal).Log()
	}

	if admin != nil {
		admin.Stop()
	}

	if terminal != nil {
		return &exitError{code: exitManagerFailed, err: fmt.Errorf("serve: %w", terminal)}
	}
	return nil
}

// stopManager requests a graceful manager stop and waits for the
// already-issued async_wait to observe it, so serve always resolves
// through one completion handler instead of racing stop against wait.
func stopManager(manager *sessionmgr.Manager, waitErr chan error) error {
	stopDone := make(chan error, 1)
	manager.AsyncStop(func(err error) { stopDone <- err })

	select {
	case err := <-stopDone:
		<-waitErr
		return err
	case err := <-waitErr:
		return err
	}
}

func newFactory(cfg appconfig.Config) sessionpool.Factory {
	if cfg.ShardCount <= 1 {
		return sessionpool.NewSingle(cfg.RecycledSessionCount)
	}

	per := cfg.RecycledSessionCount / cfg.ShardCount
	shards := make([]int, cfg.ShardCount)
	for i := range shards {
		shards[i] = per
	}
	return sessionpool.NewSharded(shards)
}
