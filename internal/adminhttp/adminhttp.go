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

// Package adminhttp is the side HTTP surface for operational visibility
// into a running manager: liveness, prometheus scraping, and a raw JSON
// statistics snapshot. It never touches the echoed byte stream.
package adminhttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nabbar/echosrv/internal/lifecycle"
	"github.com/nabbar/echosrv/internal/logging"
	"github.com/nabbar/echosrv/pkg/sessionmgr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownGrace = 5 * time.Second

// Source is the subset of sessionmgr.Manager the admin surface reads
// from; kept narrow so this package doesn't need a live manager to test.
type Source interface {
	Snapshot() sessionmgr.Snapshot
}

// Server is a gin-routed net/http.Server wrapped in its own
// lifecycle.Runner, independent of the session manager's own
// start/stop: the admin surface can be stopped or restarted without
// affecting in-flight echo sessions.
type Server struct {
	runner *lifecycle.Runner
	srv    *http.Server
	log    *logging.Logger
}

// New builds the admin server bound to addr, reading statistics from
// src and exposing reg's registered prometheus collectors at /metrics.
func New(addr string, src Source, reg *prometheus.Registry, log *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, src.Snapshot())
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	s := &Server{
		srv: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		log: log,
	}
	s.runner = lifecycle.New(s.run, s.shutdown)
	return s
}

func (s *Server) run(ctx context.Context) error {
	s.log.Info("admin http server starting").Field("addr", s.srv.Addr).Log()

	err := s.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("admin http server exited").Err(err).Log()
		return err
	}
	return nil
}

func (s *Server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Warn("admin http server shutdown").Err(err).Log()
	}
}

// Start launches the server in the background. Non-blocking.
func (s *Server) Start() { s.runner.Start() }

// Stop gracefully shuts the server down, waiting for it to fully stop.
func (s *Server) Stop() { s.runner.Stop() }

// IsRunning reports whether the server is currently serving.
func (s *Server) IsRunning() bool { return s.runner.IsRunning() }
