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

// Package metrics exposes a sessionmgr.Manager's statistics as
// prometheus gauges. Every gauge is backed by a GaugeFunc that reads
// straight through to Manager.Snapshot() on scrape: the stats are
// already atomic-backed, so there is nothing to synchronize here.
package metrics

import (
	"github.com/nabbar/echosrv/pkg/sessionmgr"
	"github.com/prometheus/client_golang/prometheus"
)

// Source is the subset of sessionmgr.Manager that Register needs. A
// narrow interface keeps this package testable without a live TCP
// listener.
type Source interface {
	Snapshot() sessionmgr.Snapshot
}

// Collector registers a fixed set of GaugeFuncs against a
// prometheus.Registerer, one per field of sessionmgr.Snapshot.
type Collector struct {
	gauges []prometheus.Collector
}

// NewCollector builds the gauge set reading from src. Call Register to
// attach it to a prometheus.Registerer.
func NewCollector(src Source) *Collector {
	field := func(name, help string, get func(sessionmgr.Snapshot) uint64) prometheus.Collector {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "echosrv",
				Subsystem: "sessions",
				Name:      name,
				Help:      help,
			},
			func() float64 { return float64(get(src.Snapshot())) },
		)
	}

	return &Collector{gauges: []prometheus.Collector{
		field("active", "Sessions currently active.", func(s sessionmgr.Snapshot) uint64 { return s.Active }),
		field("max_active", "Highest number of sessions ever active simultaneously.", func(s sessionmgr.Snapshot) uint64 { return s.MaxActive }),
		field("recycled", "Sessions currently sitting in a factory recycle bin.", func(s sessionmgr.Snapshot) uint64 { return s.Recycled }),
		field("total_accepted", "Total connections accepted since start.", func(s sessionmgr.Snapshot) uint64 { return s.TotalAccepted }),
		field("active_shutdowned", "Sessions that reached end-of-stream and shut down in order.", func(s sessionmgr.Snapshot) uint64 { return s.ActiveShutdowned }),
		field("out_of_work", "Times the manager observed no further work would arrive.", func(s sessionmgr.Snapshot) uint64 { return s.OutOfWork }),
		field("timed_out", "Sessions closed by the inactivity timer.", func(s sessionmgr.Snapshot) uint64 { return s.TimedOut }),
		field("error_stopped", "Sessions that terminated on an unclassified error.", func(s sessionmgr.Snapshot) uint64 { return s.ErrorStopped }),
	}}
}

// Register attaches every gauge to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, g := range c.gauges {
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is Register, panicking on error, for call sites that
// treat a metrics-registration failure as a startup bug.
func (c *Collector) MustRegister(reg prometheus.Registerer) {
	for _, g := range c.gauges {
		reg.MustRegister(g)
	}
}
