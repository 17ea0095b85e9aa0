/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package metrics exposes Prometheus instrumentation for adb connections:
// streams opened and currently live, bytes moved in each direction, and
// protocol errors broken down by taxonomy kind.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector tracks counters and gauges for one or more adb.Connections. The
// zero value is not usable; construct with New. A nil *Collector is safe to
// call methods on — every method is a no-op — so callers that don't care
// about metrics can pass nil.
type Collector struct {
	streamsOpened  prometheus.Counter
	streamsLive    prometheus.Gauge
	bytesSent      prometheus.Counter
	bytesReceived  prometheus.Counter
	protocolErrors *prometheus.CounterVec
}

// New constructs a Collector and registers its metrics with reg. Passing a
// fresh prometheus.NewRegistry() keeps tests isolated from the default
// global registry; production code typically passes
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		streamsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adb_streams_opened_total",
			Help: "Total number of logical streams opened.",
		}),
		streamsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "adb_streams_live",
			Help: "Number of logical streams currently open.",
		}),
		bytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adb_bytes_sent_total",
			Help: "Total payload bytes written to the wire.",
		}),
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adb_bytes_received_total",
			Help: "Total payload bytes read from the wire.",
		}),
		protocolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adb_protocol_errors_total",
			Help: "Protocol-level errors observed, by taxonomy kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(c.streamsOpened, c.streamsLive, c.bytesSent, c.bytesReceived, c.protocolErrors)
	return c
}

func (c *Collector) StreamOpened() {
	if c == nil {
		return
	}
	c.streamsOpened.Inc()
	c.streamsLive.Inc()
}

func (c *Collector) StreamClosed() {
	if c == nil {
		return
	}
	c.streamsLive.Dec()
}

func (c *Collector) BytesSent(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.bytesSent.Add(float64(n))
}

func (c *Collector) BytesReceived(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.bytesReceived.Add(float64(n))
}

func (c *Collector) ProtocolError(kind string) {
	if c == nil {
		return
	}
	c.protocolErrors.WithLabelValues(kind).Inc()
}
