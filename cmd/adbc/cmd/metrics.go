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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"goadb/internal/metrics"
)

const metricsShutdownGrace = 5 * time.Second

var metricsListenAddr string

var metricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Short: "Connect to the device and expose Prometheus metrics for the connection over HTTP",
	Long: `serve-metrics opens a device connection instrumented with a metrics
collector and serves it at /metrics until interrupted. It does not open any
streams or run any command on the device itself; any arguments are ignored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg := prometheus.NewRegistry()
		collector := metrics.New(reg)

		conn, cancel, err := connectDevice(ctx)
		if err != nil {
			return fmt.Errorf("connecting to device: %w", err)
		}
		defer cancel()
		defer conn.Close()
		conn.SetMetrics(collector)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: metricsListenAddr, Handler: mux}

		errCh := make(chan error, 1)
		go func() { errCh <- server.ListenAndServe() }()

		fmt.Printf("metrics listening on %s/metrics (session %s)\n", metricsListenAddr, conn.SessionID())

		select {
		case <-ctx.Done():
			return shutdownServer(server)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	},
}

func shutdownServer(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func init() {
	metricsCmd.Flags().StringVar(&metricsListenAddr, "addr", ":9418", "address to serve /metrics on")
}
