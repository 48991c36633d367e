// Copyright © 2017 Brian Sorahan <bsorahan@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/scgolang/wingsync/control"
	"github.com/scgolang/wingsync/metrics"
	"github.com/scgolang/wingsync/namesync"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a control server for a hosting shell",
	Long: `Start a control server for a hosting shell.

The server accepts OSC commands on the control address:

  /wingsync/transfer     console recorder group
  /wingsync/record/start recorder
  /wingsync/record/stop  recorder

and answers every command with /wingsync/log lines sent back to the
sender. Only one transfer runs at a time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		var (
			engine = namesync.NewEngine(cfg.Engine(), log)
			srv    = control.NewServer(control.ServerConfig{
				Addr:         cfg.ControlAddr,
				RecorderPort: cfg.RecorderPort,
			}, engine, log)
		)
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			return errors.Wrap(srv.Run(gctx), "running control server")
		})
		if cfg.MetricsAddr != "" {
			g.Go(func() error {
				return serveMetrics(gctx, cfg.MetricsAddr)
			})
		}
		return g.Wait()
	},
}

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&cfg.ControlAddr, "control-addr", cfg.ControlAddr, "listen address for control messages")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "listen address for Prometheus metrics (disabled if empty)")
	addEngineFlags(flags)

	RootCmd.AddCommand(serveCmd)
}

// serveMetrics exposes the Prometheus registry until ctx is done.
func serveMetrics(ctx context.Context, addr string) error {
	metrics.Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	hs := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = hs.Shutdown(sctx)
	}()
	log.Info().Str("addr", addr).Msg("metrics listening")

	if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "serving metrics")
	}
	return nil
}
