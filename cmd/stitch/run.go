package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/stitch"
	httpadapter "github.com/aretw0/stitch/pkg/adapters/http"
	"github.com/aretw0/stitch/pkg/metrics"
)

func run(cmd *cobra.Command, f *flags) error {
	logger := newLogger(cmd.ErrOrStderr(), f.verbose)

	fc, err := stitch.LoadConfig(f.config)
	if err != nil {
		return err
	}
	if fc.Source != "" {
		logger.Debug("loaded config", "path", fc.Source)
	}

	reg := prometheus.NewRegistry()
	opts := append(fc.Options(),
		stitch.WithClean(f.clean),
		stitch.WithDryRun(f.dryRun),
		stitch.WithReload(!f.noRefresh),
		stitch.WithLogger(logger),
		stitch.WithRecorder(metrics.NewPrometheusRecorder(reg)),
	)
	site, err := stitch.New(opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := site.Build(ctx); err != nil {
		return err
	}

	switch {
	case f.watch:
		if f.serve {
			logger.Warn("--serve is ignored while watching")
		}
		return site.Watch(ctx)
	case f.serve:
		port := f.port
		if !cmd.Flags().Changed("port") && fc.Port != 0 {
			port = fc.Port
		}
		srv := httpadapter.NewServer(site.Config().OutputDir,
			httpadapter.WithPort(port),
			httpadapter.WithLogger(logger),
			httpadapter.WithMetrics(reg),
		)
		return srv.ListenAndServe(ctx)
	}
	return nil
}
