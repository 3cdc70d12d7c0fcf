package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	formflow "github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/internal/metrics"
	"github.com/goliatone/go-formflow/pkg/client"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/sink"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Log in and fill the assigned form in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		format, _ := sink.ParseOutputFormat(cfg.Output)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := client.New(cfg.BaseURL, client.WithTimeout(cfg.Timeout), client.WithLogger(logger))
		if err != nil {
			return err
		}

		runner := tui.New(tui.WithLogger(logger), tui.WithOutput(cmd.OutOrStdout()))
		login, err := runner.Login(ctx, svc)
		if err != nil {
			return err
		}

		m, opts := instrument(cfg)
		opts = append(opts,
			session.WithLogger(logger),
			session.WithSink(sink.Multi(
				sink.Log(logger),
				sink.NewWriter(cmd.OutOrStdout(), format),
			)),
		)
		defer flushMetrics(cfg, m, logger)

		sess, err := formflow.Open(ctx, svc, login.User, opts...)
		if err != nil {
			return err
		}
		return runner.Run(ctx, sess)
	},
}

const pushJob = "formflow"

// instrument returns the collectors for a run and the session options that
// feed them. Both are empty when metrics are disabled.
func instrument(cfg config.Config) (*metrics.Metrics, []session.Option) {
	if !cfg.Metrics {
		return nil, nil
	}
	m := metrics.New(nil)
	return m, []session.Option{session.WithHooks(m.Hooks())}
}

// flushMetrics pushes m to the configured gateway. It runs after the form
// ends, so it gets its own deadline instead of the interrupted run context.
func flushMetrics(cfg config.Config, m *metrics.Metrics, logger *slog.Logger) {
	if m == nil || cfg.PushGateway == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := m.Push(ctx, cfg.PushGateway, pushJob); err != nil {
		logger.Warn("metrics push failed", "error", err)
		return
	}
	logger.Debug("metrics pushed", "gateway", cfg.PushGateway)
}

func init() {
	runCmd.Flags().String("output", "", "submission output format (json, form, pretty)")
	runCmd.Flags().Bool("metrics", true, "record session metrics")
	runCmd.Flags().String("push-gateway", "", "Prometheus Pushgateway URL for session metrics")
	rootCmd.AddCommand(runCmd)
}
