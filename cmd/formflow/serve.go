package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	formflow "github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/internal/metrics"
	"github.com/goliatone/go-formflow/internal/server"
	"github.com/goliatone/go-formflow/pkg/loader"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a local form service over a directory of form files",
	Long: `Serves GET /get-form and POST /create-user backed by structure files
named <rollNumber>.json, .yaml or .yml (falling back to default.*).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		forms := formflow.SampleFormsFS()
		if cfg.FormsDir != "" {
			forms = os.DirFS(cfg.FormsDir)
		}
		source := loader.New(loader.NewFileSource(forms), loader.WithLogger(logger))
		opts := []server.Option{server.WithLogger(logger)}
		if cfg.Metrics {
			opts = append(opts, server.WithMetrics(metrics.New(nil)))
		}
		handler, err := server.NewHandler(ctx, source, server.NewRegistry(), opts...)
		if err != nil {
			return err
		}

		logger.Info("serving forms", "dir", cfg.FormsDir, "metrics", cfg.Metrics)
		return server.ListenAndServe(ctx, cfg.Listen, handler, logger)
	},
}

func init() {
	serveCmd.Flags().String("forms", "", "directory holding form structure files (bundled samples when empty)")
	serveCmd.Flags().String("listen", "", "listen address")
	serveCmd.Flags().Bool("metrics", true, "expose /metrics")
	rootCmd.AddCommand(serveCmd)
}
