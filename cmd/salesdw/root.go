package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"salesdw/internal/config"
	"salesdw/internal/logging"
	"salesdw/internal/metrics"
	"salesdw/internal/metrics/datadog"
	"salesdw/internal/metrics/prompush"
)

// app carries state shared by all subcommands.
type app struct {
	cfgPath string
	envFile string
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "salesdw",
		Short:         "Sales data warehouse: ETL and dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "config file (.json, .yaml or .yml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	root.AddCommand(
		newLoadCmd(a),
		newServeCmd(a),
		newReportCmd(a),
		newExportCmd(a),
		newValidateCmd(a),
	)
	return root
}

// loadConfig reads .env, then the config file and environment, and sets up
// logging. It does not validate.
func (a *app) loadConfig() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	return nil
}

// prepare loads and validates the configuration. Warnings are logged; errors
// abort the command.
func (a *app) prepare() error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	issues := config.Validate(a.cfg)
	for _, iss := range issues {
		if iss.Severity == config.SeverityWarning {
			slog.Warn("config", "path", iss.Path, "msg", iss.Message)
		}
	}
	if config.HasErrors(issues) {
		var errs []error
		for _, iss := range issues {
			if iss.Severity == config.SeverityError {
				errs = append(errs, iss)
			}
		}
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// installMetrics selects the metrics backend from config. It returns a flush
// function to call before exit.
func (a *app) installMetrics() func() {
	m := a.cfg.Metrics
	var (
		b   metrics.Backend
		err error
	)
	switch m.Backend {
	case "prometheus":
		b, err = prompush.NewBackend(a.cfg.Job, m.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       m.DatadogAddr,
			Namespace:  "salesdw.",
			GlobalTags: []string{"job:" + a.cfg.Job},
		})
	default:
		slog.Debug("metrics: disabled", "backend", m.Backend)
		return func() {}
	}
	if err != nil {
		slog.Warn("metrics: backend init failed; using nop", "backend", m.Backend, "err", err)
		return func() {}
	}

	metrics.SetBackend(b)
	slog.Info("metrics: enabled", "backend", m.Backend)
	return func() {
		if err := metrics.Flush(); err != nil {
			slog.Warn("metrics: flush", "err", err)
		}
	}
}
