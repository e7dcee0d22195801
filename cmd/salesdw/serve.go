package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"salesdw/internal/api"
	"salesdw/internal/dashboard"
	"salesdw/internal/etl"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and the dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.prepare(); err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			flush := a.installMetrics()
			defer flush()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	svc, err := a.newService()
	if err != nil {
		return err
	}
	theme, err := dashboard.ParseTheme(a.cfg.Server.Theme)
	if err != nil {
		slog.Warn("serve: unknown theme; using light", "theme", a.cfg.Server.Theme)
		theme = dashboard.Light
	}

	reload := etl.Reload(a.cfg)
	if a.cfg.Schedule.OnStart {
		reload(ctx)
	}
	if a.cfg.Schedule.Every != "" {
		every, err := time.ParseDuration(a.cfg.Schedule.Every)
		if err != nil {
			return fmt.Errorf("schedule.every: %w", err)
		}
		go func() {
			if err := etl.Schedule(ctx, every, reload); err != nil {
				slog.Error("serve: scheduler stopped", "err", err)
			}
		}()
	}

	srv := api.NewServer(svc, api.Options{Theme: theme, ListLimit: a.cfg.Query.ListLimit})
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(a.cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("serve: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
