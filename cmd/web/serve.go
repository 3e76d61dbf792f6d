package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"moodify/pkg/config"
	"moodify/pkg/handlers"
	"moodify/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			log := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, JSON: true})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := wire(ctx, cfg, log)
			defer a.Close()

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           a.handler().Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			return run(ctx, srv, a)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ADDR)")
	return cmd
}

func (a *app) handler() *handlers.Application {
	return &handlers.Application{
		Recommender: a.resolver,
		SessionKey:  []byte(a.cfg.SessionSecret),
		Log:         a.log,
		Metrics:     a.registry,
	}
}

// run serves until ctx is done and then drains in-flight requests.
func run(ctx context.Context, srv *http.Server, a *app) error {
	errc := make(chan error, 1)
	go func() {
		a.log.WithField("addr", srv.Addr).Info("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
