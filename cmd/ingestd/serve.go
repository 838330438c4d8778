package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/api"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ingestion service with scheduler and HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.New(a.ingester, a.log, a.cfg.Scheduler)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	handler := api.NewHandler(sched, a.classifier, a.log)
	server := api.NewServer(handler, a.registry, api.ServerConfig{
		Port:  a.cfg.Service.Port,
		Debug: a.cfg.Service.Debug,
	}, a.log)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		sched.Stop()
		return fmt.Errorf("server failed: %w", err)
	case sig := <-shutdown:
		a.log.Info("shutdown signal received", logger.String("signal", sig.String()))
	}

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
