package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/http/api"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/http/swagger"
	service "github.com/Jmurp11/hockey-team-scheduler-sub003/internal/app"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the evaluation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context())
		},
	}
}

func (c *cli) serve(parent context.Context) error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// In-flight requests and fit workers run on base so a signal stops the
	// listener without cancelling work that Shutdown and Stop still drain.
	base := context.WithoutCancel(parent)
	svc, err := c.startService(base)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	apiServer := api.NewServer(svc, svc, c.log.Named("api"))
	apiServer.Register(mux)

	srv := &http.Server{
		Addr:              c.cfg.Addr,
		Handler:           apiServer.Wrap(mux),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return base },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.log.Info(gctx, "starting HTTP server", logger.String("addr", c.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		c.log.Info(gctx, "shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			c.log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
		}
		if err := svc.Stop(shutdownCtx); err != nil {
			return err
		}
		c.log.Info(shutdownCtx, "server stopped")
		return nil
	})
	return g.Wait()
}

// startService builds the service from config and starts its workers on ctx.
func (c *cli) startService(ctx context.Context) (*service.Service, error) {
	svc := newService(c)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func newService(c *cli) *service.Service {
	return service.New(
		service.WithLogger(c.log.Named("service")),
		service.WithWorkerCount(c.cfg.WorkerCount),
		service.WithQueueSize(c.cfg.QueueSize),
		service.WithCacheSize(c.cfg.CacheSize),
		service.WithMaxBatchSize(c.cfg.MaxBatchSize),
		service.WithRiskConfig(c.cfg.Risk),
		service.WithFitConfig(c.cfg.Fit),
	)
}
