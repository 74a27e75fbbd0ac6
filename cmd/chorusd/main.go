// Command chorusd serves song identification over HTTP for chorus clients
// that should not hold provider credentials.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/pflag"

	"github.com/llehouerou/chorus/internal/acrcloud"
	"github.com/llehouerou/chorus/internal/config"
	"github.com/llehouerou/chorus/internal/errmsg"
	"github.com/llehouerou/chorus/internal/identify"
	"github.com/llehouerou/chorus/internal/logging"
	"github.com/llehouerou/chorus/internal/lrclib"
	"github.com/llehouerou/chorus/internal/lyrics"
	"github.com/llehouerou/chorus/internal/server"
	"github.com/llehouerou/chorus/internal/state"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logLevel := logger.LevelInfo
	pflag.Var(&logLevel, "log-level", "Log level")
	listen := pflag.String("listen", "", "Listen address (overrides server.listen)")
	persist := pflag.Bool("cache", true, "Keep fetched lyrics in the local database")
	pflag.Parse()

	l := logging.NewStderr(logLevel)
	ctx := logging.Install(context.Background(), l)
	defer belt.Flush(ctx)

	if err := run(ctx, *listen, *persist); err != nil {
		logger.Errorf(ctx, "%v", err)
		belt.Flush(ctx)
		os.Exit(1)
	}
}

func run(ctx context.Context, listen string, persist bool) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	if listen != "" {
		cfg.Server.Listen = listen
	}
	if !cfg.HasACRCloudConfig() {
		return errors.New(errmsg.Format(errmsg.OpInitialize,
			errors.New("ACRCLOUD_ACCESS_KEY and ACRCLOUD_ACCESS_SECRET are required")))
	}

	client := lrclib.New(cfg.Lrclib.URL)
	source := lyrics.NewSource(client)
	if persist {
		store, err := state.Open()
		if err != nil {
			logger.Warnf(ctx, "%s: %v", errmsg.OpStateOpen, err)
		} else {
			defer store.Close()
			source = lyrics.NewCachedSource(client, store)
		}
	}

	service := identify.NewService(
		acrcloud.New(acrcloud.Config{
			Host:         cfg.ACRCloud.Host,
			AccessKey:    cfg.ACRCloud.AccessKey,
			AccessSecret: cfg.ACRCloud.AccessSecret,
			Timeout:      cfg.ACRCloud.Timeout,
		}),
		source,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           server.New(service, cfg.Server.AllowedOrigins).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "chorusd listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New(errmsg.Format(errmsg.OpServe, err))
	case <-ctx.Done():
	}

	logger.Infof(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpShutdown, err)
	}
	return nil
}
