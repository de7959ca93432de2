package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rovshanmuradov/fund-analyzer/internal/devserver"
	"github.com/rovshanmuradov/fund-analyzer/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	addr := flag.String("addr", "127.0.0.1:5000", "Listen address")
	dir := flag.String("dir", "", "Fixture directory (default: embedded fixtures)")
	failEvery := flag.Int("fail-every", 0, "Answer every Nth /analyze call with 500")
	latency := flag.Duration("latency", 0, "Delay for every /analyze response")
	debug := flag.Bool("debug", false, "Debug logging")
	flag.Parse()

	appLogger, err := logger.CreatePrettyLogger(*debug)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	srv, err := devserver.New(devserver.Options{
		Dir:       *dir,
		FailEvery: *failEvery,
		Latency:   *latency,
	}, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create fixture server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Fixture backend listening",
			zap.String("addr", *addr),
			zap.String("fixtures", fixtureSource(*dir)))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down fixture backend")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Fatal("Fixture backend failed", zap.Error(err))
	}
}

func fixtureSource(dir string) string {
	if dir == "" {
		return "embedded"
	}
	return dir
}
