package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"notebooklm-be/internal/bootstrap"
	"notebooklm-be/internal/config"
	"notebooklm-be/internal/server"
	"notebooklm-be/internal/tracer"
	"notebooklm-be/pkg/database"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEndpoint)
	defer shutdownTracer(context.Background())

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment == "production")
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	srv := server.New(cfg, container)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Println("Background: Starting batch worker...")
		return container.BatchService.Consume(gctx)
	})

	g.Go(func() error {
		return container.AuthRefreshService.Keepalive(gctx, cfg.Refresh.KeepaliveDelay, cfg.Refresh.KeepaliveInterval)
	})

	g.Go(func() error {
		if _, err := container.NotebookService.Sync(gctx); err != nil {
			log.Printf("[WARN] Startup notebook sync skipped: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		return srv.Run()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
