package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"user-directory-be/internal/bootstrap"
	"user-directory-be/internal/config"
	"user-directory-be/internal/pkg/logger"
	"user-directory-be/internal/server"
	"user-directory-be/internal/service"
	"user-directory-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer
	cfg := config.Load()
	shutdownTracer := tracer.InitTracer(cfg.Tracing)

	// 1. Logger
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg, sysLogger)
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Start Background Services
	go container.WebSocketHub.Run(ctx)

	log.Println("Background: Starting Consumer Service...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	// The directory is fetched once per process.
	go func() {
		err := container.DirectoryService.Load(ctx)
		if errors.Is(err, service.ErrLoadDisabled) {
			log.Println("Directory import disabled")
			return
		}
		if err != nil && !errors.Is(err, service.ErrLoadCancelled) {
			log.Printf("Directory load failed: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Run()
	}()

	select {
	case err := <-serverErr:
		log.Printf("Server stopped: %v", err)
	case <-ctx.Done():
		log.Println("Shutdown signal received")
	}

	// 5. Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	stop()
	container.Close()
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Printf("Tracer shutdown error: %v", err)
	}
}
