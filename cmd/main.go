package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fathima-sithara/poseidon-service/internal/bootstrap"
)

func main() {
	app, cleanup, err := bootstrap.Init("config.yaml")
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	sugar := app.Sugar

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Cleanup.Run(workerCtx)
	}()

	if app.IPLimiter != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.IPLimiter.Cleanup(workerCtx, time.Minute, 3*time.Minute)
		}()
	}

	go func() {
		listenAddr := fmt.Sprintf(":%d", app.Config.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.App.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	stopWorkers()
	wg.Wait()

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.App.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}

	sugar.Info("Graceful shutdown complete. Goodbye!")
	cleanup(ctxShut)
}
