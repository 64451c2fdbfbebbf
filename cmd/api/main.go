// Package main is the entry point for the Formulary consultation API.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/fx"

	"github.com/myones/formulary/internal/infrastructure/container"
)

const (
	startTimeout = 15 * time.Second
	stopTimeout  = 30 * time.Second
)

func main() {
	app := fx.New(
		fx.NopLogger, // Use our own logger instead of Fx's
		fx.StartTimeout(startTimeout),
		fx.StopTimeout(stopTimeout),

		container.Module,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	// Block until SIGINT/SIGTERM, then drain through the lifecycle hooks.
	sig := <-app.Done()
	log.Printf("received %s, shutting down", sig)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), stopTimeout)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}
}
