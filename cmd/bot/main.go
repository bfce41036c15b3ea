package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orgball2608/events-telegram-bot/internal/app"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"go.uber.org/fx"
)

const stopTimeout = 30 * time.Second

func main() {
	log := logger.New(logger.Opts{Env: os.Getenv("APP_ENV")})

	bot := fx.New(
		fx.Logger(log),
		app.App,
	)

	// Start the application
	if err := bot.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	// Wait for interrupt signal or a fatal error inside the app
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	exitCode := 0
	select {
	case sig := <-sigChan:
		log.Info("Shutting down", "signal", sig.String())
	case sig := <-bot.Wait():
		exitCode = sig.ExitCode
	}

	// Gracefully shutdown the application
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := bot.Stop(ctx); err != nil {
		log.Error("Failed to stop application", "error", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
