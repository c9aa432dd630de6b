package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"landedcost/internal/app"
)

func main() {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	application, err := app.NewApplication(nil, os.Stdout)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
