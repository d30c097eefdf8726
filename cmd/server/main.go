package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/privafirst/expense-tracker/internal/api"
	"github.com/privafirst/expense-tracker/internal/config"
	"github.com/privafirst/expense-tracker/internal/logger"
	"github.com/privafirst/expense-tracker/internal/store"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	h := &api.Handler{}

	// The extract endpoint works without a database; only /api/import
	// needs one.
	db, err := store.Open(context.Background(), cfg.Database.DSN())
	if err != nil {
		slog.Warn("database unavailable, import endpoint disabled", "error", err)
	} else {
		defer db.Close()
		if err := db.Init(context.Background()); err != nil {
			slog.Error("schema init failed", "error", err)
			os.Exit(1)
		}
		h.Store = db
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20, // statement PDFs are small; 32MB is generous
	})
	h.Register(app)

	addr := cfg.Server.Addr()
	slog.Info("starting server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
