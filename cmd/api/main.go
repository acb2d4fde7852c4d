package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/spendsmart/spendsmart/internal/app"
	"github.com/spendsmart/spendsmart/internal/config"
	"github.com/spendsmart/spendsmart/internal/database"
	apiHttp "github.com/spendsmart/spendsmart/internal/http"
	"github.com/spendsmart/spendsmart/internal/http/auth"
	exportHandler "github.com/spendsmart/spendsmart/internal/http/export"
	importHandler "github.com/spendsmart/spendsmart/internal/http/imports"
	matchingHandler "github.com/spendsmart/spendsmart/internal/http/matching"
	txHandler "github.com/spendsmart/spendsmart/internal/http/transaction"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	defaultUser, err := uuid.Parse(cfg.Auth.DefaultUser)
	if err != nil {
		slog.Error("invalid default user id", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	svc, err := app.NewServices(ctx, cfg, db)
	if err != nil {
		slog.Error("failed to create services", "error", err)
		os.Exit(1)
	}

	var (
		transactionH = txHandler.NewHandler(svc.Transactions)
		importH      = importHandler.NewHandler(svc.Scan, svc.Import, svc.Transactions, cfg.Server.MaxUploadBytes)
		matchingH    = matchingHandler.NewHandler(svc.Matching)
		exportH      = exportHandler.NewHandler(svc.Export, svc.Transactions)
	)

	router := apiHttp.New(apiHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth:           auth.Middleware([]byte(cfg.Auth.JWTSecret), defaultUser),
	}, transactionH, importH, matchingH, exportH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
