// Package app wires the services shared by the API server and the TUI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/config"
	"github.com/spendsmart/spendsmart/internal/export"
	"github.com/spendsmart/spendsmart/internal/gemini"
	"github.com/spendsmart/spendsmart/internal/importer"
	"github.com/spendsmart/spendsmart/internal/importer/sms"
	"github.com/spendsmart/spendsmart/internal/importer/statement"
	"github.com/spendsmart/spendsmart/internal/matching"
	matchingStore "github.com/spendsmart/spendsmart/internal/matching/store"
	"github.com/spendsmart/spendsmart/internal/scan"
	"github.com/spendsmart/spendsmart/internal/transaction"
	txStore "github.com/spendsmart/spendsmart/internal/transaction/store"
)

type Services struct {
	Transactions *transaction.Service
	Matching     *matching.Service
	Scan         *scan.Service
	Import       *importer.Service
	Export       *export.Service
}

// Categories returns the rule table from path, or the built-in table when
// path is empty.
func Categories(path string) (*category.Table, error) {
	if path == "" {
		return category.Default(), nil
	}

	table, err := category.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load category rules: %w", err)
	}

	return table, nil
}

// Remote returns the Gemini extractor, or nil when it is not configured or
// cannot be created. Scanning then uses only the local extractor.
func Remote(ctx context.Context, cfg *config.Config) scan.Remote {
	client, err := gemini.New(ctx, gemini.Config{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
	})

	switch {
	case errors.Is(err, gemini.ErrNoCredentials):
		slog.Info("gemini not configured, using local extraction only")
		return nil
	case err != nil:
		slog.Warn("gemini unavailable, using local extraction only", "error", err)
		return nil
	}

	return client
}

func NewServices(ctx context.Context, cfg *config.Config, db *sql.DB) (*Services, error) {
	table, err := Categories(cfg.Categories.RulesFile)
	if err != nil {
		return nil, err
	}

	var (
		transactionService = transaction.NewService(txStore.New(db))
		matchingService    = matching.NewService(matchingStore.New(db))
	)

	return &Services{
		Transactions: transactionService,
		Matching:     matchingService,
		Scan:         scan.New(Remote(ctx, cfg), sms.New(table), scan.WithTimeout(cfg.Gemini.Timeout)),
		Import:       importer.NewService(statement.New(table), matchingService),
		Export:       export.NewService(transactionService),
	}, nil
}
