package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/spendsmart/spendsmart/cmd/tui/internal/view"
	"github.com/spendsmart/spendsmart/internal/app"
	"github.com/spendsmart/spendsmart/internal/config"
	"github.com/spendsmart/spendsmart/internal/database"
)

type View int

const (
	ViewMenu View = iota
	ViewScan
	ViewImport
	ViewList
	ViewExport
)

type model struct {
	services *app.Services
	userID   uuid.UUID
	appName  string

	currentView View

	scanView   view.ScanModel
	importView view.ImportModel
	listView   view.ListModel
	exportView view.ExportModel
}

func initialModel() model {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	userID, err := uuid.Parse(cfg.Auth.DefaultUser)
	if err != nil {
		slog.Error("invalid default user id", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	svc, err := app.NewServices(ctx, cfg, db)
	if err != nil {
		slog.Error("failed to create services", "error", err)
		os.Exit(1)
	}

	return model{
		services:    svc,
		userID:      userID,
		appName:     cfg.App.Name,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewScan:
		var next tea.Model
		next, cmd = m.scanView.Update(msg)
		m.scanView = next.(view.ScanModel)
	case ViewImport:
		var next tea.Model
		next, cmd = m.importView.Update(msg)
		m.importView = next.(view.ImportModel)
	case ViewList:
		var next tea.Model
		next, cmd = m.listView.Update(msg)
		m.listView = next.(view.ListModel)
	case ViewExport:
		var next tea.Model
		next, cmd = m.exportView.Update(msg)
		m.exportView = next.(view.ExportModel)
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	svc := m.services

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewScan
		m.scanView = view.NewScanModel(svc.Scan, svc.Transactions, svc.Matching, m.userID)

		return m, m.scanView.Init()
	case "2":
		m.currentView = ViewImport
		m.importView = view.NewImportModel(svc.Transactions, svc.Import, svc.Matching, m.userID)

		return m, m.importView.Init()
	case "3":
		m.currentView = ViewList
		m.listView = view.NewListModel(svc.Transactions, svc.Matching, m.userID)

		return m, m.listView.Init()
	case "4":
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(svc.Export, svc.Transactions, m.userID)

		return m, m.exportView.Init()
	}

	return m, nil
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s\n\n", m.appName) +
				"1. Scan SMS Text\n" +
				"2. Import Statement\n" +
				"3. Transactions\n" +
				"4. Export\n\n" +
				"q. Quit",
		)
	case ViewScan:
		return m.scanView.View()
	case ViewImport:
		return m.importView.View()
	case ViewList:
		return m.listView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
