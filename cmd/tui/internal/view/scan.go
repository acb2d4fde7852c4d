package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/spendsmart/spendsmart/internal/matching"
	"github.com/spendsmart/spendsmart/internal/scan"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

const scanTimeout = 30 * time.Second

type scanState int

const (
	scanStateInput scanState = iota
	scanStateScanning
	scanStateReview
	scanStateSaving
	scanStateResult
)

// ScanModel turns pasted SMS or notification text into stored transactions.
type ScanModel struct {
	CommonModel
	scanService     *scan.Service
	txService       *transaction.Service
	matchingService *matching.Service
	userID          uuid.UUID

	state   scanState
	input   textarea.Model
	spinner spinner.Model
	review  ReviewModel

	source scan.Source
	status string
	err    error
}

func NewScanModel(scanSvc *scan.Service, txSvc *transaction.Service, matchSvc *matching.Service, userID uuid.UUID) ScanModel {
	ta := textarea.New()
	ta.Placeholder = "Paste bank SMS messages here..."
	ta.SetWidth(80)
	ta.SetHeight(12)
	ta.ShowLineNumbers = false
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ScanModel{
		scanService:     scanSvc,
		txService:       txSvc,
		matchingService: matchSvc,
		userID:          userID,
		input:           ta,
		spinner:         s,
	}
}

func (m ScanModel) Title() string { return "Scan Text" }

func (m ScanModel) ShortHelp() string {
	switch m.state {
	case scanStateInput:
		return "Ctrl+S: scan | Esc: back"
	case scanStateReview:
		return m.review.ShortHelp()
	}

	return "Esc: back"
}

func (m ScanModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanResultMsg:
		if msg.err != nil {
			m.state = scanStateResult
			m.err = msg.err
			m.status = "Applying mappings failed: " + msg.err.Error()

			return m, nil
		}

		m.source = msg.result.Source
		if len(msg.result.Drafts) == 0 {
			m.state = scanStateResult
			m.status = "No transactions found in the text."

			return m, nil
		}

		m.state = scanStateReview
		m.review = NewReviewModel(m.matchingService, m.userID, msg.result.Drafts)

		return m, m.review.Init()

	case ReviewDoneMsg:
		if len(msg.Drafts) == 0 {
			m.state = scanStateResult
			m.status = "Nothing to save."

			return m, nil
		}

		m.state = scanStateSaving

		return m, tea.Batch(m.spinner.Tick, m.saveCmd(msg.Drafts))

	case ReviewCancelledMsg:
		m.state = scanStateInput
		return m, textarea.Blink

	case scanSavedMsg:
		m.state = scanStateResult
		m.err = msg.err

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Saved %d transactions.", msg.count)
		m.input.Reset()

		return m, nil
	}

	switch m.state {
	case scanStateInput:
		return m.updateInput(msg)
	case scanStateScanning, scanStateSaving:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case scanStateReview:
		next, cmd := m.review.Update(msg)
		m.review = next.(ReviewModel)

		return m, cmd
	case scanStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = scanStateInput
			m.status = ""
			m.err = nil

			return m, textarea.Blink
		}
	}

	return m, nil
}

func (m ScanModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "ctrl+s":
			text := m.input.Value()
			if strings.TrimSpace(text) == "" {
				return m, nil
			}

			m.state = scanStateScanning

			return m, tea.Batch(m.spinner.Tick, m.scanCmd(text))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m ScanModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case scanStateInput:
		return style.Render("Paste transaction messages:\n\n" + m.input.View() + "\n\n" + m.ShortHelp())
	case scanStateScanning:
		return style.Render(m.spinner.View() + " Extracting transactions...")
	case scanStateReview:
		return style.Render(fmt.Sprintf("Extracted by %s extractor\n", m.source)) + m.review.View()
	case scanStateSaving:
		return style.Render(m.spinner.View() + " Saving...")
	case scanStateResult:
		status := successStyle.Render(m.status)
		if m.err != nil {
			status = errorStyle.Render(m.status)
		}

		return style.Render(status + "\n\n(Esc to scan more)")
	}

	return ""
}

type scanResultMsg struct {
	result scan.Result
	err    error
}

type scanSavedMsg struct {
	count int
	err   error
}

func (m ScanModel) scanCmd(text string) tea.Cmd {
	svc, matchSvc, userID := m.scanService, m.matchingService, m.userID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
		defer cancel()

		res := svc.Scan(ctx, text)
		if matchSvc == nil || len(res.Drafts) == 0 {
			return scanResultMsg{result: res}
		}

		drafts, err := matchSvc.Apply(ctx, userID, res.Drafts)
		if err != nil {
			return scanResultMsg{err: err}
		}

		res.Drafts = drafts

		return scanResultMsg{result: res}
	}
}

func (m ScanModel) saveCmd(drafts []transaction.Draft) tea.Cmd {
	svc := m.txService
	userID := m.userID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := svc.SaveDrafts(ctx, userID, drafts)

		return scanSavedMsg{count: len(txs), err: err}
	}
}
