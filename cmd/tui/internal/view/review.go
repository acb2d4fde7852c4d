package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/matching"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

// ReviewDoneMsg carries the drafts the user kept, already edited.
type ReviewDoneMsg struct {
	Drafts []transaction.Draft
}

// ReviewCancelledMsg is sent when the user leaves the review with Esc.
type ReviewCancelledMsg struct{}

// reviewFields holds the form bindings. huh writes through these pointers
// so they must survive model copies.
type reviewFields struct {
	description string
	amount      string
	txType      transaction.Type
	category    category.Category
	keep        bool
	remember    bool
}

// ReviewModel walks through extracted drafts one at a time so the user can
// correct them before anything is stored.
type ReviewModel struct {
	CommonModel
	matchingService *matching.Service
	userID          uuid.UUID

	drafts []transaction.Draft
	kept   []transaction.Draft
	index  int

	form   *huh.Form
	fields *reviewFields
	status string
}

func NewReviewModel(matchSvc *matching.Service, userID uuid.UUID, drafts []transaction.Draft) ReviewModel {
	m := ReviewModel{
		matchingService: matchSvc,
		userID:          userID,
		drafts:          drafts,
	}

	if len(drafts) > 0 {
		m.form, m.fields = newReviewForm(drafts[0])
	}

	return m
}

func (m ReviewModel) Title() string { return "Review Transactions" }

func (m ReviewModel) ShortHelp() string {
	return "Tab: next field | Enter: confirm | Esc: cancel"
}

func (m ReviewModel) Init() tea.Cmd {
	if m.form == nil {
		return m.done()
	}

	return m.form.Init()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, func() tea.Msg { return ReviewCancelledMsg{} }
		}
	case learnResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not remember mapping: %v", msg.err)
		}

		return m, nil
	}

	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m.advance()
}

// advance records the current draft and moves to the next one.
func (m ReviewModel) advance() (tea.Model, tea.Cmd) {
	original := m.drafts[m.index]
	f := m.fields

	var cmds []tea.Cmd

	if f.keep {
		d := original
		d.Description = strings.TrimSpace(f.description)
		d.Type = f.txType
		d.Category = f.category

		if amount, err := decimal.NewFromString(f.amount); err == nil {
			d.Amount = amount
		}

		m.kept = append(m.kept, d)

		if f.remember && d.Description != original.Description {
			cmds = append(cmds, m.learnCmd(original.Description, d.Description, d.Category))
		}
	}

	m.index++
	m.status = ""

	if m.index >= len(m.drafts) {
		m.form = nil
		return m, tea.Batch(append(cmds, m.done())...)
	}

	m.form, m.fields = newReviewForm(m.drafts[m.index])
	cmds = append(cmds, m.form.Init())

	return m, tea.Batch(cmds...)
}

func (m ReviewModel) done() tea.Cmd {
	kept := m.kept

	return func() tea.Msg { return ReviewDoneMsg{Drafts: kept} }
}

func newReviewForm(d transaction.Draft) (*huh.Form, *reviewFields) {
	f := &reviewFields{
		description: d.Description,
		amount:      d.Amount.String(),
		txType:      d.Type,
		category:    d.Category,
		keep:        true,
	}

	categories := make([]huh.Option[category.Category], 0, len(category.All()))
	for _, c := range category.All() {
		categories = append(categories, huh.NewOption(string(c), c))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Value(&f.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}

					return nil
				}),
			huh.NewInput().
				Title("Amount").
				Value(&f.amount).
				Validate(validateAmount),
			huh.NewSelect[transaction.Type]().
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeExpense),
					huh.NewOption("Income", transaction.TypeIncome),
				).
				Value(&f.txType),
			huh.NewSelect[category.Category]().
				Title("Category").
				Options(categories...).
				Height(6).
				Value(&f.category),
			huh.NewConfirm().
				Title("Keep this transaction?").
				Value(&f.keep),
			huh.NewConfirm().
				Title("Remember this description for next time?").
				Value(&f.remember),
		),
	).WithWidth(60).WithShowHelp(false)

	return form, f
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return errors.New("amount must be a positive number")
	}

	return nil
}

func (m ReviewModel) View() string {
	if m.form == nil {
		return lipgloss.NewStyle().Padding(2).Render("Review complete.")
	}

	d := m.drafts[m.index]

	amount := expenseStyle.Render("-" + FormatDecimal(d.Amount))
	if d.Type == transaction.TypeIncome {
		amount = incomeStyle.Render("+" + FormatDecimal(d.Amount))
	}

	header := fmt.Sprintf("Reviewing %d/%d\n\n%s  %s  %s\n",
		m.index+1, len(m.drafts), FormatDate(d.Date), amount, d.Description)

	content := header + "\n" + m.form.View()
	if m.status != "" {
		content = errorStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type learnResultMsg struct {
	err error
}

func (m ReviewModel) learnCmd(pattern, description string, cat category.Category) tea.Cmd {
	svc, userID := m.matchingService, m.userID

	return func() tea.Msg {
		if svc == nil {
			return learnResultMsg{}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		return learnResultMsg{err: svc.Learn(ctx, userID, pattern, description, cat)}
	}
}
