package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/matching"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateTimeframe
	listStateEdit
)

// editFields holds the edit form bindings.
type editFields struct {
	description string
	category    category.Category
	remember    bool
}

type ListModel struct {
	CommonModel
	txService       *transaction.Service
	matchingService *matching.Service
	userID          uuid.UUID

	state           listState
	table           table.Model
	txs             []*transaction.Transaction
	summary         *transaction.Summary
	form            *huh.Form
	fields          *editFields
	timeframePicker TimeframePicker

	// Filter cycling; index 0 means no filter.
	typeFilterIdx     int
	categoryFilterIdx int
	rangeLabel        string

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string
}

var typeFilters = []transaction.Type{"", transaction.TypeExpense, transaction.TypeIncome}

func NewListModel(txSvc *transaction.Service, matchSvc *matching.Service, userID uuid.UUID) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Amount", Width: 14},
		{Title: "Category", Width: 18},
		{Title: "Description", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		txService:       txSvc,
		matchingService: matchSvc,
		userID:          userID,
		table:           t,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
		rangeLabel:      TimeframeAll.String(),
		filter:          transaction.ListFilter{UserID: userID},
		loading:         true,
	}
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateEdit:
		return "Navigate form | Esc: cancel"
	case listStateTimeframe:
		return "Enter: select | Esc: cancel"
	}

	return "Esc: back | e: edit | x: delete | t: type | c: category | d: dates | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.summary = msg.summary
		m.refreshTable()

		return m, nil

	case listSaveMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadTxsCmd()

	case TimeframeSelectedMsg:
		m.filter = msg.Filter(m.filter)
		m.rangeLabel = msg.String()
		m.state = listStateBrowse
		m.timeframePicker.Reset()
		m.table.Focus()

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateTimeframe:
		return m.updateTimeframe(msg)
	case listStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "e":
			return m.enterEditMode()
		case "x":
			return m, m.deleteCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(typeFilters)
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "c":
			m.categoryFilterIdx = (m.categoryFilterIdx + 1) % (len(category.All()) + 1)
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "d":
			m.state = listStateTimeframe
			m.table.Blur()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
		m.state = listStateBrowse
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ListModel) current() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m ListModel) enterEditMode() (tea.Model, tea.Cmd) {
	tx := m.current()
	if tx == nil {
		return m, nil
	}

	m.fields = &editFields{description: tx.Description, category: tx.Category}

	categories := make([]huh.Option[category.Category], 0, len(category.All()))
	for _, c := range category.All() {
		categories = append(categories, huh.NewOption(string(c), c))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.fields.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}

					return nil
				}),
			huh.NewSelect[category.Category]().
				Key("category").
				Title("Category").
				Options(categories...).
				Height(6).
				Value(&m.fields.category),
			huh.NewConfirm().
				Key("remember").
				Title("Apply to future imports?").
				Value(&m.fields.remember),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.state == listStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	typeLabel := "All"
	if t := typeFilters[m.typeFilterIdx]; t != "" {
		typeLabel = string(t)
	}

	categoryLabel := "All"
	if m.categoryFilterIdx > 0 {
		categoryLabel = string(category.All()[m.categoryFilterIdx-1])
	}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [c] Category: %s | [d] Dates: %s",
		activeStyle(typeLabel),
		activeStyle(categoryLabel),
		activeStyle(m.rangeLabel),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		m.viewTotals(),
	)

	if m.state == listStateEdit && m.form != nil {
		rawDesc := ""
		if tx := m.current(); tx != nil {
			rawDesc = tx.RawDescription
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Edit Transaction\n\nOriginal: %s\n\n%s", rawDesc, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ListModel) viewTotals() string {
	if m.summary == nil {
		return ""
	}

	return fmt.Sprintf("Income: %s  Expense: %s  Net: %s",
		incomeStyle.Render(FormatAmount(m.summary.Income)),
		expenseStyle.Render(FormatAmount(m.summary.Expense)),
		FormatAmount(m.summary.Net()),
	)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ListModel) applyFilter() {
	m.filter.Type = nil
	if t := typeFilters[m.typeFilterIdx]; t != "" {
		m.filter.Type = new(t)
	}

	m.filter.Category = nil
	if m.categoryFilterIdx > 0 {
		m.filter.Category = new(category.All()[m.categoryFilterIdx-1])
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			FormatAmount(tx.Amount),
			string(tx.Category),
			tx.Description,
		})
	}

	m.table.SetRows(rows)
}

type loadListMsg struct {
	txs     []*transaction.Transaction
	summary *transaction.Summary
	err     error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	svc := m.txService
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := svc.List(ctx, filter)
		if err != nil {
			return loadListMsg{err: err}
		}

		summary, err := svc.Summarize(ctx, filter)

		return loadListMsg{txs: txs, summary: summary, err: err}
	}
}

type listSaveMsg struct {
	status string
	err    error
}

func (m ListModel) saveCmd() tea.Cmd {
	tx := m.current()
	if tx == nil {
		return nil
	}

	updated := *tx
	updated.Description = strings.TrimSpace(m.fields.description)
	updated.Category = m.fields.category
	remember := m.fields.remember

	txSvc, matchSvc, userID := m.txService, m.matchingService, m.userID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := txSvc.Update(ctx, &updated); err != nil {
			return listSaveMsg{err: err}
		}

		if remember && updated.RawDescription != "" {
			if err := matchSvc.Learn(ctx, userID, updated.RawDescription, updated.Description, updated.Category); err != nil {
				return listSaveMsg{err: err}
			}
		}

		return listSaveMsg{status: "Saved."}
	}
}

func (m ListModel) deleteCmd() tea.Cmd {
	tx := m.current()
	if tx == nil {
		return nil
	}

	svc, userID, id := m.txService, m.userID, tx.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := svc.Delete(ctx, userID, id); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Deleted."}
	}
}
