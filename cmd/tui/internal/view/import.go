package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/spendsmart/spendsmart/internal/importer"
	"github.com/spendsmart/spendsmart/internal/matching"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFormatSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateReview
	importStateConflicts
	importStateResult
)

type ImportModel struct {
	CommonModel
	txService       *transaction.Service
	importService   *importer.Service
	matchingService *matching.Service
	userID          uuid.UUID

	state          importState
	filePicker     filepicker.Model
	selectedFormat importer.Format
	formatOptions  []importer.Format
	formatCursor   int
	review         ReviewModel

	newParams    []transaction.CreateParams
	conflicts    []transaction.Conflict
	conflictList list.Model
	selected     map[int]bool

	status string
	err    error
}

func NewImportModel(txSvc *transaction.Service, impSvc *importer.Service, matchSvc *matching.Service, userID uuid.UUID) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		txService:       txSvc,
		importService:   impSvc,
		matchingService: matchSvc,
		userID:          userID,
		filePicker:      fp,
		formatOptions:   []importer.Format{importer.FormatStatement},
		selected:        make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateConflicts:
		return "Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel"
	case importStateReview:
		return m.review.ShortHelp()
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case importStateReview:
			return m.updateReview(msg)
		case importStateFormatSelect:
			if msg.Type == tea.KeyEsc {
				return m, Back
			}

			return m.updateFormatSelect(msg)
		case importStateConflicts:
			if msg.Type == tea.KeyEsc {
				return m.reset(), nil
			}

			return m.updateConflicts(msg)
		}

		if msg.Type == tea.KeyEsc {
			return m.reset(), nil
		}

	case parsedMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		if len(msg.drafts) == 0 {
			m.state = importStateResult
			m.status = "No transactions found in the file."

			return m, nil
		}

		m.state = importStateReview
		m.review = NewReviewModel(m.matchingService, m.userID, msg.drafts)

		return m, m.review.Init()

	case ReviewDoneMsg:
		if len(msg.Drafts) == 0 {
			m.state = importStateResult
			m.status = "Nothing to import."

			return m, nil
		}

		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing %d transactions...", len(msg.Drafts))

		return m, m.importCmd(transaction.DraftParams(msg.Drafts))

	case ReviewCancelledMsg:
		return m.reset(), nil

	case importResultMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = fmt.Sprintf("Imported %d transactions.", len(msg.result.Imported))

			return m, nil
		}

		m.showConflicts(msg.result)

		return m, nil

	case confirmResultMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		m.state = importStateResult
		m.status = fmt.Sprintf("Imported %d transactions.", msg.count)

		return m, nil
	}

	switch m.state {
	case importStateReview:
		return m.updateReview(msg)
	case importStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m ImportModel) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.review.Update(msg)
	m.review = next.(ReviewModel)

	return m, cmd
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) fail(err error) ImportModel {
	m.state = importStateResult
	m.err = err
	m.status = fmt.Sprintf("Error: %v", err)

	return m
}

func (m ImportModel) reset() ImportModel {
	m.state = importStateFormatSelect
	m.err = nil
	m.status = ""
	m.conflicts = nil
	m.newParams = nil
	m.selected = make(map[int]bool)

	return m
}

func (m ImportModel) updateFormatSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case tea.KeyDown:
		if m.formatCursor < len(m.formatOptions)-1 {
			m.formatCursor++
		}
	case tea.KeyEnter:
		m.selectedFormat = m.formatOptions[m.formatCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m *ImportModel) showConflicts(result *transaction.ImportResult) {
	m.newParams = result.New
	m.conflicts = result.Conflicts
	m.selected = make(map[int]bool)
	m.state = importStateConflicts

	items := make([]list.Item, len(m.conflicts))
	for i, c := range m.conflicts {
		items[i] = conflictItem{conflict: c, index: i}
	}

	delegate := conflictDelegate{selected: m.selected}
	m.conflictList = list.New(items, delegate, 80, 20)
	m.conflictList.Title = fmt.Sprintf("%d possible duplicates (%d new)", len(m.conflicts), len(m.newParams))
	m.conflictList.SetShowStatusBar(false)
	m.conflictList.SetFilteringEnabled(false)
	m.conflictList.SetShowHelp(false)
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.conflicts {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.conflicts {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFormatSelect:
		return m.viewFormatSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select file to import (%s):\n\n%s", m.selectedFormat, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateReview:
		return m.review.View()
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(
			m.conflictList.View() + "\n\nSelected duplicates are imported anyway; the rest are skipped.",
		)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewFormatSelect() string {
	s := "Select Format:\n\n"

	for i, format := range m.formatOptions {
		cursor := " "
		if i == m.formatCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, format)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	status := successStyle.Render(m.status)
	if m.err != nil {
		status = errorStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(status + "\n\n(Esc to go back)")
}

type parsedMsg struct {
	drafts []transaction.Draft
	err    error
}

type importResultMsg struct {
	result *transaction.ImportResult
	err    error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	svc, userID := m.importService, m.userID
	format := m.selectedFormat

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		drafts, err := svc.Import(ctx, userID, format, f)

		return parsedMsg{drafts: drafts, err: err}
	}
}

func (m ImportModel) importCmd(params []transaction.CreateParams) tea.Cmd {
	svc := m.txService
	userID := m.userID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := svc.ImportBatch(ctx, userID, params)

		return importResultMsg{result: result, err: err}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	svc := m.txService
	userID := m.userID
	params := resolveConflicts(m.newParams, m.conflicts, m.selected)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := svc.CreateBatch(ctx, userID, params)

		return confirmResultMsg{count: len(txs), err: err}
	}
}

// resolveConflicts returns the new params plus the incoming side of every
// selected conflict.
func resolveConflicts(newParams []transaction.CreateParams, conflicts []transaction.Conflict, selected map[int]bool) []transaction.CreateParams {
	params := append([]transaction.CreateParams(nil), newParams...)

	for i, c := range conflicts {
		if selected[i] {
			params = append(params, c.Incoming)
		}
	}

	return params
}

type conflictItem struct {
	conflict transaction.Conflict
	index    int
}

func (i conflictItem) Title() string       { return "" }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return "" }

type conflictDelegate struct {
	selected map[int]bool
}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if d.selected[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming
	existing := item.conflict.Existing

	fmt.Fprintf(w, "%s%s %s  %s  %s\n      Existing: %s  %s  %s [%s]\n",
		cursor, checkbox,
		FormatDate(incoming.Date),
		FormatAmount(incoming.Amount),
		incoming.Description,
		FormatDate(existing.Date),
		FormatAmount(existing.Amount),
		existing.Description,
		existing.Category,
	)
}
