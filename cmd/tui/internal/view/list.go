package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/scrooge/internal/tag"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateTag
)

type TransactionStore interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	AddTags(ctx context.Context, id uuid.UUID, tags []*tag.Tag) error
}

type TagCatalog interface {
	List(ctx context.Context) ([]*tag.Tag, error)
	Ensure(ctx context.Context, spec tag.Spec) (*tag.Tag, error)
}

// dateFilters are cycled with the d key.
var dateFilters = []Timeframe{TimeframeAll, TimeframeThisMonth, TimeframeLastMonth, TimeframeThisYear}

type ListModel struct {
	CommonModel
	txService  TransactionStore
	tagService TagCatalog

	state listState
	table table.Model
	txs   []*transaction.Transaction
	form  *huh.Form

	tags          []*tag.Tag
	tagFilterIdx  int // 0 is no tag filter, i is tags[i-1]
	dateFilterIdx int

	loading bool
	err     error
	status  string
}

func NewListModel(txSvc TransactionStore, tagSvc TagCatalog) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Account", Width: 20},
		{Title: "Amount", Width: 14},
		{Title: "Description", Width: 44},
		{Title: "Tags", Width: 24},
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
		txService:  txSvc,
		tagService: tagSvc,
		table:      t,
		loading:    true,
	}
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	if m.state == listStateTag {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add tag | t: tag filter | d: date filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return tea.Batch(m.loadTxsCmd(), m.loadTagsCmd())
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.txs = msg.txs
			m.refreshTable()
		}

		return m, nil

	case loadTagsMsg:
		if msg.err == nil {
			m.tags = msg.tags
		}

		return m, nil

	case tagSavedMsg:
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error tagging: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Tagged with %s.", msg.tag.Name)

		return m, tea.Batch(m.loadTxsCmd(), m.loadTagsCmd())

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateTag:
		return m.updateTag(msg)
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
		case "a":
			return m.enterTagMode()
		case "t":
			m.tagFilterIdx = (m.tagFilterIdx + 1) % (len(m.tags) + 1)
			m.loading = true

			return m, m.loadTxsCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateFilters)
			m.loading = true

			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) selectedTx() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m ListModel) enterTagMode() (tea.Model, tea.Cmd) {
	if m.selectedTx() == nil {
		return m, nil
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Tag").
				Placeholder("groceries").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("tag cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("label").
				Title("Label").
				Placeholder("Groceries"),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateTag
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateTag(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	spec := tag.Spec{
		Name:  strings.TrimSpace(m.form.GetString("name")),
		Label: strings.TrimSpace(m.form.GetString("label")),
	}

	return m, m.addTagCmd(m.selectedTx(), spec)
}

// filter combines the active tag and date filters.
func (m ListModel) filter() transaction.ListFilter {
	var filter transaction.ListFilter

	if first, last, ok := dateFilters[m.dateFilterIdx].Days(now()); ok {
		filter = DayFilter(first, last)
	}

	if m.tagFilterIdx > 0 && m.tagFilterIdx <= len(m.tags) {
		filter.Tag = new(m.tags[m.tagFilterIdx-1].Name)
	}

	return filter
}

func (m ListModel) tagFilterLabel() string {
	if m.tagFilterIdx > 0 && m.tagFilterIdx <= len(m.tags) {
		return m.tags[m.tagFilterIdx-1].Name
	}

	return "Any"
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf(
		"Filter: [t] Tag: %s | [d] Date: %s | %d transaction(s)",
		activeStyle(m.tagFilterLabel()),
		activeStyle(dateFilters[m.dateFilterIdx].String()),
		len(m.txs),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateTag && m.form != nil {
		desc := ""
		if tx := m.selectedTx(); tx != nil {
			desc = tx.Description
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Add Tag\n\n%s\n\n%s", desc, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		acc := ""
		if tx.OwnAccount != nil {
			acc = tx.OwnAccount.Number
		}

		rows = append(rows, table.Row{
			FormatDate(tx.RemoteDate),
			acc,
			FormatAmount(tx.Amount),
			tx.Description,
			FormatTags(tx),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	svc := m.txService
	filter := m.filter()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := svc.List(ctx, filter)

		return loadListMsg{txs: txs, err: err}
	}
}

type loadTagsMsg struct {
	tags []*tag.Tag
	err  error
}

func (m ListModel) loadTagsCmd() tea.Cmd {
	svc := m.tagService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tags, err := svc.List(ctx)

		return loadTagsMsg{tags: tags, err: err}
	}
}

type tagSavedMsg struct {
	tag *tag.Tag
	err error
}

func (m ListModel) addTagCmd(tx *transaction.Transaction, spec tag.Spec) tea.Cmd {
	if tx == nil {
		return nil
	}

	tags, txs := m.tagService, m.txService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		t, err := tags.Ensure(ctx, spec)
		if err != nil {
			return tagSavedMsg{err: err}
		}

		if err := txs.AddTags(ctx, tx.ID, []*tag.Tag{t}); err != nil {
			return tagSavedMsg{err: err}
		}

		return tagSavedMsg{tag: t}
	}
}
