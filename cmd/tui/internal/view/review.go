package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/scrooge/internal/rule"
	"github.com/MrJamesThe3rd/scrooge/internal/tag"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

type RuleLearner interface {
	Learn(ctx context.Context, pattern string, t tag.Spec) (*rule.Rule, error)
	Suggest(ctx context.Context, description string) (*rule.Rule, error)
}

type Tagger interface {
	Run(ctx context.Context, tx *transaction.Transaction) error
}

type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateLoading
	reviewStateReviewing
	reviewStateDone
)

// ReviewModel walks through untagged transactions and learns a rule for each.
type ReviewModel struct {
	CommonModel
	txService   Lister
	ruleService RuleLearner
	tagger      Tagger

	state           reviewState
	timeframePicker TimeframePicker

	queue      []*transaction.Transaction
	currentTx  *transaction.Transaction
	suggestion *rule.Rule
	form       *huh.Form

	total   int
	learned int
	status  string
	err     error
}

func NewReviewModel(txSvc Lister, ruleSvc RuleLearner, tagger Tagger) ReviewModel {
	return ReviewModel{
		txService:       txSvc,
		ruleService:     ruleSvc,
		tagger:          tagger,
		state:           reviewStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
	}
}

func (m ReviewModel) Title() string { return "Review Untagged" }

func (m ReviewModel) ShortHelp() string {
	if m.state == reviewStateReviewing {
		return "Enter: learn rule | Ctrl+N: skip | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.state = reviewStateLoading
		m.status = fmt.Sprintf("Loading %s...", strings.ToLower(msg.Label))

		return m, m.loadUntaggedCmd(msg.Filter)

	case loadUntaggedMsg:
		if msg.err != nil {
			m.state = reviewStateDone
			m.err = msg.err

			return m, nil
		}

		m.queue = msg.txs
		m.total = len(msg.txs)

		return m.next()

	case suggestionMsg:
		if m.currentTx == nil || msg.tx != m.currentTx {
			return m, nil
		}

		m.suggestion = msg.rule
		m.form = m.buildRuleForm()

		return m, m.form.Init()

	case learnedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			m.form = m.buildRuleForm()

			return m, m.form.Init()
		}

		m.learned++

		return m.next()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == reviewStateTimeframe && !m.timeframePicker.IsSelecting() {
				break
			}

			return m, Back
		}

		if msg.String() == "ctrl+n" && m.state == reviewStateReviewing {
			return m.next()
		}
	}

	switch m.state {
	case reviewStateTimeframe:
		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd

	case reviewStateReviewing:
		return m.updateForm(msg)
	}

	return m, nil
}

// next pops the queue and asks for a suggestion for the new current transaction.
func (m ReviewModel) next() (tea.Model, tea.Cmd) {
	m.form = nil
	m.suggestion = nil

	if len(m.queue) == 0 {
		m.currentTx = nil
		m.state = reviewStateDone
		m.status = fmt.Sprintf("All done! Learned %d rule(s) for %d untagged transaction(s).", m.learned, m.total)

		return m, nil
	}

	m.currentTx = m.queue[0]
	m.queue = m.queue[1:]
	m.state = reviewStateReviewing
	m.status = fmt.Sprintf("Reviewing %d/%d", m.total-len(m.queue), m.total)

	return m, m.suggestCmd(m.currentTx)
}

func (m ReviewModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	pattern := strings.TrimSpace(m.form.GetString("pattern"))
	spec := tag.Spec{
		Name:  strings.TrimSpace(m.form.GetString("tag")),
		Label: strings.TrimSpace(m.form.GetString("label")),
	}

	// An accepted suggestion is already stored; running the chain applies it.
	known := m.suggestion != nil &&
		strings.EqualFold(m.suggestion.Pattern, pattern) &&
		m.suggestion.TagName == spec.Name

	return m, m.learnCmd(m.currentTx, pattern, spec, known)
}

func (m ReviewModel) buildRuleForm() *huh.Form {
	tx := m.currentTx

	pattern, tagName, label := tx.OpposingName, "", ""
	if pattern == "" {
		pattern = tx.Description
	}

	if m.suggestion != nil {
		pattern, tagName, label = m.suggestion.Pattern, m.suggestion.TagName, m.suggestion.TagLabel
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("pattern").
				Title("Description contains").
				Value(&pattern).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("pattern cannot be empty")
					}

					if !strings.Contains(strings.ToLower(tx.Description), strings.ToLower(s)) {
						return fmt.Errorf("pattern does not occur in the description")
					}

					return nil
				}),

			huh.NewInput().
				Key("tag").
				Title("Tag").
				Value(&tagName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("tag cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("label").
				Title("Label").
				Value(&label),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m ReviewModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	switch m.state {
	case reviewStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case reviewStateLoading:
		return style.Render(m.status)

	case reviewStateDone:
		if m.err != nil {
			return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back)")
		}

		return style.Render(successStyle.Render(m.status) + "\n\n(Esc to back)")
	}

	tx := m.currentTx
	info := fmt.Sprintf(
		"Date:     %s\nAmount:   %s\nOpposing: %s\nDesc:     %s\n",
		FormatDate(tx.RemoteDate),
		FormatAmount(tx.Amount),
		tx.OpposingName,
		tx.Description,
	)

	form := "Looking for a matching rule..."
	if m.form != nil {
		form = m.form.View()
	}

	return style.Render(fmt.Sprintf("%s\n\n%s\n%s", m.status, info, form))
}

type loadUntaggedMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ReviewModel) loadUntaggedCmd(filter transaction.ListFilter) tea.Cmd {
	svc := m.txService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := svc.List(ctx, filter)
		if err != nil {
			return loadUntaggedMsg{err: err}
		}

		untagged := make([]*transaction.Transaction, 0, len(txs))
		for _, tx := range txs {
			if len(tx.Tags) == 0 {
				untagged = append(untagged, tx)
			}
		}

		return loadUntaggedMsg{txs: untagged}
	}
}

type suggestionMsg struct {
	tx   *transaction.Transaction
	rule *rule.Rule
}

func (m ReviewModel) suggestCmd(tx *transaction.Transaction) tea.Cmd {
	svc := m.ruleService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		r, err := svc.Suggest(ctx, tx.Description)
		if err != nil && !errors.Is(err, rule.ErrNotFound) {
			return suggestionMsg{tx: tx}
		}

		return suggestionMsg{tx: tx, rule: r}
	}
}

type learnedMsg struct {
	err error
}

func (m ReviewModel) learnCmd(tx *transaction.Transaction, pattern string, spec tag.Spec, known bool) tea.Cmd {
	rules, tagger := m.ruleService, m.tagger

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if !known {
			if _, err := rules.Learn(ctx, pattern, spec); err != nil {
				return learnedMsg{err: err}
			}
		}

		if err := tagger.Run(ctx, tx); err != nil {
			return learnedMsg{err: err}
		}

		return learnedMsg{}
	}
}
