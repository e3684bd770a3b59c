package view_test

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/scrooge/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/scrooge/internal/account"
	"github.com/MrJamesThe3rd/scrooge/internal/importer"
	"github.com/MrJamesThe3rd/scrooge/internal/money"
	"github.com/MrJamesThe3rd/scrooge/internal/tag"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimeframe_Days(t *testing.T) {
	wednesday := time.Date(2020, 1, 15, 18, 30, 0, 0, time.UTC)
	sunday := time.Date(2020, 1, 19, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		timeframe view.Timeframe
		now       time.Time
		first     time.Time
		last      time.Time
		ok        bool
	}{
		{name: "This week", timeframe: view.TimeframeThisWeek, now: wednesday, first: day(2020, 1, 13), last: day(2020, 1, 15), ok: true},
		{name: "This week on Sunday", timeframe: view.TimeframeThisWeek, now: sunday, first: day(2020, 1, 13), last: day(2020, 1, 19), ok: true},
		{name: "Last week", timeframe: view.TimeframeLastWeek, now: wednesday, first: day(2020, 1, 6), last: day(2020, 1, 12), ok: true},
		{name: "This month", timeframe: view.TimeframeThisMonth, now: wednesday, first: day(2020, 1, 1), last: day(2020, 1, 15), ok: true},
		{name: "Last month across years", timeframe: view.TimeframeLastMonth, now: wednesday, first: day(2019, 12, 1), last: day(2019, 12, 31), ok: true},
		{name: "This year", timeframe: view.TimeframeThisYear, now: wednesday, first: day(2020, 1, 1), last: day(2020, 1, 15), ok: true},
		{name: "All", timeframe: view.TimeframeAll, now: wednesday},
		{name: "Custom", timeframe: view.TimeframeCustom, now: wednesday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, ok := tt.timeframe.Days(tt.now)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestDayFilter(t *testing.T) {
	f := view.DayFilter(day(2020, 1, 1), time.Date(2020, 1, 31, 15, 0, 0, 0, time.UTC))

	require.NotNil(t, f.StartDate)
	require.NotNil(t, f.EndDate)
	assert.Equal(t, day(2020, 1, 1), *f.StartDate)
	assert.Equal(t, time.Date(2020, 1, 31, 23, 59, 59, 999999999, time.UTC), *f.EndDate)
	assert.Nil(t, f.Tag)
}

func sampleTx(t *testing.T) *transaction.Transaction {
	t.Helper()

	amount, err := money.Parse("-12.50", "EUR")
	require.NoError(t, err)

	return &transaction.Transaction{
		ID:          uuid.New(),
		OwnAccount:  &account.Account{Number: "NL00RABO000000001"},
		RemoteDate:  time.Date(2020, 1, 1, 13, 32, 0, 0, time.UTC),
		Amount:      amount,
		Description: "Betaalautomaat 14:32 pasnr. 123 AH to go Amsterdam",
		Tags:        []*tag.Tag{{Name: "pos"}, {Name: "albert-heijn"}},
	}
}

func TestFormat(t *testing.T) {
	tx := sampleTx(t)

	assert.Equal(t, "-12.50 EUR", view.FormatAmount(tx.Amount))
	assert.Equal(t, "albert-heijn, pos", view.FormatTags(tx))
	assert.Equal(t, "-", view.FormatTags(&transaction.Transaction{}))
}

// drain runs cmd and every command it batches, returning the messages produced.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()

	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}

	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, drain(c)...)
	}

	return msgs
}

func feed(m tea.Model, msgs []tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}

	return m
}

type fakeTransactions struct {
	txs     []*transaction.Transaction
	filters []transaction.ListFilter
	added   map[uuid.UUID][]*tag.Tag
}

func (f *fakeTransactions) List(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	f.filters = append(f.filters, filter)
	return f.txs, nil
}

func (f *fakeTransactions) AddTags(_ context.Context, id uuid.UUID, tags []*tag.Tag) error {
	if f.added == nil {
		f.added = make(map[uuid.UUID][]*tag.Tag)
	}

	f.added[id] = append(f.added[id], tags...)

	return nil
}

type fakeTags struct {
	tags []*tag.Tag
}

func (f *fakeTags) List(context.Context) ([]*tag.Tag, error) { return f.tags, nil }

func (f *fakeTags) Ensure(_ context.Context, spec tag.Spec) (*tag.Tag, error) {
	return &tag.Tag{ID: uuid.New(), Name: spec.Name, Label: spec.Label}, nil
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestListModel(t *testing.T) {
	txs := &fakeTransactions{txs: []*transaction.Transaction{sampleTx(t)}}
	tags := &fakeTags{tags: []*tag.Tag{{Name: "albert-heijn"}, {Name: "pos"}}}

	m := view.NewListModel(txs, tags)
	assert.Contains(t, m.View(), "Loading")

	var model tea.Model = feed(m, drain(m.Init()))

	out := model.View()
	assert.Contains(t, out, "NL00RABO000000001")
	assert.Contains(t, out, "-12.50 EUR")
	assert.Contains(t, out, "albert-heijn, pos")
	assert.Contains(t, out, "1 transaction(s)")

	require.Len(t, txs.filters, 1)
	assert.Nil(t, txs.filters[0].StartDate)
	assert.Nil(t, txs.filters[0].Tag)

	t.Run("Date filter", func(t *testing.T) {
		next, cmd := model.Update(key("d"))
		feed(next, drain(cmd))

		last := txs.filters[len(txs.filters)-1]
		assert.NotNil(t, last.StartDate)
		assert.NotNil(t, last.EndDate)
	})

	t.Run("Tag filter", func(t *testing.T) {
		next, cmd := model.Update(key("t"))
		feed(next, drain(cmd))

		last := txs.filters[len(txs.filters)-1]
		require.NotNil(t, last.Tag)
		assert.Equal(t, "albert-heijn", *last.Tag)
	})

	t.Run("Back", func(t *testing.T) {
		_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
		require.NotNil(t, cmd)
		assert.Equal(t, view.BackMsg{}, cmd())
	})
}

type fakeIngester struct{}

func (fakeIngester) Formats() []string { return []string{"cgd-csv", "rabobank-csv"} }

func (fakeIngester) Ingest(context.Context, string, io.Reader) (*importer.Result, error) {
	return &importer.Result{}, nil
}

func TestImportModel(t *testing.T) {
	m := view.NewImportModel(fakeIngester{}, "rabobank-csv", 0)

	assert.Equal(t, "Import Statement", m.Title())
	assert.Contains(t, m.View(), "Statement format")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, view.BackMsg{}, cmd())
}

func TestTimeframePicker(t *testing.T) {
	p := view.NewTimeframePicker(view.TimeframeAll)
	assert.True(t, p.IsSelecting())

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(view.TimeframeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "All Time", msg.Label)
	assert.Nil(t, msg.Filter.StartDate)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, p.IsSelecting())

	p.Reset()
	assert.True(t, p.IsSelecting())
}
