package importer_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/scrooge/internal/importer"
	"github.com/MrJamesThe3rd/scrooge/internal/processor"
	"github.com/MrJamesThe3rd/scrooge/internal/statement"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

func exampleRow() []string {
	return []string{
		"NL00RABO000000001", "EUR", "20200101", "D", "12.50", "",
		"AH to go Amsterdam 14:32 pasnr. 123", "20200101", "ga", "",
		"Betaalautomaat 14:32 pasnr. 123", "AH to go Amsterdam", "", "", "", "", "",
	}
}

func secondRow() []string {
	row := exampleRow()
	row[3] = "C"
	row[4] = "1500.00"
	row[10] = "Salaris januari"
	row[11] = ""

	return row
}

func encode(t *testing.T, rows ...[]string) string {
	t.Helper()

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	require.NoError(t, w.WriteAll(rows))

	return buf.String()
}

func newService(store *memStore) *importer.Service {
	runner := processor.NewRunner(processor.Default(), store, store, nil)
	return importer.NewService(importer.DefaultRegistry(), store, store, runner, nil)
}

func TestService_IngestExampleRow(t *testing.T) {
	store := newMemStore()
	svc := newService(store)

	res, err := svc.Ingest(context.Background(), "rabobank-csv", strings.NewReader(encode(t, exampleRow())))
	require.NoError(t, err)
	assert.Equal(t, &importer.Result{Imported: 1}, res)

	require.Len(t, store.txs, 1)
	tx := store.txs[0]

	assert.Equal(t, importer.RemoteID("rabobank-csv", exampleRow()), tx.RemoteID)
	assert.True(t, strings.HasPrefix(tx.RemoteID, "rabobank-csv:"))
	assert.Equal(t, "NL00RABO000000001", tx.OwnAccount.Number)
	assert.Equal(t, "NL00RABO000000001", tx.OwnAccount.Label)
	assert.Equal(t, "-12.50 EUR", tx.Amount.String())
	assert.Equal(t, time.Date(2020, 1, 1, 13, 32, 0, 0, time.UTC), tx.RemoteDate)
	assert.Equal(t, []string{"albert-heijn", "pos"}, tx.TagNames())
	assert.Len(t, store.links[tx.ID], 2)
}

func TestService_IngestIsIdempotent(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	content := encode(t, exampleRow(), secondRow())

	first, err := svc.Ingest(context.Background(), "rabobank-csv", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, 2, first.Imported)

	second, err := svc.Ingest(context.Background(), "rabobank-csv", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, &importer.Result{Imported: 0, Skipped: 2}, second)

	assert.Len(t, store.txs, 2)
	assert.Len(t, store.accounts, 1)
}

func TestService_IngestOverlappingExport(t *testing.T) {
	store := newMemStore()
	svc := newService(store)

	_, err := svc.Ingest(context.Background(), "rabobank-csv", strings.NewReader(encode(t, exampleRow())))
	require.NoError(t, err)

	res, err := svc.Ingest(context.Background(), "rabobank-csv", strings.NewReader(encode(t, exampleRow(), secondRow())))
	require.NoError(t, err)
	assert.Equal(t, &importer.Result{Imported: 1, Skipped: 1}, res)
}

func TestService_IngestOverlappingWindows1252Export(t *testing.T) {
	store := newMemStore()
	svc := newService(store)

	accented := secondRow()
	accented[11] = "Café Brasserie"

	latin1 := func(rows ...[]string) string {
		out, err := charmap.Windows1252.NewEncoder().String(encode(t, rows...))
		require.NoError(t, err)

		return out
	}

	first, err := svc.Ingest(context.Background(), "rabobank-csv", strings.NewReader(latin1(accented)))
	require.NoError(t, err)
	assert.Equal(t, &importer.Result{Imported: 1}, first)

	// Enough plain rows ahead of it that encoding detection never sees the accented row.
	var rows [][]string

	for i := range 60 {
		row := secondRow()
		row[10] = fmt.Sprintf("Overboeking %03d", i)
		rows = append(rows, row)
	}

	rows = append(rows, accented)

	content := latin1(rows...)
	require.Greater(t, strings.Index(content, "Caf\xe9"), 4096)

	second, err := svc.Ingest(context.Background(), "rabobank-csv", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, &importer.Result{Imported: 60, Skipped: 1}, second)

	require.Len(t, store.txs, 61)

	for _, tx := range store.txs {
		assert.True(t, utf8.ValidString(tx.Description), tx.Description)
	}

	assert.Equal(t, "Salaris januari Café Brasserie", store.txs[0].Description)
}

func TestService_IngestInsertConflict(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	content := encode(t, exampleRow())

	_, err := svc.Ingest(context.Background(), "rabobank-csv", strings.NewReader(content))
	require.NoError(t, err)

	// Another import stored the row between the existence check and the insert.
	store.existsLies = true

	res, err := svc.Ingest(context.Background(), "rabobank-csv", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, &importer.Result{Skipped: 1}, res)
	assert.Len(t, store.txs, 1)
}

func TestService_IngestMalformedRowKeepsProgress(t *testing.T) {
	store := newMemStore()
	svc := newService(store)

	bad := exampleRow()
	bad[7] = "2020-01-01"

	res, err := svc.Ingest(context.Background(), "rabobank-csv", strings.NewReader(encode(t, secondRow(), bad, exampleRow())))
	require.Error(t, err)
	assert.ErrorIs(t, err, statement.ErrMalformedRow)

	var rowErr *statement.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Line)

	assert.Equal(t, 1, res.Imported)
	assert.Len(t, store.txs, 1)
}

func TestService_UnknownFormat(t *testing.T) {
	svc := newService(newMemStore())

	_, err := svc.Transactions(context.Background(), "ing-csv", strings.NewReader(""))
	require.Error(t, err)

	var unknown *importer.UnknownFormatError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ing-csv", unknown.Format)
	assert.Equal(t, "ing-csv is an unknown format. Known formats are cgd-csv, rabobank-csv.", err.Error())
}

func TestService_TransactionsIsLazy(t *testing.T) {
	store := newMemStore()
	svc := newService(store)

	bad := exampleRow()[:3]

	seq, err := svc.Transactions(context.Background(), "rabobank-csv", strings.NewReader(encode(t, exampleRow(), bad)))
	require.NoError(t, err)

	var got []*transaction.Transaction

	for tx, err := range seq {
		require.NoError(t, err)

		got = append(got, tx)

		break
	}

	require.Len(t, got, 1)
	assert.Empty(t, got[0].Tags)
	assert.Empty(t, store.txs, "Transactions does not persist")
}

func TestService_TransactionsCancelled(t *testing.T) {
	svc := newService(newMemStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seq, err := svc.Transactions(ctx, "rabobank-csv", strings.NewReader(encode(t, exampleRow())))
	require.NoError(t, err)

	for _, err := range seq {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestService_IngestWithoutTagger(t *testing.T) {
	store := newMemStore()
	svc := importer.NewService(importer.DefaultRegistry(), store, store, nil, nil)

	res, err := svc.Ingest(context.Background(), "rabobank-csv", strings.NewReader(encode(t, exampleRow())))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Empty(t, store.txs[0].Tags)
}
