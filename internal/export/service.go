// Package export writes stored transactions as CSV.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

// TagSeparator joins the tag names of one transaction in the tags column.
const TagSeparator = "|"

type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Row is one exported transaction.
type Row struct {
	Date            string `csv:"date"`
	Account         string `csv:"account"`
	OpposingAccount string `csv:"opposing_account"`
	OpposingName    string `csv:"opposing_name"`
	Amount          string `csv:"amount"`
	Currency        string `csv:"currency"`
	Description     string `csv:"description"`
	Tags            string `csv:"tags"`
	RemoteID        string `csv:"remote_id"`
}

type Service struct {
	transactions Lister
	delimiter    rune
}

// NewService returns an exporter writing with delimiter, or ',' when delimiter is zero.
func NewService(transactions Lister, delimiter rune) *Service {
	if delimiter == 0 {
		delimiter = ','
	}

	return &Service{transactions: transactions, delimiter: delimiter}
}

// Export writes every transaction matching filter to w, header first. It returns the
// number of rows written.
func (s *Service) Export(ctx context.Context, filter transaction.ListFilter, w io.Writer) (int, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	if err := s.Write(txs, w); err != nil {
		return 0, err
	}

	return len(txs), nil
}

// Write writes txs to w as CSV, header first.
func (s *Service) Write(txs []*transaction.Transaction, w io.Writer) error {
	rows := make([]*Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, ToRow(tx))
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = s.delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

func ToRow(tx *transaction.Transaction) *Row {
	row := &Row{
		Date:            tx.RemoteDate.UTC().Format(time.RFC3339),
		OpposingAccount: tx.OpposingAccountNumber,
		OpposingName:    tx.OpposingName,
		Amount:          tx.Amount.Value.StringFixed(2),
		Currency:        tx.Amount.Code(),
		Description:     tx.Description,
		Tags:            strings.Join(tx.TagNames(), TagSeparator),
		RemoteID:        tx.RemoteID,
	}

	if tx.OwnAccount != nil {
		row.Account = tx.OwnAccount.Number
	}

	return row
}

// Summary renders one line per transaction for quick reading, e.g.
// "* 2020-01-01 | Betaalautomaat ... | -12.50 EUR | albert-heijn, pos".
func Summary(txs []*transaction.Transaction) string {
	var sb strings.Builder

	for _, tx := range txs {
		tags := "-"
		if len(tx.Tags) > 0 {
			tags = strings.Join(tx.TagNames(), ", ")
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n", tx.RemoteDate.UTC().Format(time.DateOnly), tx.Description, tx.Amount, tags)
	}

	return sb.String()
}
