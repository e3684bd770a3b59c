// Package cgd reads Caixa Geral de Depósitos CSV exports.
//
// An export starts with a free-form preamble of "key;value" lines, one of which names the
// account ("Conta" or "Conta cartão", value "<number> - <currency> - <product>"). The data
// header follows; its column names select one of the known export profiles. Data rows carry
// a DD-MM-YYYY date; footer rows without one are ignored.
package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/encoding/charmap"

	enc "github.com/MrJamesThe3rd/scrooge/internal/encoding"
	"github.com/MrJamesThe3rd/scrooge/internal/money"
	"github.com/MrJamesThe3rd/scrooge/internal/statement"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

const Name = "cgd-csv"

const (
	dateLayout = "02-01-2006"

	// Records are prefixed with the account and currency from the preamble so that the
	// fingerprint of a row is distinct per account.
	fieldAccount  = 0
	fieldCurrency = 1
	fieldRow      = 2
)

var accountKeys = map[string]bool{
	"Conta":        true,
	"Conta cartão": true,
}

// Format implements statement.Format for CGD CSV exports.
type Format struct {
	loc *time.Location
}

// New returns the format with bank-local times in Europe/Lisbon.
func New() *Format {
	loc, err := time.LoadLocation("Europe/Lisbon")
	if err != nil {
		panic(fmt.Sprintf("cgd: loading Europe/Lisbon: %v", err))
	}

	return &Format{loc: loc}
}

func (f *Format) Name() string { return Name }

func (f *Format) Open(r io.Reader) (statement.Source, error) {
	stream, err := enc.Open(r, charmap.Windows1252)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(stream)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return &source{format: f, stream: stream, reader: reader}, nil
}

type source struct {
	format *Format
	stream *enc.Stream
	reader *csv.Reader
	layout *layout

	account  string
	currency string
}

// Records yields data rows as they are in the file, undecoded, behind the account prefix.
func (s *source) Records() iter.Seq2[statement.Record, error] {
	return func(yield func(statement.Record, error) bool) {
		lastLine := 0

		for {
			row, err := s.reader.Read()
			if errors.Is(err, io.EOF) {
				if s.layout == nil {
					yield(statement.Record{Line: lastLine}, statement.Malformed(Name, lastLine,
						"no known CGD header found (expected conta, extrato or cartão columns)"))
				}

				return
			}

			if err != nil {
				var (
					line     int
					parseErr *csv.ParseError
				)

				if errors.As(err, &parseErr) {
					line = parseErr.StartLine
				}

				yield(statement.Record{Line: line}, statement.Malformed(Name, line, "%v", err))

				return
			}

			line, _ := s.reader.FieldPos(0)
			lastLine = line

			if s.layout == nil {
				if err := s.readPreamble(s.stream.Texts(row), line); err != nil {
					yield(statement.Record{Line: line}, err)
					return
				}

				continue
			}

			if !isDataRow(row, s.layout.date) {
				continue
			}

			fields := make([]string, 0, fieldRow+len(row))
			fields = append(fields, s.account, s.currency)
			fields = append(fields, row...)

			if !yield(statement.Record{Line: line, Fields: fields}, nil) {
				return
			}
		}
	}
}

// readPreamble consumes one line before the header, picking up the account line and
// switching to data mode once the header is seen.
func (s *source) readPreamble(row []string, line int) error {
	if l, ok := matchHeader(row); ok {
		if s.account == "" {
			return statement.Malformed(Name, line, "header without a preceding account line")
		}

		s.layout = l

		return nil
	}

	if len(row) < 2 || !accountKeys[strings.TrimSpace(row[0])] {
		return nil
	}

	parts := strings.Split(row[1], " - ")
	if len(parts) < 2 {
		return statement.Malformed(Name, line, "account line %q", row[1])
	}

	s.account = strings.TrimSpace(parts[0])
	s.currency = strings.TrimSpace(parts[1])

	if s.account == "" {
		return statement.Malformed(Name, line, "empty account number")
	}

	return nil
}

// isDataRow reports whether the date cell starts like a date. Totals and page footers
// leave it empty or put text there.
func isDataRow(row []string, dateIdx int) bool {
	s := cell(row, dateIdx)
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func (s *source) Parse(rec statement.Record) (transaction.Draft, error) {
	if len(rec.Fields) < fieldRow {
		return transaction.Draft{}, statement.Malformed(Name, rec.Line, "record without account prefix")
	}

	if s.layout == nil {
		return transaction.Draft{}, statement.Malformed(Name, rec.Line, "record before header")
	}

	return s.format.parseRow(s.layout, statement.Record{Line: rec.Line, Fields: s.stream.Texts(rec.Fields)})
}

func (f *Format) parseRow(l *layout, rec statement.Record) (transaction.Draft, error) {
	row := rec.Fields[fieldRow:]

	day, err := time.Parse(dateLayout, cell(row, l.date))
	if err != nil {
		return transaction.Draft{}, statement.Malformed(Name, rec.Line, "date %q", cell(row, l.date))
	}

	desc := statement.JoinLines(cell(row, l.desc))
	if desc == "" {
		return transaction.Draft{}, statement.Malformed(Name, rec.Line, "missing description")
	}

	amount, err := f.parseAmount(l, row, rec.Fields[fieldCurrency])
	if err != nil {
		if errors.Is(err, money.ErrUnknownCurrency) {
			return transaction.Draft{}, &statement.RowError{
				Format: Name,
				Line:   rec.Line,
				Err:    fmt.Errorf("%w: %q", statement.ErrUnknownCurrency, rec.Fields[fieldCurrency]),
			}
		}

		return transaction.Draft{}, statement.Malformed(Name, rec.Line, "%v", err)
	}

	return transaction.Draft{
		OwnAccountNumber: rec.Fields[fieldAccount],
		RemoteDate:       statement.At(day, statement.TimeOfDay(desc), f.loc),
		Amount:           amount,
		Description:      desc,
	}, nil
}

func (f *Format) parseAmount(l *layout, row []string, code string) (money.Amount, error) {
	if l.profile.amountMode == amountSingle {
		s := cell(row, l.amount)
		if s == "" {
			return money.Amount{}, fmt.Errorf("missing amount")
		}

		return money.Parse(plainAmount(s), code)
	}

	debit, credit := cell(row, l.debit), cell(row, l.credit)

	switch {
	case debit != "" && credit != "":
		return money.Amount{}, fmt.Errorf("both debit %q and credit %q set", debit, credit)
	case debit != "":
		amount, err := money.Parse(plainAmount(debit), code)
		if err != nil {
			return money.Amount{}, err
		}

		if !amount.IsNegative() {
			amount = amount.Neg()
		}

		return amount, nil
	case credit != "":
		return money.Parse(plainAmount(credit), code)
	}

	return money.Amount{}, fmt.Errorf("missing debit and credit")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
