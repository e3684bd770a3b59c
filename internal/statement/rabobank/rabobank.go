// Package rabobank reads the Rabobank "transactions.txt" CSV export.
//
// The export has no header. Every row has a fixed column layout:
//
//	0  own account number (IBAN)
//	1  currency code
//	2  interest date (YYYYMMDD)
//	3  debit/credit flag (D or C)
//	4  amount, dot decimal separator, unsigned
//	5  opposing account number
//	6  opposing name
//	7  booking date (YYYYMMDD)
//	8  booking code
//	9  filler
//	10-15 description lines
//	16 end-to-end id
//	17 creditor id      (SEPA exports only)
//	18 mandate id       (SEPA exports only)
package rabobank

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

const Name = "rabobank-csv"

const (
	colOwnAccount      = 0
	colCurrency        = 1
	colFlag            = 3
	colAmount          = 4
	colOpposingAccount = 5
	colOpposingName    = 6
	colBookingDate     = 7
	colDescFirst       = 10
	colDescLast        = 15

	fieldsClassic = 17
	fieldsSEPA    = 19

	flagDebit  = "D"
	flagCredit = "C"

	dateLayout = "20060102"
)

// Format implements statement.Format for Rabobank CSV exports.
type Format struct {
	loc *time.Location
}

// New returns the format with bank-local times in Europe/Amsterdam.
func New() *Format {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		// time/tzdata is embedded, so this only happens with a broken build.
		panic(fmt.Sprintf("rabobank: loading Europe/Amsterdam: %v", err))
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
	reader.FieldsPerRecord = -1 // width is validated per row to report the line

	return &source{format: f, stream: stream, reader: reader}, nil
}

type source struct {
	format *Format
	stream *enc.Stream
	reader *csv.Reader
}

// Records yields the fields as they are in the file, undecoded.
func (s *source) Records() iter.Seq2[statement.Record, error] {
	return func(yield func(statement.Record, error) bool) {
		for {
			fields, err := s.reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				var line int

				var parseErr *csv.ParseError
				if errors.As(err, &parseErr) {
					line = parseErr.StartLine
				}

				yield(statement.Record{Line: line}, statement.Malformed(Name, line, "%v", err))

				return
			}

			line, _ := s.reader.FieldPos(0)
			if !yield(statement.Record{Line: line, Fields: fields}, nil) {
				return
			}
		}
	}
}

// Parse decodes the raw fields to UTF-8 before converting them.
func (s *source) Parse(rec statement.Record) (transaction.Draft, error) {
	return s.format.parseRow(statement.Record{Line: rec.Line, Fields: s.stream.Texts(rec.Fields)})
}

func (f *Format) parseRow(rec statement.Record) (transaction.Draft, error) {
	row := rec.Fields
	if len(row) != fieldsClassic && len(row) != fieldsSEPA {
		return transaction.Draft{}, statement.Malformed(Name, rec.Line,
			"expected %d or %d fields, got %d", fieldsClassic, fieldsSEPA, len(row))
	}

	if strings.TrimSpace(row[colOwnAccount]) == "" {
		return transaction.Draft{}, statement.Malformed(Name, rec.Line, "empty own account")
	}

	day, err := parseDate(row[colBookingDate])
	if err != nil {
		return transaction.Draft{}, statement.Malformed(Name, rec.Line, "booking date %q: %v", row[colBookingDate], err)
	}

	amount, err := money.Parse(strings.TrimSpace(row[colAmount]), strings.TrimSpace(row[colCurrency]))
	if err != nil {
		if errors.Is(err, money.ErrUnknownCurrency) {
			return transaction.Draft{}, &statement.RowError{
				Format: Name,
				Line:   rec.Line,
				Err:    fmt.Errorf("%w: %q", statement.ErrUnknownCurrency, row[colCurrency]),
			}
		}

		return transaction.Draft{}, statement.Malformed(Name, rec.Line, "amount %q", row[colAmount])
	}

	if amount.IsNegative() {
		return transaction.Draft{}, statement.Malformed(Name, rec.Line, "signed amount %q", row[colAmount])
	}

	switch strings.TrimSpace(row[colFlag]) {
	case flagDebit:
		amount = amount.Neg()
	case flagCredit:
	default:
		return transaction.Draft{}, statement.Malformed(Name, rec.Line, "debit/credit flag %q", row[colFlag])
	}

	desc := statement.JoinLines(row[colDescFirst : colDescLast+1]...)

	return transaction.Draft{
		OwnAccountNumber:      strings.TrimSpace(row[colOwnAccount]),
		OpposingAccountNumber: strings.TrimSpace(row[colOpposingAccount]),
		OpposingName:          strings.TrimSpace(row[colOpposingName]),
		RemoteDate:            statement.At(day, statement.TimeOfDay(desc), f.loc),
		Amount:                amount,
		Description:           desc,
	}, nil
}

// parseDate accepts exactly eight digits forming a valid calendar date.
func parseDate(s string) (time.Time, error) {
	if len(s) != len(dateLayout) {
		return time.Time{}, fmt.Errorf("want YYYYMMDD")
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return time.Time{}, fmt.Errorf("want YYYYMMDD")
		}
	}

	return time.Parse(dateLayout, s)
}
