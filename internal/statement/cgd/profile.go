package cgd

import "strings"

type amountMode int

const (
	// amountSingle is one signed column, e.g. "Montante" holding "-10,00".
	amountSingle amountMode = iota
	// amountSplit is a pair of unsigned "Débito"/"Crédito" columns.
	amountSplit
)

// profile describes the header of one CGD export variant.
type profile struct {
	name       string
	dateCol    string
	descCol    string
	amountMode amountMode
	amountCol  string
	debitCol   string
	creditCol  string
}

func (p *profile) requiredCols() []string {
	cols := []string{p.dateCol, p.descCol}

	if p.amountMode == amountSplit {
		return append(cols, p.debitCol, p.creditCol)
	}

	return append(cols, p.amountCol)
}

// profiles are tried in order; more specific headers come first.
var profiles = []profile{
	{
		name:       "cartão",
		dateCol:    "Data",
		descCol:    "Descrição",
		amountMode: amountSplit,
		debitCol:   "Débito",
		creditCol:  "Crédito",
	},
	{
		name:       "extrato",
		dateCol:    "Data mov.",
		descCol:    "Descrição",
		amountMode: amountSingle,
		amountCol:  "Movimento",
	},
	{
		name:       "conta",
		dateCol:    "Data mov.",
		descCol:    "Descrição",
		amountMode: amountSingle,
		amountCol:  "Montante",
	},
}

// layout is a matched profile resolved to column indices.
type layout struct {
	profile *profile
	date    int
	desc    int
	amount  int
	debit   int
	credit  int
}

// matchHeader returns the layout for the first profile whose columns all appear in row.
func matchHeader(row []string) (*layout, bool) {
	cols := make(map[string]int, len(row))

	for i, cell := range row {
		if name := strings.TrimSpace(cell); name != "" {
			cols[name] = i
		}
	}

	for i := range profiles {
		p := &profiles[i]

		matched := true

		for _, name := range p.requiredCols() {
			if _, ok := cols[name]; !ok {
				matched = false
				break
			}
		}

		if !matched {
			continue
		}

		l := &layout{profile: p, date: cols[p.dateCol], desc: cols[p.descCol], amount: -1, debit: -1, credit: -1}
		if p.amountMode == amountSplit {
			l.debit, l.credit = cols[p.debitCol], cols[p.creditCol]
		} else {
			l.amount = cols[p.amountCol]
		}

		return l, true
	}

	return nil, false
}
