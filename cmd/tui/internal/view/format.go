package view

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/scrooge/internal/money"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

const dbTimeout = 5 * time.Second

var now = time.Now

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// FormatAmount renders an amount with two decimals and its currency code.
func FormatAmount(a money.Amount) string {
	return a.Value.StringFixed(2) + " " + a.Code()
}

// FormatDate renders the booking moment as a local calendar day.
func FormatDate(t time.Time) string {
	return t.Local().Format(time.DateOnly)
}

// FormatTags joins tag names, or "-" when there are none.
func FormatTags(tx *transaction.Transaction) string {
	if len(tx.Tags) == 0 {
		return "-"
	}

	return strings.Join(tx.TagNames(), ", ")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
