package transaction

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/scrooge/internal/account"
	"github.com/MrJamesThe3rd/scrooge/internal/money"
	"github.com/MrJamesThe3rd/scrooge/internal/tag"
)

var (
	ErrNotFound = errors.New("transaction not found")
	// ErrDuplicate is returned when a transaction with the same remote id is already stored.
	ErrDuplicate = errors.New("transaction already imported")
	// ErrImmutable is returned when changing an imported transaction.
	ErrImmutable = errors.New("imported transactions are read-only")
)

// Transaction represents one financial movement on OwnAccount.
// RemoteID is empty for manual entries and "<format>:<fingerprint>" for imported ones.
type Transaction struct {
	ID                    uuid.UUID
	RemoteID              string
	OwnAccount            *account.Account
	OpposingAccountNumber string
	OpposingName          string
	RemoteDate            time.Time
	Amount                money.Amount
	Description           string
	Tags                  []*tag.Tag
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}

// Draft is a parsed statement row before its own account is resolved.
type Draft struct {
	OwnAccountNumber      string
	OpposingAccountNumber string
	OpposingName          string
	RemoteDate            time.Time
	Amount                money.Amount
	Description           string
}

func (t *Transaction) IsImported() bool {
	return t.RemoteID != ""
}

func (t *Transaction) HasTag(name string) bool {
	return slices.ContainsFunc(t.Tags, func(tg *tag.Tag) bool { return tg.Name == name })
}

// AddTag adds tg unless a tag with the same name is present. It reports whether the set changed.
func (t *Transaction) AddTag(tg *tag.Tag) bool {
	if t.HasTag(tg.Name) {
		return false
	}

	t.Tags = append(t.Tags, tg)

	return true
}

// TagNames returns the sorted tag names.
func (t *Transaction) TagNames() []string {
	names := make([]string, 0, len(t.Tags))
	for _, tg := range t.Tags {
		names = append(names, tg.Name)
	}

	slices.Sort(names)

	return names
}
