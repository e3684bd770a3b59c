package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("account not found")

// Account is a bank account transactions are logged under.
// Number is the external identifier (usually an IBAN) and never changes once created.
type Account struct {
	ID        uuid.UUID
	Number    string
	Label     string
	CreatedAt time.Time
}
