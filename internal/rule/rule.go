package rule

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("rule not found")

// Rule tags every transaction whose description contains Pattern, ignoring case.
type Rule struct {
	ID        uuid.UUID
	Pattern   string
	TagName   string
	TagLabel  string
	CreatedAt time.Time
}
