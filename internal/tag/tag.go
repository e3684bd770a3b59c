package tag

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a semantic classification attached to transactions.
type Tag struct {
	ID        uuid.UUID
	Name      string
	Label     string
	CreatedAt time.Time
}

// Spec names a tag to apply. Label is only used while the stored tag has none.
type Spec struct {
	Name  string
	Label string
}
