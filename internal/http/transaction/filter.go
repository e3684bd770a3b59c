package transaction

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

// ParseFilter reads account_id, tag, start_date and end_date (YYYY-MM-DD, inclusive)
// from query parameters.
func ParseFilter(q url.Values) (transaction.ListFilter, error) {
	var filter transaction.ListFilter

	if s := q.Get("account_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return filter, fmt.Errorf("invalid account_id: %w", err)
		}

		filter.AccountID = &id
	}

	if s := q.Get("tag"); s != "" {
		filter.Tag = new(s)
	}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date: %w", err)
		}

		filter.StartDate = &t
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date: %w", err)
		}

		filter.EndDate = new(t.Add(24*time.Hour - time.Nanosecond))
	}

	return filter, nil
}
