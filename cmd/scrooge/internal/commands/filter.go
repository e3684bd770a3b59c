package commands

import (
	"net/url"

	"github.com/spf13/cobra"

	txhttp "github.com/MrJamesThe3rd/scrooge/internal/http/transaction"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

// filterFlags mirror the query parameters of the transaction list endpoint.
type filterFlags struct {
	account string
	tag     string
	from    string
	to      string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.account, "account", "", "only transactions of this account id")
	cmd.Flags().StringVar(&f.tag, "tag", "", "only transactions carrying this tag")
	cmd.Flags().StringVar(&f.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last day, YYYY-MM-DD, inclusive")
}

func (f *filterFlags) filter() (transaction.ListFilter, error) {
	q := url.Values{}

	for key, value := range map[string]string{
		"account_id": f.account,
		"tag":        f.tag,
		"start_date": f.from,
		"end_date":   f.to,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}

	return txhttp.ParseFilter(q)
}
