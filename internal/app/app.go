// Package app wires stores and services for the binaries.
package app

import (
	"database/sql"
	"log/slog"

	"github.com/MrJamesThe3rd/scrooge/internal/account"
	accountStore "github.com/MrJamesThe3rd/scrooge/internal/account/store"
	"github.com/MrJamesThe3rd/scrooge/internal/export"
	"github.com/MrJamesThe3rd/scrooge/internal/importer"
	"github.com/MrJamesThe3rd/scrooge/internal/processor"
	"github.com/MrJamesThe3rd/scrooge/internal/rule"
	ruleStore "github.com/MrJamesThe3rd/scrooge/internal/rule/store"
	"github.com/MrJamesThe3rd/scrooge/internal/tag"
	tagStore "github.com/MrJamesThe3rd/scrooge/internal/tag/store"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
	txStore "github.com/MrJamesThe3rd/scrooge/internal/transaction/store"
)

type Repositories struct {
	Transactions transaction.Repository
	Accounts     account.Repository
	Tags         tag.Repository
	Rules        rule.Repository
}

type Services struct {
	Transactions *transaction.Service
	Accounts     *account.Service
	Tags         *tag.Service
	Rules        *rule.Service
	Runner       *processor.Runner
	Import       *importer.Service
	Export       *export.Service
}

// New builds every service on the Postgres stores.
func New(db *sql.DB, logger *slog.Logger) *Services {
	return Wire(Repositories{
		Transactions: txStore.New(db),
		Accounts:     accountStore.New(db),
		Tags:         tagStore.New(db),
		Rules:        ruleStore.New(db),
	}, logger)
}

// Wire builds every service on repos. Learned rules run after the built-in processors and
// export uses a comma delimiter.
func Wire(repos Repositories, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		transactions = transaction.NewService(repos.Transactions)
		accounts     = account.NewService(repos.Accounts)
		tags         = tag.NewService(repos.Tags)
		rules        = rule.NewService(repos.Rules, processor.Default())
		runner       = processor.NewRunner(rules, tags, transactions, logger)
	)

	return &Services{
		Transactions: transactions,
		Accounts:     accounts,
		Tags:         tags,
		Rules:        rules,
		Runner:       runner,
		Import:       importer.NewService(importer.DefaultRegistry(), transactions, accounts, runner, logger),
		Export:       export.NewService(transactions, ','),
	}
}
