package importer_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/scrooge/internal/account"
	"github.com/MrJamesThe3rd/scrooge/internal/tag"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

// memStore keeps transactions, accounts and tags in memory with the uniqueness rules of
// the Postgres schema.
type memStore struct {
	txs      []*transaction.Transaction
	byRemote map[string]*transaction.Transaction
	accounts map[string]*account.Account
	tags     map[string]*tag.Tag
	links    map[uuid.UUID][]uuid.UUID

	// existsLies makes Exists report false so the insert conflict path is taken.
	existsLies bool
}

func newMemStore() *memStore {
	return &memStore{
		byRemote: map[string]*transaction.Transaction{},
		accounts: map[string]*account.Account{},
		tags:     map[string]*tag.Tag{},
		links:    map[uuid.UUID][]uuid.UUID{},
	}
}

func (m *memStore) Exists(_ context.Context, remoteID string) (bool, error) {
	if m.existsLies {
		return false, nil
	}

	_, ok := m.byRemote[remoteID]

	return ok, nil
}

func (m *memStore) Create(_ context.Context, tx *transaction.Transaction) error {
	if _, ok := m.byRemote[tx.RemoteID]; ok {
		return transaction.ErrDuplicate
	}

	tx.ID = uuid.New()
	tx.CreatedAt = time.Now()
	m.byRemote[tx.RemoteID] = tx
	m.txs = append(m.txs, tx)

	return nil
}

func (m *memStore) Resolve(_ context.Context, number string) (*account.Account, error) {
	if acc, ok := m.accounts[number]; ok {
		return acc, nil
	}

	acc := &account.Account{ID: uuid.New(), Number: number, Label: number}
	m.accounts[number] = acc

	return acc, nil
}

func (m *memStore) Ensure(_ context.Context, spec tag.Spec) (*tag.Tag, error) {
	if t, ok := m.tags[spec.Name]; ok {
		return t, nil
	}

	t := &tag.Tag{ID: uuid.New(), Name: spec.Name, Label: spec.Label}
	m.tags[spec.Name] = t

	return t, nil
}

func (m *memStore) AddTags(_ context.Context, id uuid.UUID, tags []*tag.Tag) error {
	for _, t := range tags {
		m.links[id] = append(m.links[id], t.ID)
	}

	return nil
}
