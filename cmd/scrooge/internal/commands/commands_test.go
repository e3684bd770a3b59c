package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/scrooge/cmd/scrooge/internal/commands"
	"github.com/MrJamesThe3rd/scrooge/internal/account"
	"github.com/MrJamesThe3rd/scrooge/internal/app"
	"github.com/MrJamesThe3rd/scrooge/internal/money"
	"github.com/MrJamesThe3rd/scrooge/internal/rule"
	"github.com/MrJamesThe3rd/scrooge/internal/tag"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

const exampleCSV = `"NL00RABO000000001","EUR","20200101","D","12.50","","AH to go Amsterdam 14:32 pasnr. 123","20200101","ga","","Betaalautomaat 14:32 pasnr. 123","AH to go Amsterdam","","","","",""` + "\n"

type fakeBackend struct {
	svc        *app.Services
	migrated   int
	migrateErr error

	txRepo   *transaction.MockRepository
	accRepo  *account.MockRepository
	tagRepo  *tag.MockRepository
	ruleRepo *rule.MockRepository
}

func newBackend(t *testing.T) *fakeBackend {
	t.Helper()

	ctrl := gomock.NewController(t)

	b := &fakeBackend{
		txRepo:   transaction.NewMockRepository(ctrl),
		accRepo:  account.NewMockRepository(ctrl),
		tagRepo:  tag.NewMockRepository(ctrl),
		ruleRepo: rule.NewMockRepository(ctrl),
	}

	b.svc = app.Wire(app.Repositories{
		Transactions: b.txRepo,
		Accounts:     b.accRepo,
		Tags:         b.tagRepo,
		Rules:        b.ruleRepo,
	}, nil)

	return b
}

func (b *fakeBackend) Services(context.Context) (*app.Services, error) { return b.svc, nil }
func (b *fakeBackend) Migrate(context.Context) (int, error)            { return b.migrated, b.migrateErr }
func (b *fakeBackend) Close() error                                    { return nil }

func run(t *testing.T, b commands.Backend, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := commands.NewRootCommand(b)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "transactions.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func storedTx(t *testing.T) *transaction.Transaction {
	t.Helper()

	amount, err := money.Parse("-12.50", "EUR")
	require.NoError(t, err)

	return &transaction.Transaction{
		ID:          uuid.New(),
		RemoteID:    "rabobank-csv:abc",
		OwnAccount:  &account.Account{ID: uuid.New(), Number: "NL00RABO000000001"},
		RemoteDate:  time.Date(2020, 1, 1, 13, 32, 0, 0, time.UTC),
		Amount:      amount,
		Description: "Betaalautomaat 14:32 pasnr. 123 AH to go Amsterdam",
	}
}

func expectTagging(b *fakeBackend) {
	pos := &tag.Tag{ID: uuid.New(), Name: "pos"}
	ah := &tag.Tag{ID: uuid.New(), Name: "albert-heijn"}

	b.ruleRepo.EXPECT().ListRules(gomock.Any()).Return(nil, nil)
	b.tagRepo.EXPECT().FindOrCreate(gomock.Any(), "pos", "Point of Sale").Return(pos, nil)
	b.tagRepo.EXPECT().FindOrCreate(gomock.Any(), "albert-heijn", "Albert Heijn").Return(ah, nil)
	b.txRepo.EXPECT().AddTags(gomock.Any(), gomock.Any(), []uuid.UUID{pos.ID, ah.ID}).Return(nil)
}

func TestFormats(t *testing.T) {
	out, _, err := run(t, newBackend(t), "formats")
	require.NoError(t, err)
	assert.Equal(t, "cgd-csv\nrabobank-csv\n", out)
}

func TestImport(t *testing.T) {
	b := newBackend(t)
	acc := &account.Account{ID: uuid.New(), Number: "NL00RABO000000001"}

	b.txRepo.EXPECT().FindByRemoteID(gomock.Any(), gomock.Any()).Return(nil, transaction.ErrNotFound)
	b.accRepo.EXPECT().FindOrCreate(gomock.Any(), "NL00RABO000000001", "NL00RABO000000001").Return(acc, nil)
	b.txRepo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			tx.ID = uuid.New()
			return nil
		})
	expectTagging(b)

	out, _, err := run(t, b, "import", "rabobank-csv", writeSource(t, exampleCSV))
	require.NoError(t, err)
	assert.Equal(t, "Imported 1 transaction(s).\n", out)
}

func TestImport_AlreadyImported(t *testing.T) {
	b := newBackend(t)

	b.txRepo.EXPECT().FindByRemoteID(gomock.Any(), gomock.Any()).Return(storedTx(t), nil)

	out, _, err := run(t, b, "import", "rabobank-csv", writeSource(t, exampleCSV))
	require.NoError(t, err)
	assert.Equal(t, "Imported 0 transaction(s).\nSkipped 1 already imported transaction(s).\n", out)
}

func TestImport_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    func(t *testing.T) []string
		wantErr string
	}{
		{
			name:    "Missing source",
			args:    func(t *testing.T) []string { return []string{"import", "rabobank-csv", "/does/not/exist.txt"} },
			wantErr: "source /does/not/exist.txt does not exist",
		},
		{
			name: "Directory source",
			args: func(t *testing.T) []string {
				return []string{"import", "rabobank-csv", t.TempDir()}
			},
			wantErr: "does not exist",
		},
		{
			name: "Unknown format",
			args: func(t *testing.T) []string {
				return []string{"import", "ing-csv", writeSource(t, exampleCSV)}
			},
			wantErr: "ing-csv is an unknown format. Known formats are cgd-csv, rabobank-csv.",
		},
		{
			name:    "Missing arguments",
			args:    func(t *testing.T) []string { return []string{"import", "rabobank-csv"} },
			wantErr: "accepts 2 arg(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, newBackend(t), tt.args(t)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMigrate(t *testing.T) {
	b := newBackend(t)
	b.migrated = 2

	out, _, err := run(t, b, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "Applied 2 migration(s).\n", out)

	b.migrateErr = errors.New("connection refused")

	_, _, err = run(t, b, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestReprocess(t *testing.T) {
	b := newBackend(t)

	b.txRepo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f transaction.ListFilter) ([]*transaction.Transaction, error) {
			require.NotNil(t, f.StartDate)
			assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)

			return []*transaction.Transaction{storedTx(t)}, nil
		})
	expectTagging(b)

	out, _, err := run(t, b, "reprocess", "--from", "2020-01-01")
	require.NoError(t, err)
	assert.Equal(t, "Processed 1 transaction(s), 1 gained tags.\n", out)
}

func TestReprocess_AlreadyTagged(t *testing.T) {
	b := newBackend(t)

	tx := storedTx(t)
	tx.Tags = []*tag.Tag{{Name: "pos"}, {Name: "albert-heijn"}}

	b.txRepo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{tx}, nil)
	b.ruleRepo.EXPECT().ListRules(gomock.Any()).Return(nil, nil)

	out, _, err := run(t, b, "reprocess")
	require.NoError(t, err)
	assert.Equal(t, "Processed 1 transaction(s), 0 gained tags.\n", out)
}

func TestReprocess_BadFilter(t *testing.T) {
	_, _, err := run(t, newBackend(t), "reprocess", "--from", "01-01-2020")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start_date")
}

func TestExport(t *testing.T) {
	b := newBackend(t)

	tx := storedTx(t)
	tx.Tags = []*tag.Tag{{Name: "pos"}, {Name: "albert-heijn"}}

	b.txRepo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f transaction.ListFilter) ([]*transaction.Transaction, error) {
			require.NotNil(t, f.Tag)
			assert.Equal(t, "pos", *f.Tag)

			return []*transaction.Transaction{tx}, nil
		})

	out, stderr, err := run(t, b, "export", "--tag", "pos")
	require.NoError(t, err)

	assert.Contains(t, out, "date,account,opposing_account,opposing_name,amount,currency,description,tags,remote_id\n")
	assert.Contains(t, out, "-12.50,EUR,")
	assert.Contains(t, out, "albert-heijn|pos")
	assert.Equal(t, "Exported 1 transaction(s).\n", stderr)
}

func TestExport_ToFile(t *testing.T) {
	b := newBackend(t)
	path := filepath.Join(t.TempDir(), "out", "all.csv")

	b.txRepo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		Return([]*transaction.Transaction{storedTx(t)}, nil)

	out, stderr, err := run(t, b, "export", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "Exported 1 transaction(s).\n", stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "-12.50,EUR,")
}

func TestExport_FailureKeepsExistingFile(t *testing.T) {
	b := newBackend(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "all.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))

	b.txRepo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("db down"))

	_, _, err := run(t, b, "export", "-o", path)
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
