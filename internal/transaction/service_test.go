package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/scrooge/internal/account"
	"github.com/MrJamesThe3rd/scrooge/internal/money"
	"github.com/MrJamesThe3rd/scrooge/internal/tag"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

func newTx(t *testing.T) *transaction.Transaction {
	t.Helper()

	amount, err := money.Parse("-12.50", "EUR")
	require.NoError(t, err)

	return &transaction.Transaction{
		RemoteID:    "rabobank-csv:abc",
		OwnAccount:  &account.Account{ID: uuid.New(), Number: "NL00RABO0000000001"},
		RemoteDate:  time.Date(2020, 1, 1, 13, 32, 0, 0, time.UTC),
		Amount:      amount,
		Description: "Betaalautomaat 14:32 pasnr. 123",
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		tx        func(t *testing.T) *transaction.Transaction
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			tx:   newTx,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "Duplicate",
			tx:   newTx,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(transaction.ErrDuplicate)
			},
			wantErr: transaction.ErrDuplicate,
		},
		{
			name: "MissingAccount",
			tx: func(t *testing.T) *transaction.Transaction {
				tx := newTx(t)
				tx.OwnAccount = nil

				return tx
			},
			wantErr: errors.New("missing own account"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			tx := tt.tx(t)
			err := transaction.NewService(repo).Create(context.Background(), tx)

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, transaction.ErrDuplicate) {
					assert.ErrorIs(t, err, transaction.ErrDuplicate)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, tx.ID)
		})
	}
}

func TestService_Exists(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *transaction.MockRepository)
		want      bool
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Found",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().FindByRemoteID(gomock.Any(), "rabobank-csv:abc").Return(&transaction.Transaction{}, nil)
			},
			want: true,
		},
		{
			name: "NotFound",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().FindByRemoteID(gomock.Any(), "rabobank-csv:abc").Return(nil, transaction.ErrNotFound)
			},
			want: false,
		},
		{
			name: "RepoError",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().FindByRemoteID(gomock.Any(), "rabobank-csv:abc").Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := transaction.NewService(repo).Exists(context.Background(), "rabobank-csv:abc")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	imported := newTx(t)
	assert.ErrorIs(t, svc.Update(context.Background(), imported), transaction.ErrImmutable)

	manual := newTx(t)
	manual.RemoteID = ""

	repo.EXPECT().UpdateTransaction(gomock.Any(), manual).Return(nil)
	assert.NoError(t, svc.Update(context.Background(), manual))
}

func TestService_AddTags(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	id := uuid.New()
	pos := &tag.Tag{ID: uuid.New(), Name: "pos"}
	ah := &tag.Tag{ID: uuid.New(), Name: "albert-heijn"}

	repo.EXPECT().AddTags(gomock.Any(), id, []uuid.UUID{pos.ID, ah.ID}).Return(nil)
	require.NoError(t, svc.AddTags(context.Background(), id, []*tag.Tag{pos, ah}))

	// No tags means no write.
	require.NoError(t, svc.AddTags(context.Background(), id, nil))
}

func TestTransaction_AddTag(t *testing.T) {
	tx := &transaction.Transaction{}

	assert.True(t, tx.AddTag(&tag.Tag{Name: "pos"}))
	assert.False(t, tx.AddTag(&tag.Tag{Name: "pos"}))
	assert.True(t, tx.AddTag(&tag.Tag{Name: "albert-heijn"}))

	assert.True(t, tx.HasTag("pos"))
	assert.False(t, tx.HasTag("atm"))
	assert.Equal(t, []string{"albert-heijn", "pos"}, tx.TagNames())
}
