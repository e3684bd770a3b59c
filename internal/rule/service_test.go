package rule_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/scrooge/internal/processor"
	"github.com/MrJamesThe3rd/scrooge/internal/rule"
	"github.com/MrJamesThe3rd/scrooge/internal/tag"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

func TestService_Learn(t *testing.T) {
	type args struct {
		pattern string
		tag     tag.Spec
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *rule.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{pattern: "  Vattenfall ", tag: tag.Spec{Name: "energy", Label: "Energy"}},
			setupMock: func(m *rule.MockRepository) {
				m.EXPECT().
					CreateRule(gomock.Any(), &rule.Rule{Pattern: "Vattenfall", TagName: "energy", TagLabel: "Energy"}).
					Return(nil)
			},
		},
		{
			name:    "Empty pattern",
			args:    args{pattern: " ", tag: tag.Spec{Name: "energy"}},
			wantErr: true,
		},
		{
			name:    "Empty tag",
			args:    args{pattern: "Vattenfall"},
			wantErr: true,
		},
		{
			name: "Repo error",
			args: args{pattern: "Vattenfall", tag: tag.Spec{Name: "energy"}},
			setupMock: func(m *rule.MockRepository) {
				m.EXPECT().CreateRule(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := rule.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			r, err := rule.NewService(repo, processor.Default()).Learn(context.Background(), tt.args.pattern, tt.args.tag)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Vattenfall", r.Pattern)
		})
	}
}

func TestService_Chain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := rule.NewMockRepository(ctrl)
	stored := &rule.Rule{ID: uuid.New(), Pattern: "albert heijn (online)", TagName: "groceries", TagLabel: "Groceries"}
	repo.EXPECT().ListRules(gomock.Any()).Return([]*rule.Rule{stored}, nil)

	chain, err := rule.NewService(repo, processor.Default()).Chain(context.Background())
	require.NoError(t, err)

	names := chain.Names()
	require.Len(t, names, 4)
	assert.Equal(t, []string{"atm", "pos", "albert-heijn"}, names[:3])

	learned := chain.Processors()[3]

	// Patterns match literally and ignore case.
	spec, ok := learned.Match(&transaction.Transaction{Description: "iDEAL ALBERT HEIJN (ONLINE) order 12"})
	require.True(t, ok)
	assert.Equal(t, tag.Spec{Name: "groceries", Label: "Groceries"}, spec)

	_, ok = learned.Match(&transaction.Transaction{Description: "albert heijn online"})
	assert.False(t, ok)
}

func TestService_ChainListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := rule.NewMockRepository(ctrl)
	repo.EXPECT().ListRules(gomock.Any()).Return(nil, errors.New("db error"))

	_, err := rule.NewService(repo, processor.Default()).Chain(context.Background())
	assert.Error(t, err)
}

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := rule.NewMockRepository(ctrl)
	repo.EXPECT().FindMatch(gomock.Any(), "unknown").Return(nil, rule.ErrNotFound)

	_, err := rule.NewService(repo, processor.Default()).Suggest(context.Background(), "unknown")
	assert.ErrorIs(t, err, rule.ErrNotFound)
}
