package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/scrooge/internal/money"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{name: "Euro", code: "EUR"},
		{name: "Dollar", code: "USD"},
		{name: "Lower case", code: "eur", wantErr: true},
		{name: "Too short", code: "EU", wantErr: true},
		{name: "Too long", code: "EURO", wantErr: true},
		{name: "Unregistered", code: "QQQ", wantErr: true},
		{name: "Empty", code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := money.ParseCurrency(tt.code)
			if tt.wantErr {
				assert.ErrorIs(t, err, money.ErrUnknownCurrency)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.code, unit.String())
		})
	}
}

func TestParse(t *testing.T) {
	a, err := money.Parse("12.50", "EUR")
	require.NoError(t, err)

	assert.True(t, a.Value.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, "EUR", a.Code())
	assert.Equal(t, "12.50 EUR", a.String())

	neg := a.Neg()
	assert.True(t, neg.IsNegative())
	assert.Equal(t, "-12.50 EUR", neg.String())
}

func TestParse_InvalidValue(t *testing.T) {
	_, err := money.Parse("12,50x", "EUR")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, money.ErrUnknownCurrency)
}

func TestAmount_ZeroCode(t *testing.T) {
	assert.Equal(t, "", money.Amount{}.Code())
}
