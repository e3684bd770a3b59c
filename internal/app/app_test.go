package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/scrooge/internal/app"
)

func TestNew(t *testing.T) {
	svc := app.New(nil, nil)
	require.NotNil(t, svc)

	assert.Equal(t, []string{"cgd-csv", "rabobank-csv"}, svc.Import.Formats())
	assert.NotNil(t, svc.Runner)
	assert.NotNil(t, svc.Export)
}
