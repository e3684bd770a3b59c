package importer_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/scrooge/internal/importer"
	"github.com/MrJamesThe3rd/scrooge/internal/statement"
	"github.com/MrJamesThe3rd/scrooge/internal/statement/rabobank"
)

type namedFormat string

func (f namedFormat) Name() string { return string(f) }

func (f namedFormat) Open(io.Reader) (statement.Source, error) { return nil, nil }

func TestRegistry(t *testing.T) {
	r, err := importer.NewRegistry(namedFormat("b"), namedFormat("a"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, r.Names())

	assert.Error(t, r.Register(namedFormat("a")))
	assert.Error(t, r.Register(namedFormat("")))

	f, err := r.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "b", f.Name())

	_, err = r.Get("c")
	assert.EqualError(t, err, "c is an unknown format. Known formats are a, b.")
}

func TestDefaultRegistry(t *testing.T) {
	r := importer.DefaultRegistry()
	assert.Equal(t, []string{"cgd-csv", "rabobank-csv"}, r.Names())

	f, err := r.Get(rabobank.Name)
	require.NoError(t, err)
	assert.Equal(t, rabobank.Name, f.Name())
}

func TestFingerprint(t *testing.T) {
	row := []string{"NL00RABO000000001", "EUR", "20200101"}

	a := importer.Fingerprint(row)
	assert.Len(t, a, 64)
	assert.Equal(t, a, importer.Fingerprint(append([]string(nil), row...)))

	other := append([]string(nil), row...)
	other[2] = "20200102"
	assert.NotEqual(t, a, importer.Fingerprint(other))

	// Field boundaries are part of the content.
	assert.NotEqual(t, importer.Fingerprint([]string{"ab", "c"}), importer.Fingerprint([]string{"a", "bc"}))

	assert.Equal(t, "rabobank-csv:"+a, importer.RemoteID("rabobank-csv", row))
}
