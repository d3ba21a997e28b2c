package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func latin1(t *testing.T, s string) *bytes.Reader {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return bytes.NewReader([]byte(b))
}

func TestReadCatalog(t *testing.T) {
	src := "nombre;peso_estandar;precio\n" +
		"Cartón corrugado;12,5;0.30\n" +
		"Aluminio;3;1,2\n" +
		"aluminio;9;9\n" +
		";;\n" +
		"Vidrio\n"

	got, err := readCatalog(latin1(t, src))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Cartón corrugado", got[0].Name)
	assert.Equal(t, "12.5", got[0].StandardWeight.String())
	assert.Equal(t, "0.3", got[0].PricePerUnit.String())
	assert.Equal(t, "Aluminio", got[1].Name)
	assert.Equal(t, "1.2", got[1].PricePerUnit.String())
	assert.Equal(t, "Vidrio", got[2].Name)
	assert.True(t, got[2].StandardWeight.IsZero())
}

func TestReadCatalog_InvalidNumber(t *testing.T) {
	_, err := readCatalog(latin1(t, "nombre;peso;precio\nPapel;abc;1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
}

func TestReadCatalog_Empty(t *testing.T) {
	got, err := readCatalog(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}
