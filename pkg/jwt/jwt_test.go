package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	in := Identity{UserID: "u-1", BusinessID: "demo", LocationID: "loc-tienda", Role: "cashier"}
	tok, err := Generate("secret", "inventario-pos", 5, in)
	require.NoError(t, err)

	out, err := Parse("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := Generate("secret", "inventario-pos", 5, Identity{UserID: "u-1"})
	require.NoError(t, err)

	_, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	tok, err := Generate("secret", "inventario-pos", -1, Identity{UserID: "u-1"})
	require.NoError(t, err)

	_, err = Parse("secret", tok)
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, err := Generate("", "x", 5, Identity{})
	assert.Error(t, err)
	_, err = Parse("", "x")
	assert.Error(t, err)
}
