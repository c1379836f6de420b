package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash(Default, "Clave-fuerte1")
	require.NoError(t, err)
	assert.True(t, Verify("Clave-fuerte1", hash))
	assert.False(t, Verify("otra", hash))

	// dos hashes del mismo password no son iguales (salt aleatorio)
	other, err := Hash(Default, "Clave-fuerte1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	assert.False(t, Verify("x", ""))
	assert.False(t, Verify("x", "no-es-phc"))
}

func TestPolicy_Validate(t *testing.T) {
	ok, reasons := DefaultPolicy.Validate("Clave-fuerte1")
	assert.True(t, ok)
	assert.Empty(t, reasons)

	ok, reasons = DefaultPolicy.Validate("corta")
	assert.False(t, ok)
	assert.Contains(t, reasons, "too_short")

	ok, reasons = DefaultPolicy.Validate("sin-mayusculas-1")
	assert.False(t, ok)
	assert.Contains(t, reasons, "missing_upper")

	ok, reasons = DefaultPolicy.Validate("SIN-MINUSCULAS-1")
	assert.False(t, ok)
	assert.Contains(t, reasons, "missing_lower")

	ok, reasons = DefaultPolicy.Validate("Sin-digitos-aqui")
	assert.False(t, ok)
	assert.Contains(t, reasons, "missing_digit")
}

func TestPolicy_Symbols(t *testing.T) {
	p := Policy{MinLength: 4, RequireSymbol: true}
	ok, reasons := p.Validate("abcd")
	assert.False(t, ok)
	assert.Contains(t, reasons, "missing_symbol")

	ok, _ = p.Validate("ab!d")
	assert.True(t, ok)
}
