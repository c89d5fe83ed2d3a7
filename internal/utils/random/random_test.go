package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericCode(t *testing.T) {
	for _, length := range []int{1, 6, 10} {
		code, err := NumericCode(length)
		require.NoError(t, err)
		require.Len(t, code, length)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit %q", code, r)
		}
	}
}

func TestNumericCode_RejectsNonPositiveLength(t *testing.T) {
	_, err := NumericCode(0)
	assert.Error(t, err)
	_, err = NumericCode(-1)
	assert.Error(t, err)
}

func TestNumericCode_VariesAcrossCalls(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		code, err := NumericCode(6)
		require.NoError(t, err)
		seen[code] = true
	}
	// Ten identical 6-digit draws would mean a broken generator.
	assert.Greater(t, len(seen), 1)
}

func TestOpaqueToken(t *testing.T) {
	token, err := OpaqueToken(32)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")

	other, err := OpaqueToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestOpaqueToken_RejectsNonPositiveLength(t *testing.T) {
	_, err := OpaqueToken(0)
	assert.Error(t, err)
}
