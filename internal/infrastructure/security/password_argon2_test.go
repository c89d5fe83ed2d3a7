package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Low-cost parameters keep the test fast; correctness does not depend on cost.
func testArgonParams() Argon2idParams {
	return Argon2idParams{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2idPasswordService_HashAndVerify(t *testing.T) {
	svc, err := NewArgon2idPasswordService(testArgonParams())
	require.NoError(t, err)

	hash, err := svc.HashPassword("correct-horse-battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "correct-horse-battery")

	ok, err := svc.CheckPasswordHash("correct-horse-battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckPasswordHash("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2idPasswordService_HashesAreSalted(t *testing.T) {
	svc, err := NewArgon2idPasswordService(testArgonParams())
	require.NoError(t, err)

	first, err := svc.HashPassword("same-password")
	require.NoError(t, err)
	second, err := svc.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestArgon2idPasswordService_VerifiesHashesFromOtherParams(t *testing.T) {
	oldSvc, err := NewArgon2idPasswordService(Argon2idParams{
		Memory: 4 * 1024, Iterations: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	require.NoError(t, err)
	hash, err := oldSvc.HashPassword("pw")
	require.NoError(t, err)

	// The parameters embedded in the hash win over the service's own.
	newSvc, err := NewArgon2idPasswordService(testArgonParams())
	require.NoError(t, err)
	ok, err := newSvc.CheckPasswordHash("pw", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgon2idPasswordService_MalformedHashRejected(t *testing.T) {
	svc, err := NewArgon2idPasswordService(testArgonParams())
	require.NoError(t, err)

	for _, hash := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$aGFzaA",
	} {
		_, err := svc.CheckPasswordHash("pw", hash)
		assert.Error(t, err, "hash %q must be rejected", hash)
	}
}

func TestNewArgon2idPasswordService_RejectsZeroParams(t *testing.T) {
	_, err := NewArgon2idPasswordService(Argon2idParams{})
	assert.Error(t, err)
}
