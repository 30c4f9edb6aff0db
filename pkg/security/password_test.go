package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenfurnitures/storefront-api/pkg/config"
)

func fastParams() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("very-secure-password", fastParams())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"))

	ok, err := VerifyPassword("very-secure-password", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("bogus-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("", fastParams())
	assert.Error(t, err)
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	a, err := HashPassword("same", fastParams())
	require.NoError(t, err)
	b, err := HashPassword("same", fastParams())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPasswordBadHash(t *testing.T) {
	cases := map[string]string{
		"garbage":       "not-a-hash",
		"wrong algo":    "$argon2i$v=19$m=8,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"bad params":    "$argon2id$v=19$m=x,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"bad salt":      "$argon2id$v=19$m=8,t=1,p=1$!!!$a2V5a2V5",
		"zero time":     "$argon2id$v=19$m=8,t=0,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"missing parts": "$argon2id$v=19$m=8,t=1,p=1",
	}
	for name, hash := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := VerifyPassword("irrelevant", hash)
			assert.ErrorIs(t, err, ErrInvalidHash)
		})
	}
}

func TestVerifyPasswordVersionMismatch(t *testing.T) {
	_, err := VerifyPassword("x", "$argon2id$v=16$m=8,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5")
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestParamsAreClamped(t *testing.T) {
	params := paramsFromConfig(config.PasswordConfig{})
	assert.Equal(t, uint32(8), params.Memory)
	assert.Equal(t, uint32(1), params.Time)
	assert.Equal(t, uint8(1), params.Parallelism)
	assert.Equal(t, uint32(8), params.SaltLen)
	assert.Equal(t, uint32(16), params.KeyLen)
}

func TestParsePHCRoundTrip(t *testing.T) {
	hash, err := HashPassword("pw", fastParams())
	require.NoError(t, err)

	h, err := parsePHC(hash)
	require.NoError(t, err)
	assert.Equal(t, uint32(8192), h.params.Memory)
	assert.Equal(t, uint32(16), h.params.SaltLen)
	assert.Equal(t, uint32(32), h.params.KeyLen)
	assert.Equal(t, hash, h.String())
}

func TestParseCostRejectsUnknownOrMissingKeys(t *testing.T) {
	var p ArgonParams
	assert.ErrorIs(t, parseCost("m=8,t=1", &p), ErrInvalidHash)
	assert.ErrorIs(t, parseCost("m=8,t=1,x=1", &p), ErrInvalidHash)
	assert.ErrorIs(t, parseCost("m=8,t=1,p=300", &p), ErrInvalidHash)
	require.NoError(t, parseCost("p=2,m=64,t=3", &p))
	assert.Equal(t, ArgonParams{Memory: 64, Time: 3, Parallelism: 2}, p)
}
