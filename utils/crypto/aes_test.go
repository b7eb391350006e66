package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const platformKey = "JMybKEd6L1cVpw=="

func TestEncryptECB_KnownVectors(t *testing.T) {
	cases := map[string]string{
		"123456":           "Ze48Lq7/iiHPtyAtsopZfw==",
		"0123456789abcdef": "n0oOL51XGZBcxrkWh6csxLI1i2X161KoOmqmDe7b7vU=",
	}
	for plain, want := range cases {
		got, err := EncryptECB(platformKey, plain)
		require.NoError(t, err)
		assert.Equal(t, want, got, plain)
	}
}

func TestDecryptECB_RoundTrip(t *testing.T) {
	for _, plain := range []string{"", "a", "secret-password", "密碼123"} {
		enc, err := EncryptECB(platformKey, plain)
		require.NoError(t, err)
		dec, err := DecryptECB(platformKey, enc)
		require.NoError(t, err)
		assert.Equal(t, plain, dec)
	}
}

func TestEncryptECB_InvalidKey(t *testing.T) {
	_, err := EncryptECB("short", "x")
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestDecryptECB_Rejects(t *testing.T) {
	_, err := DecryptECB(platformKey, "not base64!")
	assert.Error(t, err)

	_, err = DecryptECB(platformKey, "YWJj")
	assert.ErrorIs(t, err, ErrInvalidBlockSize)
}
