package auth

import (
	"encoding/base64"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPrivateKey() string {
	return base64.StdEncoding.EncodeToString([]byte("super-secret-key-material"))
}

func TestNewRejectsInvalidBase64(t *testing.T) {
	t.Parallel()
	_, err := New("key", "not-valid-base64!!!")
	require.Error(t, err)
}

func TestSignIsDeterministicForSameInputs(t *testing.T) {
	t.Parallel()
	creds, err := New("key", validPrivateKey())
	require.NoError(t, err)

	sig1 := creds.Sign("/0/private/GetWebSocketsToken", "123456789000000", "nonce=123456789000000")
	sig2 := creds.Sign("/0/private/GetWebSocketsToken", "123456789000000", "nonce=123456789000000")
	assert.Equal(t, sig1, sig2)
}

func TestSignDiffersByPath(t *testing.T) {
	t.Parallel()
	creds, err := New("key", validPrivateKey())
	require.NoError(t, err)

	sigA := creds.Sign("/0/private/GetWebSocketsToken", "1", "nonce=1")
	sigB := creds.Sign("/0/private/AddOrder", "1", "nonce=1")
	assert.NotEqual(t, sigA, sigB)
}

func TestGenerateNonceIsStrictlyIncreasing(t *testing.T) {
	t.Parallel()
	first := GenerateNonce()
	second := GenerateNonce()
	assert.NotEqual(t, first, second, "nonces must not collide across rapid successive calls")
}

func TestGenerateNonceHasMillisecondPrefixAndSixDigitCounter(t *testing.T) {
	t.Parallel()
	nonce := GenerateNonce()
	assert.True(t, len(nonce) >= 7, "nonce must carry at least a timestamp and 6-digit counter suffix")
	suffix := nonce[len(nonce)-6:]
	assert.Len(t, suffix, 6)
}

func TestFromEnvMissingAPIKey(t *testing.T) {
	os.Unsetenv("TESTKRAKEN_API_KEY")
	os.Unsetenv("TESTKRAKEN_PRIVATE_KEY")
	_, err := FromEnv("TESTKRAKEN")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "TESTKRAKEN_API_KEY"))
}

func TestFromEnvMissingPrivateKey(t *testing.T) {
	os.Setenv("TESTKRAKEN2_API_KEY", "my-key")
	defer os.Unsetenv("TESTKRAKEN2_API_KEY")
	os.Unsetenv("TESTKRAKEN2_PRIVATE_KEY")

	_, err := FromEnv("TESTKRAKEN2")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "TESTKRAKEN2_PRIVATE_KEY"))
}

func TestFromEnvSucceedsWithBothVarsSet(t *testing.T) {
	os.Setenv("TESTKRAKEN3_API_KEY", "my-key")
	os.Setenv("TESTKRAKEN3_PRIVATE_KEY", validPrivateKey())
	defer os.Unsetenv("TESTKRAKEN3_API_KEY")
	defer os.Unsetenv("TESTKRAKEN3_PRIVATE_KEY")

	creds, err := FromEnv("TESTKRAKEN3")
	require.NoError(t, err)
	assert.Equal(t, "my-key", creds.APIKey())
}

func TestRequestSignerBindsOneNoncePerInstance(t *testing.T) {
	t.Parallel()
	creds, err := New("key", validPrivateKey())
	require.NoError(t, err)

	signer := NewRequestSigner(creds, "/0/private/GetWebSocketsToken")
	sig1 := signer.Sign("nonce=" + signer.Nonce())
	sig2 := signer.Sign("nonce=" + signer.Nonce())
	assert.Equal(t, sig1, sig2, "same signer, same postData must produce the same signature")
}

func TestDestroyZeroesPrivateKey(t *testing.T) {
	t.Parallel()
	creds, err := New("key", validPrivateKey())
	require.NoError(t, err)
	before := creds.Sign("/p", "1", "body")
	creds.Destroy()
	after := creds.Sign("/p", "1", "body")
	assert.NotEqual(t, before, after, "signing after Destroy must use zeroed key material")
}
