// Package auth implements Kraken's private-REST request signing (spec §4.13)
// and the WebSocket token exchange it gates.
//
// Grounded on original_source/crates/kraken-auth/src/credentials.rs.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/hitakshiA/Havklo-sdk-sub000/krakenerr"
)

// nonceCounter is the one piece of process-wide global mutable state this
// module carries deliberately (spec §9): nonces must be strictly
// increasing across every Credentials instance in the process, so the
// counter cannot be per-instance.
var nonceCounter uint64

// Credentials holds an API key and its matching private key, decoded from
// base64 at construction time. The private key is kept only as decoded
// bytes — Go offers no zeroize-on-drop primitive, so callers that need
// the original's zeroize-on-drop guarantee should call Destroy explicitly
// once the credentials are no longer needed.
type Credentials struct {
	apiKey     string
	privateKey []byte
}

// New decodes privateKeyB64 and constructs Credentials.
func New(apiKey, privateKeyB64 string) (*Credentials, error) {
	decoded, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, krakenerr.Wrap(krakenerr.KindAuth, "invalid base64 private key", err, krakenerr.Fatal())
	}
	return &Credentials{apiKey: apiKey, privateKey: decoded}, nil
}

// FromEnv builds Credentials from the <prefix>_API_KEY and
// <prefix>_PRIVATE_KEY environment variables (spec §6). prefix is
// typically "KRAKEN".
func FromEnv(prefix string) (*Credentials, error) {
	apiKey, ok := os.LookupEnv(prefix + "_API_KEY")
	if !ok {
		return nil, &krakenerr.EnvVarNotSet{Name: prefix + "_API_KEY"}
	}
	privateKey, ok := os.LookupEnv(prefix + "_PRIVATE_KEY")
	if !ok {
		return nil, &krakenerr.EnvVarNotSet{Name: prefix + "_PRIVATE_KEY"}
	}
	return New(apiKey, privateKey)
}

// APIKey returns the public API key.
func (c *Credentials) APIKey() string { return c.apiKey }

// Destroy zeroes the decoded private key in place. Call once the
// credentials are no longer needed.
func (c *Credentials) Destroy() {
	for i := range c.privateKey {
		c.privateKey[i] = 0
	}
}

// GenerateNonce returns a strictly-increasing nonce: a millisecond
// timestamp concatenated with a 6-digit wrapped counter, guaranteeing
// uniqueness across requests issued within the same millisecond.
func GenerateNonce() string {
	timestamp := time.Now().UnixMilli()
	counter := atomic.AddUint64(&nonceCounter, 1) % 1_000_000
	return fmt.Sprintf("%d%06d", timestamp, counter)
}

// Sign implements Kraken's private-endpoint signature algorithm:
//  1. sha256(nonce || postData)
//  2. message = path || sha256Result
//  3. hmacSha512(privateKey, message)
//  4. base64(result)
func (c *Credentials) Sign(path, nonce, postData string) string {
	h := sha256.New()
	h.Write([]byte(nonce))
	h.Write([]byte(postData))
	sum := h.Sum(nil)

	message := make([]byte, 0, len(path)+len(sum))
	message = append(message, path...)
	message = append(message, sum...)

	mac := hmac.New(sha512.New, c.privateKey)
	mac.Write(message)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// RequestSigner binds a nonce to one specific request's credentials and
// path, so callers cannot accidentally mismatch a nonce and a path across
// two concurrent signings.
type RequestSigner struct {
	credentials *Credentials
	path        string
	nonce       string
}

// NewRequestSigner binds credentials to path, generating a fresh nonce.
func NewRequestSigner(credentials *Credentials, path string) *RequestSigner {
	return &RequestSigner{credentials: credentials, path: path, nonce: GenerateNonce()}
}

// Nonce returns the nonce bound to this signer.
func (s *RequestSigner) Nonce() string { return s.nonce }

// APIKey returns the bound credentials' public API key.
func (s *RequestSigner) APIKey() string { return s.credentials.APIKey() }

// Sign signs postData using the bound path and nonce.
func (s *RequestSigner) Sign(postData string) string {
	return s.credentials.Sign(s.path, s.nonce, postData)
}
